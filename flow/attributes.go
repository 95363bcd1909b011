package flow // import "github.com/orkestr8/xflow/flow"

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string such as "1.5s" or a whole number of
// nanoseconds. Negative durations are rejected.
func (d *Duration) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var parsed time.Duration
	switch value := raw.(type) {
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return fmt.Errorf("duration %s: not a whole number of nanoseconds", value)
		}
		parsed = time.Duration(n)
	case string:
		p, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		parsed = p
	default:
		return fmt.Errorf("duration: want a string or a number, got %s", b)
	}
	if parsed < 0 {
		return fmt.Errorf("duration %v is negative", parsed)
	}
	*d = Duration(parsed)
	return nil
}

// attributes are the per component executor settings, read from
// xflow.Attributer.
type attributes struct {
	Timeout Duration `json:"timeout,omitempty"`
}

// unmarshal fills a from an attribute map. The map is decoded through its
// JSON form so Duration's rules apply; unknown keys are an error.
func (a *attributes) unmarshal(m map[string]interface{}) error {
	if len(m) == 0 {
		return nil
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.DisallowUnknownFields()

	decoded := attributes{}
	if err := dec.Decode(&decoded); err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	*a = decoded
	return nil
}
