// Package components holds the built-in components available to flow files
// and the command line.
package components // import "github.com/orkestr8/xflow/components"

import (
	"fmt"
	"sort"

	"github.com/orkestr8/xflow"
)

// Factory builds a component from its decoded configuration.
type Factory = func(config map[string]xflow.Value) (xflow.Component, error)

// Factories returns a fresh map of kind to factory for every built-in.
func Factories() map[string]Factory {
	return map[string]Factory{
		"message": newMessage,
		"log":     newLog,
		"forward": newForward,
		"sum":     newSum,
		"counter": newCounter,
		"store":   newStore,
	}
}

// Kinds returns the built-in kinds, sorted.
func Kinds() []string {
	kinds := []string{}
	for k := range Factories() {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ErrConfig is returned by a factory when a config entry is missing or has
// the wrong kind.
type ErrConfig struct {
	Kind string
	Key  string
	Err  error
}

func (e ErrConfig) Error() string {
	return fmt.Sprintf("%s: config %q: %v", e.Kind, e.Key, e.Err)
}

func (e ErrConfig) Unwrap() error {
	return e.Err
}

func stringOf(kind string, config map[string]xflow.Value, key, fallback string) (string, error) {
	v, has := config[key]
	if !has {
		return fallback, nil
	}
	s, err := v.AsString()
	if err != nil {
		return "", ErrConfig{Kind: kind, Key: key, Err: err}
	}
	return s, nil
}

func intOf(kind string, config map[string]xflow.Value, key string, fallback int64) (int64, error) {
	v, has := config[key]
	if !has {
		return fallback, nil
	}
	i, err := v.AsInt()
	if err != nil {
		return 0, ErrConfig{Kind: kind, Key: key, Err: err}
	}
	return i, nil
}

func known(kind string, config map[string]xflow.Value, keys ...string) error {
	for k := range config {
		found := false
		for _, key := range keys {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			return ErrConfig{Kind: kind, Key: k, Err: fmt.Errorf("unknown key")}
		}
	}
	return nil
}
