package components // import "github.com/orkestr8/xflow/components"

import (
	"fmt"
	"io"
	"os"

	"github.com/orkestr8/xflow"
	"github.com/orkestr8/xflow/flow"
)

// LogCountKey is the Global key under which Log counts the lines it wrote.
const LogCountKey = "log.count"

// Message emits Text on "message" Repeat times.
type Message struct {
	Text   string
	Repeat int64
}

func newMessage(config map[string]xflow.Value) (xflow.Component, error) {
	if err := known("message", config, "text", "repeat"); err != nil {
		return nil, err
	}
	text, err := stringOf("message", config, "text", "")
	if err != nil {
		return nil, err
	}
	repeat, err := intOf("message", config, "repeat", 1)
	if err != nil {
		return nil, err
	}
	return Message{Text: text, Repeat: repeat}, nil
}

func (Message) Inputs() xflow.Ports { return nil }

func (Message) Outputs() xflow.Ports {
	return xflow.Ports{xflow.NewPort("message", xflow.String).Describe("Message to print")}
}

func (m Message) Run(ctx *xflow.Ctx) (xflow.Next, error) {
	for i := int64(0); i < m.Repeat; i++ {
		if err := ctx.Emit("message", xflow.Str(m.Text)); err != nil {
			return xflow.Continue, err
		}
	}
	return xflow.Continue, nil
}

// Log writes every value received on "message" to Out, one per line, and
// counts the lines in the Global under LogCountKey.
type Log struct {
	Out io.Writer
}

func newLog(config map[string]xflow.Value) (xflow.Component, error) {
	if err := known("log", config); err != nil {
		return nil, err
	}
	return Log{Out: os.Stdout}, nil
}

func (Log) Inputs() xflow.Ports {
	return xflow.Ports{xflow.NewPort("message", xflow.Any).Describe("Message to print")}
}

func (Log) Outputs() xflow.Ports { return nil }

func (l Log) Run(ctx *xflow.Ctx) (xflow.Next, error) {
	out := l.Out
	if out == nil {
		out = os.Stdout
	}
	log := flow.LoggerFrom(ctx.Context())
	for _, v := range ctx.Values("message") {
		s := v.String()
		if _, err := fmt.Fprintln(out, s); err != nil {
			return xflow.Continue, err
		}
		log.Log("Logged", "component", ctx.Name(), "cycle", ctx.Cycle(), "value", s)
	}
	n := int64(len(ctx.Values("message")))
	return xflow.Continue, xflow.Upsert(ctx.Global(), LogCountKey, func(count *int64) error {
		*count += n
		return nil
	})
}

// Forward passes every package on "in" to "out" keeping its lineage.
type Forward struct{}

func newForward(config map[string]xflow.Value) (xflow.Component, error) {
	if err := known("forward", config); err != nil {
		return nil, err
	}
	return Forward{}, nil
}

func (Forward) Inputs() xflow.Ports  { return xflow.Ports{xflow.NewPort("in", xflow.Any)} }
func (Forward) Outputs() xflow.Ports { return xflow.Ports{xflow.NewPort("out", xflow.Any)} }

func (Forward) Run(ctx *xflow.Ctx) (xflow.Next, error) {
	for _, p := range ctx.Receive("in") {
		if err := ctx.Forward("out", p); err != nil {
			return xflow.Continue, err
		}
	}
	return xflow.Continue, nil
}

// Sum adds up the numbers of one batch on "in" and emits the total on "sum".
// The total is an Integer when every addend is, a Float otherwise.
type Sum struct{}

func newSum(config map[string]xflow.Value) (xflow.Component, error) {
	if err := known("sum", config); err != nil {
		return nil, err
	}
	return Sum{}, nil
}

func (Sum) Inputs() xflow.Ports {
	return xflow.Ports{xflow.NewPort("in", xflow.Any).Describe("Numbers to add")}
}

func (Sum) Outputs() xflow.Ports {
	return xflow.Ports{xflow.NewPort("sum", xflow.Any).Describe("Total of the batch")}
}

func (Sum) Run(ctx *xflow.Ctx) (xflow.Next, error) {
	var ints int64
	var floats float64
	integral := true
	for _, v := range ctx.Values("in") {
		switch v.Kind() {
		case xflow.Integer:
			i, _ := v.AsInt()
			ints += i
		default:
			f, err := v.AsNumber()
			if err != nil {
				return xflow.Continue, err
			}
			floats += f
			integral = false
		}
	}
	if integral {
		return xflow.Continue, ctx.Emit("sum", xflow.Int(ints))
	}
	return xflow.Continue, ctx.Emit("sum", xflow.Float64(floats+float64(ints)))
}

// Counter increments every integer on "in". Below Limit the result goes to
// "next", which is meant to be fed back into "in"; on reaching Limit it goes
// to "done" and the flow is stopped.
type Counter struct {
	Limit int64
}

func newCounter(config map[string]xflow.Value) (xflow.Component, error) {
	if err := known("counter", config, "limit"); err != nil {
		return nil, err
	}
	limit, err := intOf("counter", config, "limit", 10)
	if err != nil {
		return nil, err
	}
	return Counter{Limit: limit}, nil
}

func (Counter) Inputs() xflow.Ports { return xflow.Ports{xflow.NewPort("in", xflow.Integer)} }

func (Counter) Outputs() xflow.Ports {
	return xflow.Ports{
		xflow.NewPort("next", xflow.Integer),
		xflow.NewPort("done", xflow.Integer),
	}
}

func (c Counter) Run(ctx *xflow.Ctx) (xflow.Next, error) {
	next := xflow.Continue
	for _, p := range ctx.Receive("in") {
		i, err := p.Value.AsInt()
		if err != nil {
			return xflow.Continue, err
		}
		i++
		if i >= c.Limit {
			if err := ctx.Derive("done", p, xflow.Int(i)); err != nil {
				return xflow.Continue, err
			}
			next = xflow.Break
			continue
		}
		if err := ctx.Derive("next", p, xflow.Int(i)); err != nil {
			return xflow.Continue, err
		}
	}
	return next, nil
}

// Store appends every value on "in" to the []xflow.Value kept in the Global
// under Key.
type Store struct {
	Key string
}

func newStore(config map[string]xflow.Value) (xflow.Component, error) {
	if err := known("store", config, "key"); err != nil {
		return nil, err
	}
	key, err := stringOf("store", config, "key", "store")
	if err != nil {
		return nil, err
	}
	return Store{Key: key}, nil
}

func (Store) Inputs() xflow.Ports  { return xflow.Ports{xflow.NewPort("in", xflow.Any)} }
func (Store) Outputs() xflow.Ports { return nil }

func (s Store) Run(ctx *xflow.Ctx) (xflow.Next, error) {
	values := ctx.Values("in")
	return xflow.Continue, xflow.Upsert(ctx.Global(), s.Key, func(stored *[]xflow.Value) error {
		*stored = append(*stored, values...)
		return nil
	})
}
