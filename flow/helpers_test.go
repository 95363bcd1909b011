package flow // import "github.com/orkestr8/xflow/flow"

import (
	"fmt"
	"sync"

	"github.com/orkestr8/xflow"
)

// recorder is a Logger that keeps every line.
type recorder struct {
	lines []string
	lock  sync.Mutex
}

func (r *recorder) Log(m string, args ...interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lines = append(r.lines, fmt.Sprint(append([]interface{}{"INFO", m}, args...)...))
}

func (r *recorder) Warn(m string, args ...interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lines = append(r.lines, fmt.Sprint(append([]interface{}{"WARN", m}, args...)...))
}

func emit(values ...xflow.Value) xflow.Func {
	return xflow.Func{
		Out: xflow.Ports{xflow.NewPort("out", xflow.Any)},
		Fn: func(ctx *xflow.Ctx) (xflow.Next, error) {
			for _, v := range values {
				if err := ctx.Emit("out", v); err != nil {
					return xflow.Continue, err
				}
			}
			return xflow.Continue, nil
		},
	}
}

// apply derives f(v) on "out" for every integer on "in".
func apply(f func(int64) int64) xflow.Func {
	return xflow.Func{
		In:  xflow.Ports{xflow.NewPort("in", xflow.Integer)},
		Out: xflow.Ports{xflow.NewPort("out", xflow.Integer)},
		Fn: func(ctx *xflow.Ctx) (xflow.Next, error) {
			for _, p := range ctx.Receive("in") {
				i, err := p.Value.AsInt()
				if err != nil {
					return xflow.Continue, err
				}
				if err := ctx.Derive("out", p, xflow.Int(f(i))); err != nil {
					return xflow.Continue, err
				}
			}
			return xflow.Continue, nil
		},
	}
}

// echo forwards "in" to "out" and counts its runs.
func echo(runs *int) xflow.Func {
	return xflow.Func{
		In:  xflow.Ports{xflow.NewPort("in", xflow.Any)},
		Out: xflow.Ports{xflow.NewPort("out", xflow.Any)},
		Fn: func(ctx *xflow.Ctx) (xflow.Next, error) {
			*runs++
			for _, p := range ctx.Receive("in") {
				if err := ctx.Forward("out", p); err != nil {
					return xflow.Continue, err
				}
			}
			return xflow.Continue, nil
		},
	}
}

// collect emits the whole batch of "in" as one Array.
func collect() xflow.Func {
	return xflow.Func{
		In:  xflow.Ports{xflow.NewPort("in", xflow.Any)},
		Out: xflow.Ports{xflow.NewPort("out", xflow.Array)},
		Fn: func(ctx *xflow.Ctx) (xflow.Next, error) {
			return xflow.Continue, ctx.Emit("out", xflow.List(ctx.Values("in")...))
		},
	}
}

type attributed struct {
	xflow.Func
	attributes map[string]interface{}
}

func (a attributed) Attributes() map[string]interface{} {
	return a.attributes
}

func ints(values ...int64) []xflow.Value {
	out := make([]xflow.Value, len(values))
	for i, v := range values {
		out[i] = xflow.Int(v)
	}
	return out
}
