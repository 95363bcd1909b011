package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"
)

// ComponentID indexes a component in the arena of a Builder / FlowGraph.
type ComponentID int

// NoComponent is the owner of packages that did not come from a component.
const NoComponent ComponentID = -1

// PortRef names one port of one component.
type PortRef struct {
	Component ComponentID
	Port      string
}

// External is the origin of packages seeded by the caller.
var External = PortRef{Component: NoComponent}

func Ref(id ComponentID, port string) PortRef {
	return PortRef{Component: id, Port: port}
}

func (r PortRef) String() string {
	if r.Component == NoComponent {
		return "external"
	}
	return fmt.Sprintf("%d.%s", r.Component, r.Port)
}

// ExecutionMode controls when a ready component is scheduled.
type ExecutionMode int

const (
	// Lazy components run only when a downstream Eager component waits on
	// them. A Lazy component with no input ports still runs once, at cycle 0.
	Lazy ExecutionMode = iota
	// Eager components run in every cycle they are ready.
	Eager
)

func (m ExecutionMode) String() string {
	if m == Eager {
		return "eager"
	}
	return "lazy"
}

// ParseMode accepts "lazy" or "eager"; the empty string is Lazy.
func ParseMode(s string) (ExecutionMode, error) {
	switch s {
	case "", "lazy":
		return Lazy, nil
	case "eager":
		return Eager, nil
	}
	return Lazy, fmt.Errorf("Unknown execution mode: %q", s)
}

// Next is the control signal returned by every component run.
//
//   - Continue lets the scheduler evaluate the next cycle.
//   - Break halts scheduling once the current cycle's outputs are delivered.
type Next int

const (
	Continue Next = iota
	Break
)

func (n Next) String() string {
	if n == Break {
		return "break"
	}
	return "continue"
}

// Component is the unit of execution. Inputs and Outputs must return the same
// ports for the lifetime of the component.
type Component interface {
	Inputs() Ports
	Outputs() Ports
	Run(*Ctx) (Next, error)
}

// Attributer is implemented by components that carry executor attributes,
// e.g. {"timeout": "2s"}.
type Attributer interface {
	Attributes() map[string]interface{}
}

// Func adapts a function and its port lists to a Component.
type Func struct {
	In  Ports
	Out Ports
	Fn  func(*Ctx) (Next, error)
}

func (f Func) Inputs() Ports  { return f.In }
func (f Func) Outputs() Ports { return f.Out }

func (f Func) Run(ctx *Ctx) (Next, error) {
	if f.Fn == nil {
		return Continue, nil
	}
	return f.Fn(ctx)
}
