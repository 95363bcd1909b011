package xflow // import "github.com/orkestr8/xflow"

import (
	"context"
	"fmt"
)

// Inputs is the merged batch handed to one run, per input port, in arrival order.
type Inputs map[string][]Package

// Outputs holds the packages emitted by one run, per output port, in emit order.
type Outputs map[string][]Package

// Values returns the values emitted on port.
func (o Outputs) Values(port string) []Value {
	return Values(o[port])
}

// Ctx is the handle a component receives for one run. It is not safe for use
// by more than one goroutine.
type Ctx struct {
	context context.Context
	id      ComponentID
	name    string
	cycle   int
	in      Ports
	out     Ports
	inputs  Inputs
	outputs Outputs
	global  *Global

	// highest generation in the batch, carried by emitted packages
	generation uint64
}

// Context is canceled when the flow run is canceled or the component's
// timeout attribute expires.
func (c *Ctx) Context() context.Context { return c.context }
func (c *Ctx) ID() ComponentID          { return c.id }
func (c *Ctx) Name() string             { return c.name }
func (c *Ctx) Cycle() int               { return c.cycle }
func (c *Ctx) Global() *Global          { return c.global }

// Ports returns the component's declared input and output ports.
func (c *Ctx) Ports() (in, out Ports) { return c.in, c.out }

// Receive returns every package merged into port for this run.
func (c *Ctx) Receive(port string) []Package {
	return append([]Package(nil), c.inputs[port]...)
}

// First returns the oldest package merged into port.
func (c *Ctx) First(port string) (Package, bool) {
	if batch := c.inputs[port]; len(batch) > 0 {
		return batch[0], true
	}
	return Package{}, false
}

// Values returns the values merged into port.
func (c *Ctx) Values(port string) []Value {
	return Values(c.inputs[port])
}

// Received is the total number of packages in this run's batch.
func (c *Ctx) Received() int {
	total := 0
	for _, batch := range c.inputs {
		total += len(batch)
	}
	return total
}

// Emit sends v on port as a package originating at this port. It inherits
// the highest generation in the run's batch, so re-emitting received values
// around a feedback loop still counts toward the loop bound.
func (c *Ctx) Emit(port string, v Value) error {
	p := NewPackage(Ref(c.id, port), v)
	p.Generation = c.generation
	return c.send(port, p)
}

// Forward re-sends p unchanged, lineage included.
func (c *Ctx) Forward(port string, p Package) error {
	return c.send(port, p)
}

// Derive sends v on port as a continuation of parent's lineage.
func (c *Ctx) Derive(port string, parent Package, v Value) error {
	return c.send(port, parent.Derive(v))
}

func (c *Ctx) send(port string, p Package) error {
	decl, has := c.out.Lookup(port)
	if !has {
		return ErrNoSuchPort{Component: c.name, Port: port, Context: "output"}
	}
	if !Compatible(p.Value.Kind(), decl.Type) {
		return ErrValueType{Component: c.name, Port: port, Want: decl.Type, Got: p.Value.Kind()}
	}
	c.outputs[port] = append(c.outputs[port], p)
	return nil
}

// Invocation describes one component run.
type Invocation struct {
	ID        ComponentID
	Name      string
	Cycle     int
	Component Component
	Inputs    Inputs
	Global    *Global
}

// Invoke runs a component once, in or out of a flow graph. A nil Global is
// replaced by an empty bag. Errors and panics from the component come back as
// ErrComponentFailure and discard the outputs.
func Invoke(ctx context.Context, inv Invocation) (outputs Outputs, next Next, err error) {
	if inv.Component == nil {
		return nil, Continue, fmt.Errorf("Invoke: nil component")
	}
	if inv.Name == "" {
		inv.Name = fmt.Sprintf("%T", inv.Component)
	}
	if inv.Global == nil {
		inv.Global = NewGlobal()
	}
	in := inv.Component.Inputs()
	for port := range inv.Inputs {
		if !in.Contains(port) {
			return nil, Continue, ErrNoSuchPort{Component: inv.Name, Port: port, Context: "input"}
		}
	}

	c := &Ctx{
		context: ctx,
		id:      inv.ID,
		name:    inv.Name,
		cycle:   inv.Cycle,
		in:      in,
		out:     inv.Component.Outputs(),
		inputs:  inv.Inputs,
		outputs: Outputs{},
		global:  inv.Global,
	}
	if c.inputs == nil {
		c.inputs = Inputs{}
	}
	for _, batch := range c.inputs {
		for _, p := range batch {
			if p.Generation > c.generation {
				c.generation = p.Generation
			}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			outputs, next = nil, Continue
			err = ErrComponentFailure{Component: inv.Name, ID: inv.ID, Cycle: inv.Cycle,
				Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	next, err = inv.Component.Run(c)
	if err != nil {
		return nil, Continue, ErrComponentFailure{Component: inv.Name, ID: inv.ID, Cycle: inv.Cycle, Err: err}
	}
	return c.outputs, next, nil
}
