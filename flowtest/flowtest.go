// Package flowtest runs a single component in isolation, with the same
// semantics the flow executor uses for one invocation.
package flowtest // import "github.com/orkestr8/xflow/flowtest"

import (
	"context"
	"sort"

	"github.com/orkestr8/xflow"
	"github.com/stretchr/testify/require"
)

// Harness collects the inputs and globals for one run of a component.
type Harness struct {
	component xflow.Component
	name      string
	cycle     int
	inputs    xflow.Inputs
	global    *xflow.Global
}

// Result is what a component produced when it ran once.
type Result struct {
	Outputs xflow.Outputs
	Next    xflow.Next
	Global  *xflow.Global
}

// New returns a harness for c with no inputs and an empty Global.
func New(c xflow.Component) *Harness {
	return &Harness{
		component: c,
		inputs:    xflow.Inputs{},
		global:    xflow.NewGlobal(),
	}
}

// Named sets the component name seen through Ctx.Name and in errors.
func (h *Harness) Named(name string) *Harness {
	h.name = name
	return h
}

// Cycle sets the cycle number seen through Ctx.Cycle.
func (h *Harness) Cycle(cycle int) *Harness {
	h.cycle = cycle
	return h
}

// Input appends values to the batch of port. Each value arrives as a package
// from outside the graph.
func (h *Harness) Input(port string, values ...xflow.Value) *Harness {
	for _, v := range values {
		h.inputs[port] = append(h.inputs[port], xflow.NewPackage(xflow.External, v))
	}
	return h
}

// Packages appends packages with their lineage to the batch of port.
func (h *Harness) Packages(port string, packages ...xflow.Package) *Harness {
	h.inputs[port] = append(h.inputs[port], packages...)
	return h
}

// Global replaces the bag the component sees. The same pointer is returned in
// the Result.
func (h *Harness) Global(g *xflow.Global) *Harness {
	if g != nil {
		h.global = g
	}
	return h
}

// Run invokes the component once.
func (h *Harness) Run(ctx context.Context) (*Result, error) {
	outputs, next, err := xflow.Invoke(ctx, xflow.Invocation{
		ID:        0,
		Name:      h.name,
		Cycle:     h.cycle,
		Component: h.component,
		Inputs:    h.inputs,
		Global:    h.global,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Outputs: outputs, Next: next, Global: h.global}, nil
}

// MustRun is Run that fails t on error.
func (h *Harness) MustRun(t require.TestingT) *Result {
	r, err := h.Run(context.Background())
	require.NoError(t, err)
	return r
}

// Values returns the values emitted on port in emission order.
func (r *Result) Values(port string) []xflow.Value {
	return r.Outputs.Values(port)
}

// Ports returns the output ports that received at least one package, sorted.
func (r *Result) Ports() []string {
	ports := []string{}
	for port, packages := range r.Outputs {
		if len(packages) > 0 {
			ports = append(ports, port)
		}
	}
	sort.Strings(ports)
	return ports
}

// RequireValues asserts the exact sequence of values emitted on port.
func RequireValues(t require.TestingT, r *Result, port string, want ...xflow.Value) {
	got := r.Values(port)
	require.Len(t, got, len(want), "port %s: %v", port, got)
	for i := range want {
		require.True(t, want[i].Equal(got[i]), "port %s[%d]: want %v, got %v", port, i, want[i], got[i])
	}
}

// RequireSilent asserts that nothing was emitted on port.
func RequireSilent(t require.TestingT, r *Result, port string) {
	require.Empty(t, r.Outputs[port], "port %s", port)
}

// RequireGlobal asserts the value of type T stored under key.
func RequireGlobal[T any](t require.TestingT, r *Result, key string, want T) {
	got, ok, err := xflow.Get[T](r.Global, key)
	require.NoError(t, err)
	require.True(t, ok, "missing global %s", key)
	require.Equal(t, want, got)
}
