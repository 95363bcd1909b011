package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"
	"sort"
	"sync"
)

type Options struct {
	// Name labels the graph, e.g. as the DOT graph id.
	Name string
}

type component struct {
	Component
	id      ComponentID
	name    string
	mode    ExecutionMode
	inputs  Ports
	outputs Ports
}

type endpoints struct {
	from, to PortRef
}

// Builder collects components and connections. It is safe for concurrent use
// and becomes read-only once Build succeeds.
type Builder struct {
	Options

	components  []*component
	names       map[string]ComponentID
	connections []Connection
	seen        map[endpoints]bool
	built       bool

	lock sync.Mutex
}

func NewBuilder(options Options) *Builder {
	return &Builder{
		Options: options,
		names:   map[string]ComponentID{},
		seen:    map[endpoints]bool{},
	}
}

// Add registers a component under a unique name and returns its id. Ids are
// assigned densely in insertion order.
func (b *Builder) Add(name string, c Component, mode ExecutionMode) (ComponentID, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.built {
		return NoComponent, ErrFrozen{}
	}
	if c == nil {
		return NoComponent, fmt.Errorf("Nil component: %s", name)
	}
	if name == "" {
		return NoComponent, fmt.Errorf("Component name required")
	}
	if _, has := b.names[name]; has {
		return NoComponent, ErrDuplicateComponent{Name: name}
	}
	if mode != Lazy && mode != Eager {
		return NoComponent, fmt.Errorf("Unknown execution mode %d for component %s", mode, name)
	}

	inputs, outputs := c.Inputs(), c.Outputs()
	if err := inputs.validate(name); err != nil {
		return NoComponent, err
	}
	if err := outputs.validate(name); err != nil {
		return NoComponent, err
	}

	id := ComponentID(len(b.components))
	b.components = append(b.components, &component{
		Component: c,
		id:        id,
		name:      name,
		mode:      mode,
		inputs:    append(Ports(nil), inputs...),
		outputs:   append(Ports(nil), outputs...),
	})
	b.names[name] = id
	return id, nil
}

// MustAdd is Add for static wiring; it panics on error.
func (b *Builder) MustAdd(name string, c Component, mode ExecutionMode) ComponentID {
	id, err := b.Add(name, c, mode)
	if err != nil {
		panic(err)
	}
	return id
}

func (b *Builder) get(id ComponentID) (*component, error) {
	if id < 0 || int(id) >= len(b.components) {
		return nil, ErrNoSuchComponent{ID: id}
	}
	return b.components[id], nil
}

// Connect wires an output port to an input port. At most one connection may
// join the same pair of ports.
func (b *Builder) Connect(from, to PortRef, options ...ConnectOption) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.built {
		return ErrFrozen{}
	}

	src, err := b.get(from.Component)
	if err != nil {
		return err
	}
	dst, err := b.get(to.Component)
	if err != nil {
		return err
	}
	out, has := src.outputs.Lookup(from.Port)
	if !has {
		return ErrNoSuchPort{Component: src.name, Port: from.Port, Context: "output"}
	}
	in, has := dst.inputs.Lookup(to.Port)
	if !has {
		return ErrNoSuchPort{Component: dst.name, Port: to.Port, Context: "input"}
	}
	if !Compatible(out.Type, in.Type) {
		return ErrTypeMismatch{
			From:     src.name + "." + out.Name,
			To:       dst.name + "." + in.Name,
			FromType: out.Type,
			ToType:   in.Type,
		}
	}

	c := Connection{From: from, To: to}
	for _, option := range options {
		option(&c)
	}
	key := endpoints{from: from, to: to}
	if b.seen[key] {
		return ErrDuplicateConnection{Connection: c}
	}
	b.seen[key] = true
	b.connections = append(b.connections, c)
	return nil
}

// Build checks that untagged connections form no cycle and returns the
// immutable graph. A failed Build leaves the builder open for changes.
func (b *Builder) Build() (*FlowGraph, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.built {
		return nil, ErrFrozen{}
	}

	n := len(b.components)
	fg := &FlowGraph{
		name:        b.Name,
		components:  append([]*component(nil), b.components...),
		names:       map[string]ComponentID{},
		connections: append([]Connection(nil), b.connections...),
		outbound:    make([][]Connection, n),
		inbound:     make([][]Connection, n),
		directed:    newDirected(n),
	}
	for name, id := range b.names {
		fg.names[name] = id
	}

	for _, c := range fg.connections {
		fg.directed.connect(c)
	}

	if cycle := fg.directed.cycle(n); cycle != nil {
		path := make([]string, len(cycle))
		for i, id := range cycle {
			path[i] = fg.components[id].name
		}
		return nil, ErrCyclicGraph{Path: path}
	}

	fg.order = fg.directed.order(n)

	// Per component, connections are kept in output/input port declaration
	// order and then insertion order. Routing relies on this.
	for _, c := range fg.connections {
		fg.outbound[c.From.Component] = append(fg.outbound[c.From.Component], c)
		fg.inbound[c.To.Component] = append(fg.inbound[c.To.Component], c)
	}
	for id := range fg.components {
		comp := fg.components[id]
		sort.SliceStable(fg.outbound[id], func(i, j int) bool {
			return portIndex(comp.outputs, fg.outbound[id][i].From.Port) <
				portIndex(comp.outputs, fg.outbound[id][j].From.Port)
		})
		sort.SliceStable(fg.inbound[id], func(i, j int) bool {
			return portIndex(comp.inputs, fg.inbound[id][i].To.Port) <
				portIndex(comp.inputs, fg.inbound[id][j].To.Port)
		})
	}

	b.built = true
	return fg, nil
}

func portIndex(ports Ports, name string) int {
	for i := range ports {
		if ports[i].Name == name {
			return i
		}
	}
	return len(ports)
}

// FlowGraph is a validated, immutable arena of components and connections.
// Components are addressed by the ComponentID returned from Builder.Add.
type FlowGraph struct {
	name        string
	components  []*component
	names       map[string]ComponentID
	connections []Connection
	outbound    [][]Connection
	inbound     [][]Connection
	directed    *directed
	order       []ComponentID
}

func (fg *FlowGraph) GraphName() string { return fg.name }

func (fg *FlowGraph) Len() int { return len(fg.components) }

func (fg *FlowGraph) valid(id ComponentID) bool {
	return id >= 0 && int(id) < len(fg.components)
}

// Components returns every id in insertion order.
func (fg *FlowGraph) Components() []ComponentID {
	out := make([]ComponentID, len(fg.components))
	for i := range out {
		out[i] = ComponentID(i)
	}
	return out
}

func (fg *FlowGraph) Name(id ComponentID) string {
	if !fg.valid(id) {
		return ""
	}
	return fg.components[id].name
}

func (fg *FlowGraph) Lookup(name string) (ComponentID, bool) {
	id, has := fg.names[name]
	if !has {
		return NoComponent, false
	}
	return id, true
}

func (fg *FlowGraph) Mode(id ComponentID) ExecutionMode {
	if !fg.valid(id) {
		return Lazy
	}
	return fg.components[id].mode
}

func (fg *FlowGraph) Component(id ComponentID) Component {
	if !fg.valid(id) {
		return nil
	}
	return fg.components[id].Component
}

// Inputs returns the input ports as declared when the component was added.
func (fg *FlowGraph) Inputs(id ComponentID) Ports {
	if !fg.valid(id) {
		return nil
	}
	return fg.components[id].inputs
}

func (fg *FlowGraph) Outputs(id ComponentID) Ports {
	if !fg.valid(id) {
		return nil
	}
	return fg.components[id].outputs
}

// Connections returns every connection in the order they were made.
func (fg *FlowGraph) Connections() []Connection {
	return append([]Connection(nil), fg.connections...)
}

func (fg *FlowGraph) Outbound(id ComponentID) []Connection {
	if !fg.valid(id) {
		return nil
	}
	return fg.outbound[id]
}

func (fg *FlowGraph) Inbound(id ComponentID) []Connection {
	if !fg.valid(id) {
		return nil
	}
	return fg.inbound[id]
}

// Upstream lists, in id order, the components with a connection into id.
func (fg *FlowGraph) Upstream(id ComponentID) []ComponentID {
	if !fg.valid(id) {
		return nil
	}
	return fg.directed.upstream(id)
}

// Downstream lists, in id order, the components id has a connection into.
func (fg *FlowGraph) Downstream(id ComponentID) []ComponentID {
	if !fg.valid(id) {
		return nil
	}
	return fg.directed.downstream(id)
}

// Sources are the components without input ports.
func (fg *FlowGraph) Sources() []ComponentID {
	out := []ComponentID{}
	for _, c := range fg.components {
		if len(c.inputs) == 0 {
			out = append(out, c.id)
		}
	}
	return out
}

// Terminals are the components without outbound connections.
func (fg *FlowGraph) Terminals() []ComponentID {
	out := []ComponentID{}
	for id := range fg.components {
		if len(fg.outbound[id]) == 0 {
			out = append(out, ComponentID(id))
		}
	}
	return out
}

// Order is a topological order over the untagged connections, ties broken by
// id.
func (fg *FlowGraph) Order() []ComponentID {
	return append([]ComponentID(nil), fg.order...)
}

// PathExists reports whether packages emitted by from can reach to, feedback
// connections included.
func (fg *FlowGraph) PathExists(from, to ComponentID) bool {
	if !fg.valid(from) || !fg.valid(to) {
		return false
	}
	return fg.directed.pathExists(from, to)
}

// Format renders a port reference with the component name.
func (fg *FlowGraph) Format(ref PortRef) string {
	if ref.Component == NoComponent {
		return ref.String()
	}
	return fmt.Sprintf("%s.%s", fg.Name(ref.Component), ref.Port)
}
