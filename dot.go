package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

type NodeShape string

const (
	NodeShapeBox     NodeShape = "box"
	NodeShapeRecord  NodeShape = "record"
	NodeShapeEllipse NodeShape = "ellipse"
)

type DotOptions struct {
	// Name overrides the graph name given to the Builder.
	Name      string
	Prefix    string
	Indent    string
	NodeShape NodeShape
	// PortLabels labels every edge with its output and input port names.
	PortLabels bool
}

// attributes keeps insertion order so the rendering is stable.
type attributes []encoding.Attribute

func (a attributes) Attributes() []encoding.Attribute {
	return a
}

type dotNode struct {
	id   int64
	name string
	mode ExecutionMode
}

func (n dotNode) ID() int64 {
	return n.id
}

func (n dotNode) DOTID() string {
	return n.name
}

func (n dotNode) Attributes() []encoding.Attribute {
	if n.mode == Lazy {
		return attributes{{Key: "style", Value: "dashed"}}
	}
	return nil
}

type dotLine struct {
	id         int64
	from, to   gonum.Node
	connection Connection
	label      bool
}

func (l dotLine) From() gonum.Node { return l.from }
func (l dotLine) To() gonum.Node   { return l.to }
func (l dotLine) ID() int64        { return l.id }

func (l dotLine) ReversedLine() gonum.Line {
	return dotLine{id: l.id, from: l.to, to: l.from, connection: l.connection, label: l.label}
}

func (l dotLine) Attributes() []encoding.Attribute {
	out := attributes{}
	if l.label {
		out = append(out, encoding.Attribute{
			Key:   "label",
			Value: fmt.Sprintf("%s:%s", l.connection.From.Port, l.connection.To.Port),
		})
	}
	if l.connection.Feedback {
		out = append(out, encoding.Attribute{Key: "style", Value: "dashed"})
	}
	return out
}

type dotGraph struct {
	*multi.DirectedGraph
	DotOptions
}

func (dg *dotGraph) DOTID() string {
	if dg.Name == "" {
		return "G"
	}
	return dg.Name
}

func (dg *dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	graph = attributes{{Key: "rankdir", Value: "LR"}}
	node = attributes{}
	if dg.NodeShape != "" {
		node = attributes{{Key: "shape", Value: string(dg.NodeShape)}}
	}
	edge = attributes{}
	return
}

// EncodeDot renders the flow graph in Graphviz syntax. Lazy components and
// feedback connections are drawn dashed.
func EncodeDot(fg *FlowGraph, options DotOptions) ([]byte, error) {
	if options.Name == "" {
		options.Name = fg.name
	}
	dg := &dotGraph{
		DirectedGraph: multi.NewDirectedGraph(),
		DotOptions:    options,
	}

	nodes := make([]dotNode, len(fg.components))
	for i, c := range fg.components {
		nodes[i] = dotNode{id: int64(i), name: c.name, mode: c.mode}
		dg.AddNode(nodes[i])
	}
	for i, c := range fg.connections {
		dg.SetLine(dotLine{
			id:         int64(i),
			from:       nodes[c.From.Component],
			to:         nodes[c.To.Component],
			connection: c,
			label:      options.PortLabels,
		})
	}
	return dot.MarshalMulti(dg, options.Name, options.Prefix, options.Indent)
}
