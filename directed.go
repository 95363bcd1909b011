package xflow // import "github.com/orkestr8/xflow"

import (
	"sort"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// directed indexes the connections of a flow graph in gonum graphs keyed by
// ComponentID. forward holds only untagged connections and must stay acyclic;
// all holds every connection, parallel lines and self loops included.
type directed struct {
	forward *simple.DirectedGraph
	all     *multi.DirectedGraph
	// self records untagged connections from a component to itself, which
	// simple graphs cannot hold.
	self map[ComponentID]bool
}

func newDirected(n int) *directed {
	d := &directed{
		forward: simple.NewDirectedGraph(),
		all:     multi.NewDirectedGraph(),
		self:    map[ComponentID]bool{},
	}
	for i := 0; i < n; i++ {
		d.forward.AddNode(simple.Node(i))
		d.all.AddNode(multi.Node(i))
	}
	return d
}

func (d *directed) connect(c Connection) {
	from, to := int64(c.From.Component), int64(c.To.Component)
	d.all.SetLine(d.all.NewLine(multi.Node(from), multi.Node(to)))
	if c.Feedback {
		return
	}
	if from == to {
		d.self[c.From.Component] = true
		return
	}
	if !d.forward.HasEdgeFromTo(from, to) {
		d.forward.SetEdge(d.forward.NewEdge(simple.Node(from), simple.Node(to)))
	}
}

func sortedIDs(nodes gonum.Nodes) []ComponentID {
	out := []ComponentID{}
	for nodes.Next() {
		out = append(out, ComponentID(nodes.Node().ID()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

const (
	white = iota
	grey
	black
)

// cycle runs a colour-marking depth first search over the forward graph,
// visiting roots and successors in id order, and returns the first cycle as
// a path that starts and ends on the same component.
func (d *directed) cycle(n int) []ComponentID {
	for id := ComponentID(0); int(id) < n; id++ {
		if d.self[id] {
			return []ComponentID{id, id}
		}
	}

	colour := make([]int, n)
	stack := []ComponentID{}

	var visit func(ComponentID) []ComponentID
	visit = func(id ComponentID) []ComponentID {
		colour[id] = grey
		stack = append(stack, id)
		for _, next := range sortedIDs(d.forward.From(int64(id))) {
			switch colour[next] {
			case grey:
				for i := range stack {
					if stack[i] == next {
						return append(append([]ComponentID{}, stack[i:]...), next)
					}
				}
			case white:
				if found := visit(next); found != nil {
					return found
				}
			}
		}
		stack = stack[:len(stack)-1]
		colour[id] = black
		return nil
	}

	for id := ComponentID(0); int(id) < n; id++ {
		if colour[id] == white {
			if found := visit(id); found != nil {
				return found
			}
		}
	}
	return nil
}

// order is a topological order of the forward graph. Among the components
// ready at each step the lowest id goes first.
func (d *directed) order(n int) []ComponentID {
	indegree := make([]int, n)
	for id := 0; id < n; id++ {
		indegree[id] = d.forward.To(int64(id)).Len()
	}
	ready := []ComponentID{}
	for id := 0; id < n; id++ {
		if indegree[id] == 0 {
			ready = append(ready, ComponentID(id))
		}
	}
	out := make([]ComponentID, 0, n)
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)
		for _, to := range sortedIDs(d.forward.From(int64(next))) {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}
	return out
}

func (d *directed) pathExists(from, to ComponentID) bool {
	return topo.PathExistsIn(d.all, multi.Node(from), multi.Node(to))
}

func (d *directed) upstream(id ComponentID) []ComponentID {
	return sortedIDs(d.all.To(int64(id)))
}

func (d *directed) downstream(id ComponentID) []ComponentID {
	return sortedIDs(d.all.From(int64(id)))
}
