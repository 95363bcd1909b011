package flow // import "github.com/orkestr8/xflow/flow"

import (
	"github.com/orkestr8/xflow"
)

// eligible returns, in component order, the nodes to run this cycle.
//
// Sources run once, in cycle 0, and so do Eager nodes whose inputs are all
// optional, even with nothing queued. Eager nodes run whenever they are
// ready. Lazy nodes run when they are ready and demanded: an Eager node that
// has input ports but is not ready is waiting, and demand spreads from it
// upstream through inbound connections, marking every Lazy node it reaches
// and going on only through Lazy nodes.
func eligible(nodes []*node, q queues, cycle int) []*node {
	ready := make([]bool, len(nodes))
	for i, n := range nodes {
		if n.source() {
			ready[i] = cycle == 0
			continue
		}
		ready[i] = q.ready(n) || (cycle == 0 && n.mode == xflow.Eager && n.optionalOnly())
	}

	demanded := demand(nodes, ready)

	out := []*node{}
	for i, n := range nodes {
		switch {
		case !ready[i]:
		case n.source(), n.mode == xflow.Eager:
			out = append(out, n)
		case demanded[i]:
			out = append(out, n)
		}
	}
	return out
}

func demand(nodes []*node, ready []bool) []bool {
	demanded := make([]bool, len(nodes))

	var visit func(*node)
	visit = func(n *node) {
		for _, c := range n.inbound {
			up := nodes[c.From.Component]
			if up.mode != xflow.Lazy || demanded[up.id] {
				continue
			}
			demanded[up.id] = true
			visit(up)
		}
	}

	for i, n := range nodes {
		if n.mode == xflow.Eager && !n.source() && !ready[i] {
			visit(n)
		}
	}
	return demanded
}
