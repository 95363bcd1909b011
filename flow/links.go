package flow // import "github.com/orkestr8/xflow/flow"

import (
	"github.com/orkestr8/xflow"
)

// route delivers the outputs of one run. Output ports are walked in declared
// order and each port's connections in the order the graph keeps them, so
// arrival order on every input queue is deterministic. Every connection gets
// its own copy; packages on unconnected ports are collected in the result.
func (r *run) route(n *node, outputs xflow.Outputs) error {
	for _, port := range n.outputs {
		packages := outputs[port.Name]
		if len(packages) == 0 {
			continue
		}
		connections := n.outbound[port.Name]
		if len(connections) == 0 {
			ref := xflow.Ref(n.id, port.Name)
			r.result.Outputs[ref] = append(r.result.Outputs[ref], packages...)
			continue
		}
		for _, c := range connections {
			for _, p := range packages {
				delivered := c.Deliver(p)
				if c.Feedback && delivered.Generation >= r.MaxGeneration {
					r.Metrics.loopAbort()
					return xflow.ErrLoopDetected{
						Connection: c,
						Component:  r.nodes[c.To.Component].name,
						Generation: delivered.Generation,
					}
				}
				r.queues.push(c.To, delivered)
			}
			r.Metrics.delivered(len(packages))
		}
	}
	return nil
}
