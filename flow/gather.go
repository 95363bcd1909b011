package flow // import "github.com/orkestr8/xflow/flow"

import (
	"sort"

	"github.com/orkestr8/xflow"
)

// queues holds the packages waiting on every input port of one run, in
// arrival order.
type queues map[xflow.PortRef][]xflow.Package

func (q queues) push(to xflow.PortRef, p xflow.Package) {
	q[to] = append(q[to], p)
}

// ready is true when every required input port holds a package and at least
// one input port does. Components without input ports are never ready.
func (q queues) ready(n *node) bool {
	some := false
	for _, port := range n.inputs {
		has := len(q[xflow.Ref(n.id, port.Name)]) > 0
		if !has && !port.Optional {
			return false
		}
		some = some || has
	}
	return some
}

// drain empties the input queues of n into the batch for its next run.
func (q queues) drain(n *node) xflow.Inputs {
	batch := xflow.Inputs{}
	for _, port := range n.inputs {
		ref := xflow.Ref(n.id, port.Name)
		if packages := q[ref]; len(packages) > 0 {
			batch[port.Name] = packages
			delete(q, ref)
		}
	}
	return batch
}

// pending copies the non-empty queues.
func (q queues) pending() map[xflow.PortRef][]xflow.Package {
	out := map[xflow.PortRef][]xflow.Package{}
	for ref, packages := range q {
		if len(packages) > 0 {
			out[ref] = append([]xflow.Package(nil), packages...)
		}
	}
	return out
}

func sortedRefs(seeds Seeds) []xflow.PortRef {
	refs := make([]xflow.PortRef, 0, len(seeds))
	for ref := range seeds {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Component != refs[j].Component {
			return refs[i].Component < refs[j].Component
		}
		return refs[i].Port < refs[j].Port
	})
	return refs
}
