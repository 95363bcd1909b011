package flow // import "github.com/orkestr8/xflow/flow"

import (
	"context"
	"time"

	"github.com/orkestr8/xflow"
)

// node is the executor's compiled view of one component.
type node struct {
	id         xflow.ComponentID
	name       string
	mode       xflow.ExecutionMode
	component  xflow.Component
	attributes attributes
	inputs     xflow.Ports
	outputs    xflow.Ports
	inbound    []xflow.Connection
	// outbound connections grouped by output port name
	outbound map[string][]xflow.Connection
}

func (n *node) source() bool {
	return len(n.inputs) == 0
}

// optionalOnly is true when no input port is required.
func (n *node) optionalOnly() bool {
	for _, port := range n.inputs {
		if !port.Optional {
			return false
		}
	}
	return true
}

func compile(fg *xflow.FlowGraph) ([]*node, error) {
	nodes := make([]*node, fg.Len())
	for _, id := range fg.Components() {
		attr := attributes{}
		if attributer, is := fg.Component(id).(xflow.Attributer); is {
			if err := attr.unmarshal(attributer.Attributes()); err != nil {
				return nil, err
			}
		}
		n := &node{
			id:         id,
			name:       fg.Name(id),
			mode:       fg.Mode(id),
			component:  fg.Component(id),
			attributes: attr,
			inputs:     fg.Inputs(id),
			outputs:    fg.Outputs(id),
			inbound:    fg.Inbound(id),
			outbound:   map[string][]xflow.Connection{},
		}
		for _, c := range fg.Outbound(id) {
			n.outbound[c.From.Port] = append(n.outbound[c.From.Port], c)
		}
		nodes[id] = n
	}
	return nodes, nil
}

// invoke runs the component once under the node's timeout.
func (n *node) invoke(ctx context.Context, cycle int, batch xflow.Inputs,
	global *xflow.Global) (xflow.Outputs, xflow.Next, error) {

	if n.attributes.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(n.attributes.Timeout))
		defer cancel()
	}
	return xflow.Invoke(ctx, xflow.Invocation{
		ID:        n.id,
		Name:      n.name,
		Cycle:     cycle,
		Component: n.component,
		Inputs:    batch,
		Global:    global,
	})
}
