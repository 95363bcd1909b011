package flow // import "github.com/orkestr8/xflow/flow"

import (
	"context"

	"github.com/orkestr8/xflow"
)

// Executor runs a FlowGraph. It holds only immutable data, so one Executor
// may serve many concurrent runs; each run owns its queues.
type Executor struct {
	Options

	graph *xflow.FlowGraph
	nodes []*node
}

func NewExecutor(fg *xflow.FlowGraph, options Options) (*Executor, error) {
	if options.Logger == nil {
		options.Logger = nologging{}
	}
	if options.MaxGeneration == 0 {
		options.MaxGeneration = DefaultMaxGeneration
	}
	nodes, err := compile(fg)
	if err != nil {
		return nil, err
	}
	return &Executor{Options: options, graph: fg, nodes: nodes}, nil
}

func (e *Executor) Graph() *xflow.FlowGraph {
	return e.graph
}

// Run executes the graph once with a fresh executor. A nil global is replaced
// by an empty bag.
func Run(ctx context.Context, fg *xflow.FlowGraph, global *xflow.Global, options Options) (*Result, error) {
	e, err := NewExecutor(fg, options)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, global, nil)
}
