package flow // import "github.com/orkestr8/xflow/flow"

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orkestr8/xflow"
	"golang.org/x/sync/semaphore"
)

// run is the state of one execution of the graph.
type run struct {
	*Executor

	ctx    context.Context
	log    Logger
	global *xflow.Global
	queues queues
	sem    *semaphore.Weighted
	result *Result
}

type outcome struct {
	outputs xflow.Outputs
	next    xflow.Next
}

// Run seeds the input queues and executes cycles until no component is
// eligible, a component returns xflow.Break or an error aborts the run.
// No Result is returned with an error.
func (e *Executor) Run(ctx context.Context, global *xflow.Global, seeds Seeds) (*Result, error) {
	if global == nil {
		global = xflow.NewGlobal()
	}
	id := uuid.New()
	log := withTags(e.Logger, "run", id.String())

	ctx = setLogger(setRunID(ctx, id), log)

	r := &run{
		Executor: e,
		ctx:      ctx,
		log:      log,
		global:   global,
		queues:   queues{},
		result: &Result{
			RunID:    id,
			Outputs:  map[xflow.PortRef][]xflow.Package{},
			Global:   global,
			Runs:     map[xflow.ComponentID]int{},
			BrokenBy: xflow.NoComponent,
		},
	}
	if e.MaxWorkers > 0 {
		r.sem = semaphore.NewWeighted(int64(e.MaxWorkers))
	}

	if err := r.seed(seeds); err != nil {
		return nil, err
	}

	log.Log("Start flow run", "graph", e.graph.GraphName(), "seeds", len(seeds))
	result, err := r.loop()
	if err != nil {
		log.Warn("Flow run failed", "err", err)
		e.Metrics.flow("error")
		return nil, err
	}
	log.Log("Flow run complete", "stop", result.Stop, "cycles", result.Cycles)
	e.Metrics.flow(result.Stop.String())
	return result, nil
}

func (r *run) seed(seeds Seeds) error {
	for _, ref := range sortedRefs(seeds) {
		if ref.Component < 0 || int(ref.Component) >= len(r.nodes) {
			return xflow.ErrNoSuchComponent{ID: ref.Component}
		}
		n := r.nodes[ref.Component]
		port, has := n.inputs.Lookup(ref.Port)
		if !has {
			return xflow.ErrNoSuchPort{Component: n.name, Port: ref.Port, Context: "input"}
		}
		for _, v := range seeds[ref] {
			if !xflow.Compatible(v.Kind(), port.Type) {
				return xflow.ErrValueType{Component: n.name, Port: port.Name, Want: port.Type, Got: v.Kind()}
			}
			r.queues.push(ref, xflow.NewPackage(xflow.External, v))
		}
		r.Metrics.delivered(len(seeds[ref]))
	}
	return nil
}

func (r *run) loop() (*Result, error) {
	for cycle := 0; ; cycle++ {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}

		runnable := eligible(r.nodes, r.queues, cycle)
		if len(runnable) == 0 {
			r.result.Stop = Quiescent
			break
		}
		if r.MaxCycles > 0 && cycle >= r.MaxCycles {
			return nil, ErrCycleLimit{Limit: r.MaxCycles}
		}

		outcomes, err := r.dispatch(cycle, runnable)
		if err != nil {
			return nil, err
		}
		r.Metrics.cycle()
		r.result.Cycles = cycle + 1

		halted := false
		for i, n := range runnable {
			r.result.Runs[n.id]++
			if err := r.route(n, outcomes[i].outputs); err != nil {
				return nil, err
			}
			if outcomes[i].next == xflow.Break && !halted {
				halted = true
				r.result.BrokenBy = n.id
			}
		}
		if halted {
			r.log.Log("Break", "cycle", cycle, "component", r.nodes[r.result.BrokenBy].name)
			r.result.Stop = Halted
			break
		}
	}
	r.result.Pending = r.queues.pending()
	return r.result, nil
}

// dispatch drains the queues of the runnable nodes and runs them as futures.
// All runs are awaited; the first failure in component order is returned.
func (r *run) dispatch(cycle int, runnable []*node) ([]outcome, error) {
	futures := make([]xflow.Async[outcome], len(runnable))
	for i, n := range runnable {
		batch := r.queues.drain(n)
		r.log.Log("Dispatch", "cycle", cycle, "component", n.name, "received", len(batch))

		futures[i] = xflow.Future(func() (outcome, error) {
			if r.sem != nil {
				if err := r.sem.Acquire(r.ctx, 1); err != nil {
					return outcome{}, err
				}
				defer r.sem.Release(1)
			}
			start := time.Now()
			outputs, next, err := n.invoke(r.ctx, cycle, batch, r.global)
			r.Metrics.ran(n.name, time.Since(start), err)
			return outcome{outputs: outputs, next: next}, err
		})
	}

	outcomes := make([]outcome, len(runnable))
	var first error
	for i := range futures {
		if err := futures[i].Error(); err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		outcomes[i] = futures[i].Value()
	}
	return outcomes, first
}
