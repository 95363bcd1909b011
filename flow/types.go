package flow // import "github.com/orkestr8/xflow/flow"

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orkestr8/xflow"
)

type Duration time.Duration

type Logger interface {
	Log(string, ...interface{})
	Warn(string, ...interface{})
}

// DefaultMaxGeneration bounds how many times a package lineage may cross
// feedback connections when Options.MaxGeneration is zero.
const DefaultMaxGeneration = 1000

type Options struct {
	Logger

	// MaxGeneration aborts a run with ErrLoopDetected once a package crossing
	// a feedback connection reaches this generation.
	MaxGeneration uint64
	// MaxCycles aborts a run with ErrCycleLimit when more cycles would be
	// needed. Zero means unlimited.
	MaxCycles int
	// MaxWorkers bounds the component runs executing at once within a
	// cycle. Zero means one goroutine per eligible component.
	MaxWorkers int

	Metrics *Metrics
}

// Seeds are the values placed on input ports before the first cycle.
type Seeds map[xflow.PortRef][]xflow.Value

// Stop tells why a run ended without error.
type Stop int

const (
	// Quiescent runs ended because no component was eligible.
	Quiescent Stop = iota
	// Halted runs ended because a component returned xflow.Break.
	Halted
)

func (s Stop) String() string {
	if s == Halted {
		return "break"
	}
	return "quiescent"
}

type Result struct {
	RunID uuid.UUID
	// Outputs collects the packages emitted on output ports that have no
	// outbound connection, in emit order.
	Outputs map[xflow.PortRef][]xflow.Package
	// Global is the bag passed to Run.
	Global *xflow.Global
	Cycles int
	// Runs counts the runs of each component.
	Runs     map[xflow.ComponentID]int
	Stop     Stop
	BrokenBy xflow.ComponentID
	// Pending holds the packages still queued on input ports.
	Pending map[xflow.PortRef][]xflow.Package
}

// Values returns the values collected on the unconnected output port ref.
func (r *Result) Values(ref xflow.PortRef) []xflow.Value {
	return xflow.Values(r.Outputs[ref])
}

// ErrCycleLimit is returned when a run needs more cycles than Options.MaxCycles.
type ErrCycleLimit struct {
	Limit int
}

func (e ErrCycleLimit) Error() string {
	return fmt.Sprintf("Cycle limit reached: %d", e.Limit)
}
