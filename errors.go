package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"
	"reflect"
	"strings"
)

type ErrDuplicateComponent struct {
	Name string
}

func (e ErrDuplicateComponent) Error() string {
	return fmt.Sprintf("Duplicate component: %s", e.Name)
}

type ErrNoSuchComponent struct {
	ID ComponentID
}

func (e ErrNoSuchComponent) Error() string {
	return fmt.Sprintf("Missing component: %d", e.ID)
}

type ErrDuplicatePort struct {
	Component string
	Port      string
}

func (e ErrDuplicatePort) Error() string {
	return fmt.Sprintf("Duplicate port %s on component %s", e.Port, e.Component)
}

type ErrInvalidPort struct {
	Component string
	Port      string
	Reason    string
}

func (e ErrInvalidPort) Error() string {
	return fmt.Sprintf("Invalid port %q on component %s: %s", e.Port, e.Component, e.Reason)
}

// ErrNoSuchPort is returned when a connection, seed or emit names a port the
// component does not declare. Context is "input" or "output".
type ErrNoSuchPort struct {
	Component string
	Port      string
	Context   string
}

func (e ErrNoSuchPort) Error() string {
	return fmt.Sprintf("Missing %s port %s on component %s", e.Context, e.Port, e.Component)
}

type ErrDuplicateConnection struct {
	Connection Connection
}

func (e ErrDuplicateConnection) Error() string {
	return fmt.Sprintf("Duplicate connection: %v", e.Connection)
}

// ErrFrozen is returned by a Builder after Build succeeded.
type ErrFrozen struct{}

func (e ErrFrozen) Error() string {
	return "Flow graph already built"
}

// ErrTypeMismatch rejects a connection between incompatible port types.
type ErrTypeMismatch struct {
	From, To         string
	FromType, ToType Kind
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("Type mismatch: %s (%v) -> %s (%v)", e.From, e.FromType, e.To, e.ToType)
}

// ErrCyclicGraph carries the component names of the first cycle found,
// starting and ending with the same component.
type ErrCyclicGraph struct {
	Path []string
}

func (e ErrCyclicGraph) Error() string {
	return fmt.Sprintf("Cyclic graph: %s", strings.Join(e.Path, " -> "))
}

// ErrLoopDetected aborts a run when a package lineage re-entered its loop too
// many times.
type ErrLoopDetected struct {
	Connection Connection
	Component  string
	Generation uint64
}

func (e ErrLoopDetected) Error() string {
	return fmt.Sprintf("Loop detected: package reached generation %d on %v into component %s",
		e.Generation, e.Connection, e.Component)
}

// ErrComponentFailure wraps an error returned (or a panic raised) by a
// component run.
type ErrComponentFailure struct {
	Component string
	ID        ComponentID
	Cycle     int
	Err       error
}

func (e ErrComponentFailure) Error() string {
	return fmt.Sprintf("Component %s failed in cycle %d: %v", e.Component, e.Cycle, e.Err)
}

func (e ErrComponentFailure) Unwrap() error {
	return e.Err
}

// ErrGlobalTypeMismatch is returned when a Global key is read as a type other
// than the one it was inserted with.
type ErrGlobalTypeMismatch struct {
	Key       string
	Stored    reflect.Type
	Requested reflect.Type
}

func (e ErrGlobalTypeMismatch) Error() string {
	return fmt.Sprintf("Global %q holds %v, not %v", e.Key, e.Stored, e.Requested)
}

// ErrValueKind is returned by the Value accessors.
type ErrValueKind struct {
	Want, Got Kind
}

func (e ErrValueKind) Error() string {
	return fmt.Sprintf("Value is %v, not %v", e.Got, e.Want)
}

// ErrValueType rejects an emitted value that does not fit its output port.
type ErrValueType struct {
	Component string
	Port      string
	Want, Got Kind
}

func (e ErrValueType) Error() string {
	return fmt.Sprintf("Cannot emit %v on %s.%s (%v)", e.Got, e.Component, e.Port, e.Want)
}
