package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"
	"sort"
)

// Connection is a directed edge from an output port to an input port.
// Feedback connections are allowed to close a cycle.
type Connection struct {
	From     PortRef
	To       PortRef
	Feedback bool
}

func (c Connection) String() string {
	arrow := "->"
	if c.Feedback {
		arrow = "~>"
	}
	return fmt.Sprintf("%v %s %v", c.From, arrow, c.To)
}

// ConnectOption tags a connection when it is created.
type ConnectOption func(*Connection)

// Feedback marks the connection as an intentional loop. Cycles made only of
// untagged connections are rejected by Build.
func Feedback() ConnectOption {
	return func(c *Connection) {
		c.Feedback = true
	}
}

// Deliver carries a package across the connection. Crossing a feedback
// connection advances the package's generation.
func (c Connection) Deliver(p Package) Package {
	if c.Feedback {
		return p.reentered()
	}
	return p
}

// SortConnections sorts in place by the given less function.
func SortConnections(connections []Connection, less func(a, b Connection) bool) {
	sort.Sort(&connectionSorter{slice: connections, less: less})
}

// ByEndpoints orders by source then destination.
func ByEndpoints(a, b Connection) bool {
	if a.From.Component != b.From.Component {
		return a.From.Component < b.From.Component
	}
	if a.From.Port != b.From.Port {
		return a.From.Port < b.From.Port
	}
	if a.To.Component != b.To.Component {
		return a.To.Component < b.To.Component
	}
	return a.To.Port < b.To.Port
}

type connectionSorter struct {
	slice []Connection
	less  func(a, b Connection) bool
}

// Len is part of sort.Interface.
func (cs *connectionSorter) Len() int {
	return len(cs.slice)
}

// Swap is part of sort.Interface.
func (cs *connectionSorter) Swap(i, j int) {
	cs.slice[i], cs.slice[j] = cs.slice[j], cs.slice[i]
}

// Less is part of sort.Interface. It is implemented by calling the "less" closure in the sorter.
func (cs *connectionSorter) Less(i, j int) bool {
	return cs.less(cs.slice[i], cs.slice[j])
}
