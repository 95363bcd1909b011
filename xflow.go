// Package xflow is a flow-based execution model: components with typed input
// and output ports are wired into a graph, and packages of data travel along
// the connections. The graph is acyclic except for connections tagged with
// Feedback. Package flow executes a FlowGraph.
package xflow // import "github.com/orkestr8/xflow"
