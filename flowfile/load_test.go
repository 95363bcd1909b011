package flowfile // import "github.com/orkestr8/xflow/flowfile"

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/orkestr8/xflow"
	"github.com/orkestr8/xflow/components"
	"github.com/orkestr8/xflow/flow"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, out *bytes.Buffer) *Registry {
	r := NewRegistry()
	for kind, f := range components.Factories() {
		if kind == "log" {
			continue
		}
		require.NoError(t, r.Register(kind, f))
	}
	require.NoError(t, r.Register("log", func(map[string]xflow.Value) (xflow.Component, error) {
		return components.Log{Out: out}, nil
	}))
	return r
}

const hello = `
name = "hello"

component "message" "greet" {
  config = { text = "hello" }
}

component "log" "print" {
  mode = "eager"
}

connect {
  from = "greet.message"
  to   = "print.message"
}
`

func TestParseAndRun(t *testing.T) {

	var out bytes.Buffer
	f, err := Parse([]byte(hello), "hello.hcl", testRegistry(t, &out))
	require.NoError(t, err)

	fg := f.Graph
	require.Equal(t, "hello", fg.GraphName())
	require.Equal(t, 2, fg.Len())
	greet, has := fg.Lookup("greet")
	require.True(t, has)
	printer, has := fg.Lookup("print")
	require.True(t, has)
	require.Equal(t, xflow.Lazy, fg.Mode(greet))
	require.Equal(t, xflow.Eager, fg.Mode(printer))
	require.Equal(t, []xflow.Connection{{From: xflow.Ref(greet, "message"), To: xflow.Ref(printer, "message")}},
		fg.Connections())
	require.Empty(t, f.Seeds)

	result, err := flow.Run(context.Background(), fg, nil, flow.Options{})
	require.NoError(t, err)
	require.Equal(t, "hello\n", out.String())
	require.Equal(t, 2, result.Cycles)

	count, _, err := xflow.Get[int64](result.Global, components.LogCountKey)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

const counter = `
component "counter" "count" {
  mode    = "eager"
  timeout = "1s"
  config  = { limit = 4 }
}

component "store" "keep" {
  mode   = "eager"
  config = { key = "results" }
}

connect {
  from     = "count.next"
  to       = "count.in"
  feedback = true
}

connect {
  from = "count.next"
  to   = "keep.in"
}

seed "count.in" {
  values = [0]
}
`

func TestParseFeedbackAndSeeds(t *testing.T) {

	f, err := Parse([]byte(counter), "dir/counter.hcl", testRegistry(t, nil))
	require.NoError(t, err)

	fg := f.Graph
	require.Equal(t, "counter", fg.GraphName())
	count, _ := fg.Lookup("count")
	keep, _ := fg.Lookup("keep")

	require.Equal(t, flow.Seeds{xflow.Ref(count, "in"): {xflow.Int(0)}}, f.Seeds)
	require.True(t, fg.Connections()[0].Feedback)

	attributer, is := fg.Component(count).(xflow.Attributer)
	require.True(t, is)
	require.Equal(t, map[string]interface{}{"timeout": "1s"}, attributer.Attributes())

	ex, err := flow.NewExecutor(fg, flow.Options{})
	require.NoError(t, err)
	result, err := ex.Run(context.Background(), nil, f.Seeds)
	require.NoError(t, err)
	require.Equal(t, flow.Halted, result.Stop)
	require.Equal(t, 4, result.Runs[count])

	// 4 leaves on the unconnected done port in the breaking cycle
	require.Equal(t, []xflow.Value{xflow.Int(4)}, result.Values(xflow.Ref(count, "done")))
	stored, _, err := xflow.Get[[]xflow.Value](result.Global, "results")
	require.NoError(t, err)
	require.Equal(t, []xflow.Value{xflow.Int(1), xflow.Int(2), xflow.Int(3)}, stored)
	require.Equal(t, 3, result.Runs[keep])
}

func TestLoad(t *testing.T) {

	path := filepath.Join(t.TempDir(), "hello.hcl")
	require.NoError(t, os.WriteFile(path, []byte(hello), 0o600))

	var out bytes.Buffer
	f, err := Load(context.Background(), path, testRegistry(t, &out))
	require.NoError(t, err)
	require.Equal(t, "hello", f.Graph.GraphName())

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"), NewRegistry())
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseErrors(t *testing.T) {

	r := testRegistry(t, nil)

	for name, src := range map[string]string{
		"syntax":       `component "message" {`,
		"unknown kind": `component "nope" "x" {}`,
		"bad mode":     `component "forward" "x" { mode = "sometimes" }`,
		"bad timeout":  `component "forward" "x" { timeout = "soon" }`,
		"bad config":   `component "forward" "x" { config = { extra = 1 } }`,
		"config type":  `component "message" "x" { config = "text" }`,
		"bad ref": `
component "forward" "x" {}
connect {
  from = "x"
  to   = "x.in"
}`,
		"unknown component": `
component "forward" "x" {}
connect {
  from = "x.out"
  to   = "y.in"
}`,
		"unknown port": `
component "forward" "x" {}
component "forward" "y" {}
connect {
  from = "x.nope"
  to   = "y.in"
}`,
		"seed port": `
component "forward" "x" {}
seed "y.in" {
  values = [1]
}`,
		"duplicate": `
component "forward" "x" {}
component "forward" "x" {}`,
	} {
		_, err := Parse([]byte(src), name+".hcl", r)
		require.Error(t, err, name)
	}

	_, err := Parse([]byte(`
component "forward" "x" {}
component "forward" "y" {}
connect {
  from = "x.out"
  to   = "y.in"
}
connect {
  from = "y.out"
  to   = "x.in"
}`), "cycle.hcl", r)
	var cyclic xflow.ErrCyclicGraph
	require.True(t, errors.As(err, &cyclic))
	require.Equal(t, []string{"x", "y", "x"}, cyclic.Path)
}

func TestRegistry(t *testing.T) {

	r := NewRegistry()
	f := func(map[string]xflow.Value) (xflow.Component, error) { return components.Forward{}, nil }
	require.NoError(t, r.Register("b", f))
	require.NoError(t, r.Register("a", f))
	require.Error(t, r.Register("a", f))
	require.Error(t, r.Register("", f))
	require.Error(t, r.Register("c", nil))
	require.Equal(t, []string{"a", "b"}, r.Kinds())
}
