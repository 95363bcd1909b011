package flow // import "github.com/orkestr8/xflow/flow"

import (
	"context"
	"errors"
	"testing"

	"github.com/orkestr8/xflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	b := xflow.NewBuilder(xflow.Options{})
	src := b.MustAdd("src", emit(ints(1, 2)...), xflow.Eager)
	double := b.MustAdd("double", apply(func(i int64) int64 { return i * 2 }), xflow.Eager)
	require.NoError(t, b.Connect(xflow.Ref(src, "out"), xflow.Ref(double, "in")))
	fg, err := b.Build()
	require.NoError(t, err)

	_, err = Run(context.Background(), fg, nil, Options{Metrics: m})
	require.NoError(t, err)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Cycles))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Deliveries))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("src")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("double")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Flows.WithLabelValues("quiescent")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.Failures.WithLabelValues("double")))

	// a loop abort and a failed run
	runs := 0
	b = xflow.NewBuilder(xflow.Options{})
	e := b.MustAdd("echo", echo(&runs), xflow.Eager)
	require.NoError(t, b.Connect(xflow.Ref(e, "out"), xflow.Ref(e, "in"), xflow.Feedback()))
	fg, err = b.Build()
	require.NoError(t, err)

	ex, err := NewExecutor(fg, Options{Metrics: m, MaxGeneration: 3})
	require.NoError(t, err)
	_, err = ex.Run(context.Background(), nil, Seeds{xflow.Ref(e, "in"): ints(1)})
	var loop xflow.ErrLoopDetected
	require.True(t, errors.As(err, &loop))

	require.Equal(t, 1.0, testutil.ToFloat64(m.LoopAborts))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Flows.WithLabelValues("error")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.Runs.WithLabelValues("echo")))

	count, err := testutil.GatherAndCount(reg, "xflow_component_run_seconds")
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestMetricsNil(t *testing.T) {

	var m *Metrics
	m.cycle()
	m.flow("quiescent")
	m.ran("x", 0, nil)
	m.delivered(1)
	m.loopAbort()
}
