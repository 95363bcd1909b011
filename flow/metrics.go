package flow // import "github.com/orkestr8/xflow/flow"

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Flows       *prometheus.CounterVec
	Cycles      prometheus.Counter
	Runs        *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Deliveries  prometheus.Counter
	LoopAborts  prometheus.Counter
	RunDuration *prometheus.HistogramVec
}

// NewMetrics registers the executor metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Flows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "xflow_flow_runs_total",
			Help: "Flow runs by outcome: quiescent, break or error",
		}, []string{"outcome"}),
		Cycles: f.NewCounter(prometheus.CounterOpts{
			Name: "xflow_cycles_total",
			Help: "Scheduler cycles executed",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "xflow_component_runs_total",
			Help: "Component runs by component name",
		}, []string{"component"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "xflow_component_failures_total",
			Help: "Component runs that returned an error or panicked",
		}, []string{"component"}),
		Deliveries: f.NewCounter(prometheus.CounterOpts{
			Name: "xflow_packages_delivered_total",
			Help: "Packages placed on input queues",
		}),
		LoopAborts: f.NewCounter(prometheus.CounterOpts{
			Name: "xflow_loop_aborts_total",
			Help: "Runs aborted by the feedback generation bound",
		}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xflow_component_run_seconds",
			Help:    "Latency of component runs",
			Buckets: prometheus.DefBuckets,
		}, []string{"component"}),
	}
}

// The methods below accept a nil receiver so the executor can call them
// unconditionally.

func (m *Metrics) flow(outcome string) {
	if m != nil {
		m.Flows.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) cycle() {
	if m != nil {
		m.Cycles.Inc()
	}
}

func (m *Metrics) ran(component string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(component).Inc()
	m.RunDuration.WithLabelValues(component).Observe(took.Seconds())
	if err != nil {
		m.Failures.WithLabelValues(component).Inc()
	}
}

func (m *Metrics) delivered(n int) {
	if m != nil {
		m.Deliveries.Add(float64(n))
	}
}

func (m *Metrics) loopAbort() {
	if m != nil {
		m.LoopAborts.Inc()
	}
}
