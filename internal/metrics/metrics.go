package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Decision outcomes recorded by dispatch_decisions_total.
const (
	OutcomeAssigned    = "assigned"
	OutcomeNoCandidate = "no_candidate"
	OutcomeConflict    = "conflict"
	OutcomeError       = "error"
)

// Dispatch groups the collectors describing the dispatcher.
type Dispatch struct {
	decisions  *prometheus.CounterVec
	selection  prometheus.Histogram
	queueDepth prometheus.Gauge
	retries    prometheus.Counter
}

// NewDispatch creates the dispatcher collectors and registers them on reg.
func NewDispatch(reg prometheus.Registerer) (*Dispatch, error) {
	m := &Dispatch{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_decisions_total",
			Help: "Total number of dispatch decisions by outcome",
		}, []string{"outcome"}),
		selection: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_selection_seconds",
			Help:    "Time spent selecting a drone for one order",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_queue_depth",
			Help: "Number of orders waiting for a drone",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_assign_retries_total",
			Help: "Total number of assignment retries after another dispatch claimed the drone",
		}),
	}
	for _, c := range []prometheus.Collector{m.decisions, m.selection, m.queueDepth, m.retries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Dispatch) Decision(outcome string) {
	m.decisions.WithLabelValues(outcome).Inc()
}

func (m *Dispatch) Selection(d time.Duration) {
	m.selection.Observe(d.Seconds())
}

func (m *Dispatch) QueueDepth(n int) {
	m.queueDepth.Set(float64(n))
}

func (m *Dispatch) Retry() {
	m.retries.Inc()
}
