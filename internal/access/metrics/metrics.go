package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the access gate.
type Metrics struct {
	// Decisions by route class, action, and reason
	Decisions *prometheus.CounterVec

	// Full gate latency including session resolution
	GateLatency prometheus.Histogram

	// Session resolution latency alone
	ResolveLatency prometheus.Histogram
}

// New creates a new Metrics instance with all access gate metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentgate_access_decisions_total",
			Help: "Total access gate decisions by route class, action, and reason",
		}, []string{"class", "action", "reason"}),

		GateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "talentgate_access_gate_duration_seconds",
			Help:    "Duration of the full access gate including session resolution",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "talentgate_access_session_resolve_duration_seconds",
			Help:    "Duration of session resolution against the session store",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementDecision records a gate decision.
func (m *Metrics) IncrementDecision(class, action, reason string) {
	if m != nil {
		m.Decisions.WithLabelValues(class, action, reason).Inc()
	}
}

// ObserveGateLatency records the total gate duration for a request.
func (m *Metrics) ObserveGateLatency(d time.Duration) {
	if m != nil {
		m.GateLatency.Observe(d.Seconds())
	}
}

// ObserveResolveLatency records one session store resolution.
func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}
