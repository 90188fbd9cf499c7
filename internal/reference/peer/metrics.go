package peer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for peer calls.
type Metrics struct {
	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	BreakerState *prometheus.GaugeVec
}

// NewMetrics registers peer metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "refguard_peer_requests_total",
			Help: "Peer entity lookups by kind, operation and outcome",
		}, []string{"kind", "op", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "refguard_peer_request_duration_seconds",
			Help:    "Peer entity lookup latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "op"}),
		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "refguard_peer_circuit_breaker_state",
			Help: "Peer circuit breaker state (0=closed, 1=open)",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(kind, op, outcome string, seconds float64) {
	m.Requests.WithLabelValues(kind, op, outcome).Inc()
	m.Duration.WithLabelValues(kind, op).Observe(seconds)
}

func (m *Metrics) setBreakerState(kind string, open bool) {
	if open {
		m.BreakerState.WithLabelValues(kind).Set(1)
	} else {
		m.BreakerState.WithLabelValues(kind).Set(0)
	}
}
