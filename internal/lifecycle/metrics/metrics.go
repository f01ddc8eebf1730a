package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the lifecycle engine.
type Metrics struct {
	TransitionsApplied *prometheus.CounterVec
	TransitionsDenied  *prometheus.CounterVec
}

// New creates and registers the lifecycle metrics.
func New() *Metrics {
	return &Metrics{
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docgate_transitions_applied_total",
			Help: "Successful document status transitions by target status.",
		}, []string{"to"}),
		TransitionsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docgate_transitions_denied_total",
			Help: "Denied document status transitions by error code.",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncApplied(to string) {
	if m == nil {
		return
	}
	m.TransitionsApplied.WithLabelValues(to).Inc()
}

func (m *Metrics) IncDenied(code string) {
	if m == nil {
		return
	}
	m.TransitionsDenied.WithLabelValues(code).Inc()
}
