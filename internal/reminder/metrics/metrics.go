package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the reminder dispatch engine.
type Metrics struct {
	RemindersSent    prometheus.Counter
	RemindersFailed  *prometheus.CounterVec
	BatchDurationSec prometheus.Histogram
}

// New creates and registers the reminder metrics.
func New() *Metrics {
	return &Metrics{
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docgate_reminders_sent_total",
			Help: "Reminder notifications successfully handed to the transport.",
		}),
		RemindersFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docgate_reminders_failed_total",
			Help: "Per-document reminder failures by reason.",
		}, []string{"reason"}),
		BatchDurationSec: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "docgate_reminder_batch_duration_seconds",
			Help:    "Wall time of reminder dispatch batches.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) IncSent() {
	if m == nil {
		return
	}
	m.RemindersSent.Inc()
}

func (m *Metrics) IncFailed(reason string) {
	if m == nil {
		return
	}
	m.RemindersFailed.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.BatchDurationSec.Observe(d.Seconds())
}
