// internal/app/system/cascade/metrics.go
package cascade

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records cascade outcomes. A nil *Metrics records nothing.
type Metrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	deleted  *prometheus.CounterVec
}

// NewMetrics creates and registers the cascade collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edutrack",
			Subsystem: "cascade",
			Name:      "runs_total",
			Help:      "Cascading deletes by root kind and outcome.",
		}, []string{"root", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "edutrack",
			Subsystem: "cascade",
			Name:      "duration_seconds",
			Help:      "Time spent in a cascading delete, including commit or abort.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"root"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edutrack",
			Subsystem: "cascade",
			Name:      "deleted_documents_total",
			Help:      "Documents removed by committed cascades, by collection.",
		}, []string{"collection"}),
	}
	reg.MustRegister(m.runs, m.duration, m.deleted)
	return m
}

func (m *Metrics) observe(root RootKind, outcome string, elapsed time.Duration, rep Report) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(root), outcome).Inc()
	m.duration.WithLabelValues(string(root)).Observe(elapsed.Seconds())
	for coll, n := range rep.Deleted {
		m.deleted.WithLabelValues(coll).Add(float64(n))
	}
}

// Deleted returns the deleted-documents counter for coll.
func (m *Metrics) Deleted(coll string) prometheus.Counter {
	return m.deleted.WithLabelValues(coll)
}
