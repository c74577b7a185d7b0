package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch statuses used as the status label.
const (
	StatusCommitted  = "committed"
	StatusRolledBack = "rolled_back"
	StatusRejected   = "rejected"
)

// Row outcomes used as the outcome label.
const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeFailed   = "failed"
)

// Metrics provides observability for driver imports.
type Metrics struct {
	// Batches by final status
	Batches *prometheus.CounterVec

	// Rows by outcome, counted for committed batches only
	Rows *prometheus.CounterVec

	BatchDuration prometheus.Histogram

	// Imports currently holding a limiter slot
	ActiveImports prometheus.Gauge
}

// New creates the import metrics and registers them with reg. A nil reg
// leaves the collectors unregistered, which tests rely on.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_import_batches_total",
			Help: "Total driver import batches by final status",
		}, []string{"status"}),

		Rows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_import_rows_total",
			Help: "Total imported rows of committed batches by outcome",
		}, []string{"outcome"}),

		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_import_batch_duration_seconds",
			Help:    "Duration of driver import batches from begin to commit or rollback",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		ActiveImports: factory.NewGauge(prometheus.GaugeOpts{
			Name: "roster_import_active",
			Help: "Number of imports currently running",
		}),
	}
}

// ObserveBatch records a finished batch.
func (m *Metrics) ObserveBatch(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Batches.WithLabelValues(status).Inc()
	if status != StatusRejected {
		m.BatchDuration.Observe(d.Seconds())
	}
}

// AddRows adds n rows with the given outcome.
func (m *Metrics) AddRows(outcome string, n int) {
	if m != nil && n > 0 {
		m.Rows.WithLabelValues(outcome).Add(float64(n))
	}
}

// SetActiveImports reports the number of running imports.
func (m *Metrics) SetActiveImports(n int) {
	if m != nil {
		m.ActiveImports.Set(float64(n))
	}
}
