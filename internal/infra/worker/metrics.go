package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsdesk/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the ingestion worker. It
// embeds the standard configuration metrics and adds counters for scheduled
// ingestion runs.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// IngestRunsTotal counts ingestion runs by status (success/failure).
	IngestRunsTotal *prometheus.CounterVec

	// IngestRunDurationSeconds measures the duration of ingestion runs.
	IngestRunDurationSeconds prometheus.Histogram

	// IngestArticlesTotal counts articles persisted across all runs.
	IngestArticlesTotal prometheus.Counter

	// IngestLastSuccessTimestamp is the Unix timestamp of the last
	// successful run.
	IngestLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics register with
// the default Prometheus registry on creation.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		IngestRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_ingest_runs_total",
			Help: "Total number of ingestion runs by status (success/failure)",
		}, []string{"status"}),

		IngestRunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_ingest_run_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		IngestArticlesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_ingest_articles_total",
			Help: "Total number of articles ingested across all runs",
		}),

		IngestLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_ingest_last_success_timestamp",
			Help: "Unix timestamp of the last successful ingestion run",
		}),
	}
}

// RecordRun increments the run counter for the given status, "success" or
// "failure".
func (m *WorkerMetrics) RecordRun(status string) {
	m.IngestRunsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration observes the duration of an ingestion run in seconds.
func (m *WorkerMetrics) RecordRunDuration(seconds float64) {
	m.IngestRunDurationSeconds.Observe(seconds)
}

// RecordArticlesIngested adds the number of articles persisted in a run.
func (m *WorkerMetrics) RecordArticlesIngested(count int) {
	m.IngestArticlesTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.IngestLastSuccessTimestamp.SetToCurrentTime()
}
