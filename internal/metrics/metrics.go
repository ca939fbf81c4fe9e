package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	IngestRuns        prometheus.Counter
	IngestFailures    prometheus.Counter
	MessagesFetched   prometheus.Counter
	EmailsCreated     prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	DraftsGenerated   prometheus.Counter
	IngestDuration    prometheus.Histogram
	EmailsTotal       prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		IngestRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmuse_ingest_runs_total",
			Help: "Total number of ingestion runs",
		}),
		IngestFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmuse_ingest_failures_total",
			Help: "Total number of failed ingestion runs",
		}),
		MessagesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmuse_messages_fetched_total",
			Help: "Total number of raw messages fetched from the mail source",
		}),
		EmailsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmuse_emails_created_total",
			Help: "Total number of email rows created",
		}),
		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmuse_duplicates_skipped_total",
			Help: "Total number of messages skipped as already stored",
		}),
		DraftsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmuse_drafts_generated_total",
			Help: "Total number of social drafts generated",
		}),
		IngestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailmuse_ingest_duration_seconds",
			Help:    "Time spent per ingestion run",
			Buckets: prometheus.DefBuckets,
		}),
		EmailsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mailmuse_emails_total",
			Help: "Number of emails currently stored",
		}),
	}
}
