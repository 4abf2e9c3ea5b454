package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enrichment statuses.
const (
	StatusEnriched = "enriched"
	StatusFailed   = "failed"
)

var (
	EnrichmentProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdata_enrichment_processed_total",
		Help: "The total number of raw articles handled by the enrichment stage",
	}, []string{"status"})

	EnrichmentBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsdata_enrichment_backlog_size",
		Help: "Number of raw articles without an enriched record",
	})

	EnrichmentBatchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsdata_enrichment_batch_duration_seconds",
		Help:    "Duration in seconds to enrich one batch of raw articles",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	AggregateRowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdata_aggregate_rows_written_total",
		Help: "The total number of aggregate rows upserted per rollup",
	}, []string{"rollup"})

	AggregateDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsdata_aggregate_duration_seconds",
		Help:    "Duration of a single rollup computation and upsert",
		Buckets: prometheus.DefBuckets,
	}, []string{"rollup"})

	AggregateFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdata_aggregate_failures_total",
		Help: "The total number of failed rollups",
	}, []string{"rollup"})

	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdata_pipeline_runs_total",
		Help: "The total number of pipeline runs by outcome",
	}, []string{"status"})

	PipelineLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsdata_pipeline_last_success_timestamp_seconds",
		Help: "Unix time of the last pipeline run that finished without errors",
	})
)
