// Package observability holds the prometheus collectors for the pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRequestsTotal counts pipeline executions by tenant and outcome.
	// status is "completed" or the failing stage's error type.
	PipelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_pipeline_requests_total",
			Help: "Pipeline executions by tenant and outcome.",
		},
		[]string{"tenant", "status"},
	)

	// StageDuration observes per-stage latency.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rag_pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// RetrievalMatches observes how many documents each search returned.
	RetrievalMatches = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rag_retrieval_matches",
			Help:    "Number of matches returned per retrieval.",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
		[]string{"tenant"},
	)
)
