// Package observability provides the zap logger constructor, Prometheus
// metrics and HTTP middleware for the ragqa services.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets covers remote model latencies from 50ms to 60s.
var LLMBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}

var (
	// IngestionsTotal counts ingestion attempts by outcome (ok, invalid, unsupported, embed_error, timeout).
	IngestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragqa_ingestions_total",
			Help: "Document ingestions",
		},
		[]string{"status"},
	)

	ChunksIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragqa_chunks_ingested_total",
			Help: "Chunks committed to the corpus",
		},
	)

	// CorpusChunks is the current number of retrievable chunks.
	CorpusChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ragqa_corpus_chunks",
			Help: "Chunks in the corpus",
		},
	)

	RetrievalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragqa_retrievals_total",
			Help: "Retrieval requests",
		},
		[]string{"status"},
	)

	// EmbeddingDuration records embedder latency by operation (document, query).
	EmbeddingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ragqa_embedding_duration_seconds",
			Help:    "Embedding call duration",
			Buckets: LLMBuckets,
		},
		[]string{"op"},
	)

	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ragqa_generation_duration_seconds",
			Help:    "Answer generation duration",
			Buckets: LLMBuckets,
		},
	)

	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragqa_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"route"},
	)

	// HTTPRequestsTotal counts served requests by method, route pattern and status class.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragqa_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ragqa_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		IngestionsTotal,
		ChunksIngestedTotal,
		CorpusChunks,
		RetrievalsTotal,
		EmbeddingDuration,
		GenerationDuration,
		RateLimitRejectedTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
