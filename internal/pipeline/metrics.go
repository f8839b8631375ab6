package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalDocumentsIndexed tracks cleaned documents run through Index.
	TotalDocumentsIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_documents_indexed_total",
		Help: "The total number of documents processed by the indexing pipeline.",
	})
	// TotalChunksEmbedded tracks chunks that produced a vector.
	TotalChunksEmbedded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_chunks_embedded_total",
		Help: "The total number of chunks successfully embedded.",
	})
	// TotalEmbedFailures tracks chunks skipped because embedding failed.
	TotalEmbedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_embed_failures_total",
		Help: "The total number of chunks skipped due to embedding failures.",
	})
	// TotalUpsertBatches tracks upsert requests sent to the vector store.
	TotalUpsertBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_upsert_batches_total",
		Help: "The total number of vector upsert batches issued.",
	})
)
