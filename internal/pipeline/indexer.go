// Package pipeline ties the chunker, the embedder, and the vector store
// together: cleaned documents in, upserted vector records out.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
	"github.com/ibtikar-org-tr/rag-crawler/internal/embedding"
	"github.com/ibtikar-org-tr/rag-crawler/internal/textproc"
	"github.com/ibtikar-org-tr/rag-crawler/internal/vectorstore"
)

const defaultBatchSize = 10

// VectorWriter upserts records into a namespace. Satisfied by
// *vectorstore.Client.
type VectorWriter interface {
	Upsert(ctx context.Context, namespace string, records []vectorstore.Record) error
}

// Stats summarizes one indexing run. Failures lists the chunks skipped
// because embedding failed.
type Stats struct {
	Documents int          `json:"documents"`
	Chunks    int          `json:"chunks"`
	Vectors   int          `json:"vectors"`
	Batches   int          `json:"batches"`
	Failures  []ChunkError `json:"failures,omitempty"`
}

// Indexer drives chunk -> embed -> upsert for cleaned documents.
type Indexer struct {
	chunkOpts textproc.ChunkOptions
	embedder  embedding.Embedder
	writer    VectorWriter
	batchSize int
	logger    *zap.Logger
}

// NewIndexer creates an indexing pipeline. batchSize <= 0 selects the
// default of 10 records per upsert.
func NewIndexer(chunkOpts textproc.ChunkOptions, embedder embedding.Embedder, writer VectorWriter, batchSize int, logger *zap.Logger) *Indexer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Indexer{
		chunkOpts: chunkOpts,
		embedder:  embedder,
		writer:    writer,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Index chunks and embeds the documents, then upserts the resulting records
// sequentially in batches. A chunk whose embedding fails is recorded in
// Stats.Failures and skipped; a failed upsert aborts the remaining batches
// and propagates, with the stats so far.
func (ix *Indexer) Index(ctx context.Context, docs []document.CleanedDocument, namespace string) (Stats, error) {
	var stats Stats
	var records []vectorstore.Record

	for _, doc := range docs {
		chunks, err := textproc.ChunkDocument(doc, ix.chunkOpts)
		if err != nil {
			return stats, err
		}
		stats.Documents++
		TotalDocumentsIndexed.Inc()

		for _, chunk := range chunks {
			stats.Chunks++

			vector, err := ix.embedder.EmbedDocument(ctx, chunk.Content)
			if err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				chunkErr := ChunkError{
					URL:        chunk.ParentURL,
					ChunkIndex: chunk.ChunkIndex,
					Reason:     err.Error(),
					Err:        err,
				}
				stats.Failures = append(stats.Failures, chunkErr)
				TotalEmbedFailures.Inc()
				ix.logger.Warn("embedding failed, skipping chunk",
					zap.String("url", chunk.ParentURL),
					zap.Int("chunk_index", chunk.ChunkIndex),
					zap.Error(err),
				)
				continue
			}

			TotalChunksEmbedded.Inc()
			records = append(records, vectorstore.Record{
				ID:     uuid.NewString(),
				Vector: vector,
				Metadata: map[string]any{
					"url":         chunk.ParentURL,
					"title":       doc.Title,
					"chunk_index": chunk.ChunkIndex,
					"text":        chunk.Content,
				},
			})
		}
	}

	for start := 0; start < len(records); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := ix.writer.Upsert(ctx, namespace, records[start:end]); err != nil {
			return stats, fmt.Errorf("upsert batch %d: %w", stats.Batches, err)
		}
		stats.Batches++
		stats.Vectors += end - start
		TotalUpsertBatches.Inc()
	}

	ix.logger.Info("indexing finished",
		zap.String("namespace", namespace),
		zap.Int("documents", stats.Documents),
		zap.Int("chunks", stats.Chunks),
		zap.Int("vectors", stats.Vectors),
		zap.Int("batches", stats.Batches),
		zap.Int("failed_chunks", len(stats.Failures)),
	)
	return stats, nil
}
