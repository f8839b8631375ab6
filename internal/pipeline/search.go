package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/embedding"
	"github.com/ibtikar-org-tr/rag-crawler/internal/vectorstore"
)

// VectorQuerier answers nearest-neighbor searches. Satisfied by
// *vectorstore.Client.
type VectorQuerier interface {
	Query(ctx context.Context, namespace string, q vectorstore.Query) ([]vectorstore.ScoredRecord, error)
}

// SearchOptions controls one search call.
type SearchOptions struct {
	Namespace string
	TopK      int
	// SimilarityThreshold drops hits scoring below it. Zero keeps all.
	SimilarityThreshold float64
}

// SearchResult is one hit with its source metadata unpacked.
type SearchResult struct {
	ID         string         `json:"id"`
	Score      float64        `json:"score"`
	URL        string         `json:"url,omitempty"`
	Title      string         `json:"title,omitempty"`
	Text       string         `json:"text,omitempty"`
	ChunkIndex int            `json:"chunk_index"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Searcher embeds a query and runs it against the vector store.
type Searcher struct {
	embedder embedding.Embedder
	querier  VectorQuerier
	logger   *zap.Logger
}

// NewSearcher creates a search pipeline.
func NewSearcher(embedder embedding.Embedder, querier VectorQuerier, logger *zap.Logger) *Searcher {
	return &Searcher{
		embedder: embedder,
		querier:  querier,
		logger:   logger,
	}
}

// Search embeds the query text, asks the store for the topK nearest
// records, and drops those under the similarity threshold.
func (s *Searcher) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.querier.Query(ctx, opts.Namespace, vectorstore.Query{
		Vector:          vector,
		TopK:            opts.TopK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < opts.SimilarityThreshold {
			continue
		}
		results = append(results, fromScoredRecord(hit))
	}

	s.logger.Debug("search finished",
		zap.String("namespace", opts.Namespace),
		zap.Int("hits", len(hits)),
		zap.Int("above_threshold", len(results)),
	)
	return results, nil
}

func fromScoredRecord(hit vectorstore.ScoredRecord) SearchResult {
	result := SearchResult{
		ID:       hit.ID,
		Score:    hit.Score,
		Metadata: hit.Metadata,
	}
	if v, ok := hit.Metadata["url"].(string); ok {
		result.URL = v
	}
	if v, ok := hit.Metadata["title"].(string); ok {
		result.Title = v
	}
	if v, ok := hit.Metadata["text"].(string); ok {
		result.Text = v
	}
	// JSON numbers decode as float64.
	if v, ok := hit.Metadata["chunk_index"].(float64); ok {
		result.ChunkIndex = int(v)
	}
	return result
}
