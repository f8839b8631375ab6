package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/vectorstore"
)

type fakeQuerier struct {
	hits      []vectorstore.ScoredRecord
	err       error
	namespace string
	query     vectorstore.Query
}

func (f *fakeQuerier) Query(_ context.Context, namespace string, q vectorstore.Query) ([]vectorstore.ScoredRecord, error) {
	f.namespace = namespace
	f.query = q
	return f.hits, f.err
}

func TestSearchFiltersByThreshold(t *testing.T) {
	t.Parallel()

	querier := &fakeQuerier{hits: []vectorstore.ScoredRecord{
		{ID: "a", Score: 0.91, Metadata: map[string]any{
			"url": "https://example.com/a", "title": "A", "text": "alpha", "chunk_index": float64(2),
		}},
		{ID: "b", Score: 0.62, Metadata: map[string]any{"url": "https://example.com/b"}},
	}}

	s := NewSearcher(&fakeEmbedder{dimension: 3}, querier, zap.NewNop())
	results, err := s.Search(context.Background(), "how to install", SearchOptions{
		Namespace:           "docs",
		TopK:                10,
		SimilarityThreshold: 0.7,
	})
	require.NoError(t, err)

	require.Equal(t, "docs", querier.namespace)
	require.Equal(t, 10, querier.query.TopK)
	require.True(t, querier.query.IncludeMetadata)
	require.Len(t, querier.query.Vector, 3)

	require.Len(t, results, 1)
	require.Equal(t, "a", results[0].ID)
	require.Equal(t, "https://example.com/a", results[0].URL)
	require.Equal(t, "A", results[0].Title)
	require.Equal(t, "alpha", results[0].Text)
	require.Equal(t, 2, results[0].ChunkIndex)
}

func TestSearchZeroThresholdKeepsAll(t *testing.T) {
	t.Parallel()

	querier := &fakeQuerier{hits: []vectorstore.ScoredRecord{
		{ID: "a", Score: 0.2},
		{ID: "b", Score: 0.1},
	}}

	s := NewSearcher(&fakeEmbedder{dimension: 2}, querier, zap.NewNop())
	results, err := s.Search(context.Background(), "q", SearchOptions{Namespace: "docs", TopK: 5})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSearchEmbedFailure(t *testing.T) {
	t.Parallel()

	s := NewSearcher(&fakeEmbedder{dimension: 2, failOn: "boom"}, &fakeQuerier{}, zap.NewNop())
	_, err := s.Search(context.Background(), "boom", SearchOptions{Namespace: "docs", TopK: 5})
	require.ErrorContains(t, err, "embed query")
}

func TestSearchQueryFailure(t *testing.T) {
	t.Parallel()

	querier := &fakeQuerier{err: fmt.Errorf("store down")}
	s := NewSearcher(&fakeEmbedder{dimension: 2}, querier, zap.NewNop())
	_, err := s.Search(context.Background(), "q", SearchOptions{Namespace: "docs", TopK: 5})
	require.ErrorContains(t, err, "vector query")
}
