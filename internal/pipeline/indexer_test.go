package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
	"github.com/ibtikar-org-tr/rag-crawler/internal/textproc"
	"github.com/ibtikar-org-tr/rag-crawler/internal/vectorstore"
)

type fakeEmbedder struct {
	dimension int
	failOn    string
	calls     int
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return f.EmbedDocument(ctx, text)
}

func (f *fakeEmbedder) EmbedDocument(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, fmt.Errorf("model unavailable")
	}
	return make([]float32, f.dimension), nil
}

func (f *fakeEmbedder) Dimension() int { return f.dimension }

type fakeWriter struct {
	batches [][]vectorstore.Record
	failAt  int // 1-based call index to fail on, 0 = never
}

func (f *fakeWriter) Upsert(_ context.Context, _ string, records []vectorstore.Record) error {
	if f.failAt > 0 && len(f.batches)+1 == f.failAt {
		return fmt.Errorf("store down")
	}
	f.batches = append(f.batches, append([]vectorstore.Record(nil), records...))
	return nil
}

func TestIndexBatchesSequentially(t *testing.T) {
	t.Parallel()

	// 250 chars at size 10 yield exactly 25 chunks.
	doc := document.CleanedDocument{
		URL:     "https://example.com/doc",
		Title:   "Doc",
		Content: strings.Repeat("abcdefghij", 25),
	}

	writer := &fakeWriter{}
	ix := NewIndexer(textproc.ChunkOptions{Size: 10}, &fakeEmbedder{dimension: 3}, writer, 10, zap.NewNop())

	stats, err := ix.Index(context.Background(), []document.CleanedDocument{doc}, "docs")
	require.NoError(t, err)

	require.Equal(t, 1, stats.Documents)
	require.Equal(t, 25, stats.Chunks)
	require.Equal(t, 25, stats.Vectors)
	require.Equal(t, 3, stats.Batches)
	require.Empty(t, stats.Failures)

	require.Len(t, writer.batches, 3)
	require.Len(t, writer.batches[0], 10)
	require.Len(t, writer.batches[1], 10)
	require.Len(t, writer.batches[2], 5)

	first := writer.batches[0][0]
	require.NotEmpty(t, first.ID)
	require.Len(t, first.Vector, 3)
	require.Equal(t, "https://example.com/doc", first.Metadata["url"])
	require.Equal(t, "Doc", first.Metadata["title"])
	require.Equal(t, 0, first.Metadata["chunk_index"])
}

func TestIndexRecordIDsAreUnique(t *testing.T) {
	t.Parallel()

	doc := document.CleanedDocument{URL: "https://example.com", Content: strings.Repeat("x", 50)}
	writer := &fakeWriter{}
	ix := NewIndexer(textproc.ChunkOptions{Size: 10}, &fakeEmbedder{dimension: 2}, writer, 10, zap.NewNop())

	_, err := ix.Index(context.Background(), []document.CleanedDocument{doc}, "docs")
	require.NoError(t, err)

	seen := map[string]struct{}{}
	for _, batch := range writer.batches {
		for _, r := range batch {
			_, dup := seen[r.ID]
			require.False(t, dup, "duplicate id %s", r.ID)
			seen[r.ID] = struct{}{}
		}
	}
	require.Len(t, seen, 5)
}

func TestIndexEmbedFailureSkipsChunk(t *testing.T) {
	t.Parallel()

	doc := document.CleanedDocument{
		URL:     "https://example.com/doc",
		Content: "good part one. FAIL part two. good part three.",
	}

	writer := &fakeWriter{}
	embedder := &fakeEmbedder{dimension: 2, failOn: "FAIL"}
	ix := NewIndexer(textproc.ChunkOptions{Size: 20, RespectSentences: true}, embedder, writer, 10, zap.NewNop())

	stats, err := ix.Index(context.Background(), []document.CleanedDocument{doc}, "docs")
	require.NoError(t, err)

	require.Equal(t, 3, stats.Chunks)
	require.Equal(t, 2, stats.Vectors)
	require.Len(t, stats.Failures, 1)
	require.Equal(t, "https://example.com/doc", stats.Failures[0].URL)
	require.Equal(t, 1, stats.Failures[0].ChunkIndex)
}

func TestIndexUpsertFailureAborts(t *testing.T) {
	t.Parallel()

	doc := document.CleanedDocument{URL: "https://example.com", Content: strings.Repeat("abcdefghij", 25)}
	writer := &fakeWriter{failAt: 2}
	ix := NewIndexer(textproc.ChunkOptions{Size: 10}, &fakeEmbedder{dimension: 2}, writer, 10, zap.NewNop())

	stats, err := ix.Index(context.Background(), []document.CleanedDocument{doc}, "docs")
	require.ErrorContains(t, err, "upsert batch 1")
	require.Equal(t, 1, stats.Batches)
	require.Equal(t, 10, stats.Vectors)
	require.Len(t, writer.batches, 1)
}

func TestIndexInvalidChunkOptionsFailFast(t *testing.T) {
	t.Parallel()

	doc := document.CleanedDocument{URL: "https://example.com", Content: "text"}
	ix := NewIndexer(textproc.ChunkOptions{Size: 10, Overlap: 10}, &fakeEmbedder{dimension: 2}, &fakeWriter{}, 10, zap.NewNop())

	_, err := ix.Index(context.Background(), []document.CleanedDocument{doc}, "docs")
	require.Error(t, err)
}
