package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

func TestStoreMergesAcrossRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "documents.json")
	sink, err := New(path)
	require.NoError(t, err)

	first := []document.CleanedDocument{{URL: "https://example.com/a", Content: "alpha"}}
	second := []document.CleanedDocument{{URL: "https://example.com/b", Content: "beta"}}

	require.NoError(t, sink.Store(context.Background(), first))
	require.NoError(t, sink.Store(context.Background(), second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var docs []document.CleanedDocument
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 2)
	require.Equal(t, "https://example.com/a", docs[0].URL)
	require.Equal(t, "https://example.com/b", docs[1].URL)
}

func TestStoreEmptyIsNoop(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "documents.json")
	sink, err := New(path)
	require.NoError(t, err)

	require.NoError(t, sink.Store(context.Background(), nil))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "documents.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))

	sink, err := New(path)
	require.NoError(t, err)

	err = sink.Store(context.Background(), []document.CleanedDocument{{URL: "https://example.com"}})
	require.Error(t, err)
}

func TestNewRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)
}
