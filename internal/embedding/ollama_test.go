package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newOllamaStub(t *testing.T, vector []float32) (*httptest.Server, *int) {
	t.Helper()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":      "test-model",
			"embeddings": [][]float32{vector},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestEmbedDocument(t *testing.T) {
	t.Parallel()

	srv, calls := newOllamaStub(t, []float32{0.1, 0.2, 0.3, 0.4})
	e, err := NewOllama(Config{Host: srv.URL, Model: "test-model", Dimension: 4})
	require.NoError(t, err)

	vec, err := e.EmbedDocument(context.Background(), "some text")
	require.NoError(t, err)
	require.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, vec)
	require.Equal(t, 1, *calls)
}

func TestEmbedEmptyTextSkipsBackend(t *testing.T) {
	t.Parallel()

	srv, calls := newOllamaStub(t, []float32{0.1})
	e, err := NewOllama(Config{Host: srv.URL, Model: "test-model", Dimension: 3})
	require.NoError(t, err)

	vec, err := e.EmbedQuery(context.Background(), "   ")
	require.NoError(t, err)
	require.Equal(t, []float32{0, 0, 0}, vec)
	require.Equal(t, 0, *calls)
}

func TestEmbedDimensionMismatch(t *testing.T) {
	t.Parallel()

	srv, _ := newOllamaStub(t, []float32{0.1, 0.2})
	e, err := NewOllama(Config{Host: srv.URL, Model: "test-model", Dimension: 8})
	require.NoError(t, err)

	_, err = e.EmbedDocument(context.Background(), "text")
	require.Error(t, err)
}

func TestNewOllamaValidation(t *testing.T) {
	t.Parallel()

	_, err := NewOllama(Config{Host: "http://localhost:11434", Model: "", Dimension: 4})
	require.Error(t, err)

	_, err = NewOllama(Config{Host: "http://localhost:11434", Model: "m", Dimension: 0})
	require.Error(t, err)
}
