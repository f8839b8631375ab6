package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type upsertCapture struct {
	path    string
	auth    string
	records []Record
}

func TestUpsertSplitsAtMaxBatch(t *testing.T) {
	t.Parallel()

	var captured []upsertCapture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var records []Record
		require.NoError(t, json.Unmarshal(body, &records))
		captured = append(captured, upsertCapture{
			path:    r.URL.Path,
			auth:    r.Header.Get("Authorization"),
			records: records,
		})
		fmt.Fprint(w, `{"result":"Success"}`)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{RestURL: srv.URL, Token: "write-token", MaxBatch: 1000})
	require.NoError(t, err)

	records := make([]Record, 2500)
	for i := range records {
		records[i] = Record{ID: fmt.Sprintf("id-%d", i), Vector: []float32{1}}
	}

	require.NoError(t, client.Upsert(context.Background(), "docs", records))
	require.Len(t, captured, 3)
	require.Equal(t, "/upsert/docs", captured[0].path)
	require.Equal(t, "Bearer write-token", captured[0].auth)
	require.Len(t, captured[0].records, 1000)
	require.Len(t, captured[1].records, 1000)
	require.Len(t, captured[2].records, 500)
}

func TestUpsertValidation(t *testing.T) {
	t.Parallel()

	client, err := New(Config{RestURL: "http://unused", Token: "t"})
	require.NoError(t, err)

	err = client.Upsert(context.Background(), "ns", []Record{{Vector: []float32{1}}})
	require.ErrorContains(t, err, "id is required")

	err = client.Upsert(context.Background(), "ns", []Record{{ID: "a"}})
	require.ErrorContains(t, err, "vector is required")

	sparse := []Record{{ID: "a", SparseVector: &SparseVector{Indices: []int32{1}, Values: []float32{0.5}}}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result":"Success"}`)
	}))
	t.Cleanup(srv.Close)
	client, err = New(Config{RestURL: srv.URL, Token: "t"})
	require.NoError(t, err)
	require.NoError(t, client.Upsert(context.Background(), "ns", sparse))
}

func TestUpsertStoreError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{RestURL: srv.URL, Token: "t"})
	require.NoError(t, err)

	err = client.Upsert(context.Background(), "ns", []Record{{ID: "a", Vector: []float32{1}}})
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, http.StatusTooManyRequests, storeErr.StatusCode)
	require.Equal(t, "quota exceeded", storeErr.Body)
}

func TestQueryUsesReadonlyToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query/docs", r.URL.Path)
		require.Equal(t, "Bearer read-token", r.Header.Get("Authorization"))

		var q Query
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		require.Equal(t, 5, q.TopK)
		require.True(t, q.IncludeMetadata)

		fmt.Fprint(w, `{"result":[{"id":"a","score":0.92,"metadata":{"url":"https://example.com"}}]}`)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{RestURL: srv.URL, Token: "write", ReadonlyToken: "read-token"})
	require.NoError(t, err)

	hits, err := client.Query(context.Background(), "docs", Query{Vector: []float32{1, 2}, TopK: 5, IncludeMetadata: true})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "a", hits[0].ID)
	require.InDelta(t, 0.92, hits[0].Score, 1e-9)
}

func TestQueryUnknownNamespaceIsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "namespace not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{RestURL: srv.URL, Token: "t"})
	require.NoError(t, err)

	hits, err := client.Query(context.Background(), "ghost", Query{Vector: []float32{1}, TopK: 3})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/delete/docs":
			http.Error(w, "not found", http.StatusNotFound)
		case "/namespaces/ghost":
			http.Error(w, "not found", http.StatusNotFound)
		default:
			http.Error(w, "unexpected", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{RestURL: srv.URL, Token: "t"})
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "docs", []string{"missing-id"}))
	require.NoError(t, client.DeleteNamespace(context.Background(), "ghost"))
}

func TestInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/info", r.URL.Path)
		fmt.Fprint(w, `{"result":{"vectorCount":42,"pendingVectorCount":1,"dimension":768}}`)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{RestURL: srv.URL, Token: "t"})
	require.NoError(t, err)

	info, err := client.Info(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), info.VectorCount)
	require.Equal(t, 768, info.Dimension)
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Token: "t"})
	require.Error(t, err)

	_, err = New(Config{RestURL: "http://x"})
	require.Error(t, err)
}
