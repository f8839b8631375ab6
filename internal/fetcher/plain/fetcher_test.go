package plainfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>Hi</title></head><body>hello</body></html>"))
	})
	mux.HandleFunc("/file.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("late"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReturnsHTML(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	f := New(Config{UserAgent: "test-agent"})

	page, err := f.Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	require.Contains(t, page.HTML, "<title>Hi</title>")
	require.False(t, page.Partial)
}

func TestProbeReturnsContentType(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	f := New(Config{})

	mt, err := f.Probe(context.Background(), srv.URL+"/file.pdf")
	require.NoError(t, err)
	require.Equal(t, "application/pdf", mt)

	mt, err = f.Probe(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	require.Equal(t, "text/html; charset=utf-8", mt)
}

func TestDownloadReturnsBytes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	f := New(Config{})

	data, err := f.Download(context.Background(), srv.URL+"/file.pdf")
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestFetchErrorOnNotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	f := New(Config{})

	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
}

func TestFetchCanceledContext(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	f := New(Config{Timeout: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL+"/slow")
	require.Error(t, err)
}
