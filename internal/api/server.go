// Package api exposes the HTTP interface of the service: scrape-and-index
// on demand, and semantic search over what has been indexed.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/crawler"
	"github.com/ibtikar-org-tr/rag-crawler/internal/metrics"
	"github.com/ibtikar-org-tr/rag-crawler/internal/pipeline"
)

const (
	defaultTopK         = 10
	maxTopK             = 100
	defaultSimThreshold = 0.7
)

// ScrapeRequest submits either a seed URL to crawl or a raw document body
// to index directly. Exactly one of URL or Document must be set.
type ScrapeRequest struct {
	URL       string `json:"url"`
	Document  string `json:"document"`
	Title     string `json:"title"`
	MaxDepth  *int   `json:"max_depth"`
	MaxPages  *int   `json:"max_pages"`
	Namespace string `json:"namespace"`
	// Strategy selects the fetch path: "plain" (default), "headless", or
	// "headless-session".
	Strategy string `json:"strategy"`
}

// ScrapeReport is returned once a scrape-and-index run completes.
type ScrapeReport struct {
	Crawl crawler.Stats  `json:"crawl"`
	Index pipeline.Stats `json:"index"`
}

// ScrapeRunner executes a full crawl-and-index run.
type ScrapeRunner interface {
	Scrape(ctx context.Context, req ScrapeRequest) (ScrapeReport, error)
}

// SearchRunner answers retrieval queries.
type SearchRunner interface {
	Search(ctx context.Context, query string, opts pipeline.SearchOptions) ([]pipeline.SearchResult, error)
}

// Server wires HTTP handlers to the scrape and search runners.
type Server struct {
	router   chi.Router
	scraper  ScrapeRunner
	searcher SearchRunner
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(scraper ScrapeRunner, searcher SearchRunner, logger *zap.Logger) *Server {
	s := &Server{
		scraper:  scraper,
		searcher: searcher,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scrape", s.scrape)
		r.Get("/search", s.searchGet)
		r.Post("/search", s.searchPost)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.URL == "" && req.Document == "" {
		s.writeError(w, http.StatusBadRequest, "either url or document is required")
		return
	}
	if req.URL != "" && req.Document != "" {
		s.writeError(w, http.StatusBadRequest, "url and document are mutually exclusive")
		return
	}

	report, err := s.scraper.Scrape(r.Context(), req)
	if err != nil {
		s.logger.Error("scrape failed", zap.String("url", req.URL), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type searchRequest struct {
	Query               string   `json:"q"`
	TopK                *int     `json:"top_k"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	Namespace           string   `json:"namespace"`
}

func (s *Server) searchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := searchRequest{
		Query:     q.Get("q"),
		Namespace: q.Get("namespace"),
	}
	if raw := q.Get("top_k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "top_k must be an integer")
			return
		}
		req.TopK = &v
	}
	if raw := q.Get("similarity_threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "similarity_threshold must be a number")
			return
		}
		req.SimilarityThreshold = &v
	}
	s.search(w, r, req)
}

func (s *Server) searchPost(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	s.search(w, r, req)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, req searchRequest) {
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	topK := defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < 1 || topK > maxTopK {
		s.writeError(w, http.StatusBadRequest, "top_k must be between 1 and 100")
		return
	}

	threshold := defaultSimThreshold
	if req.SimilarityThreshold != nil {
		threshold = *req.SimilarityThreshold
	}
	if threshold < 0 || threshold > 1 {
		s.writeError(w, http.StatusBadRequest, "similarity_threshold must be between 0 and 1")
		return
	}

	results, err := s.searcher.Search(r.Context(), req.Query, pipeline.SearchOptions{
		Namespace:           req.Namespace,
		TopK:                topK,
		SimilarityThreshold: threshold,
	})
	if err != nil {
		s.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("panic", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
