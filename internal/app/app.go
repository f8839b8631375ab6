// Package app initializes and holds the long-lived services of the
// application, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"time"

	gcsclient "cloud.google.com/go/storage"
	"golang.org/x/time/rate"

	pubsubclient "cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/api"
	"github.com/ibtikar-org-tr/rag-crawler/internal/config"
	"github.com/ibtikar-org-tr/rag-crawler/internal/crawler"
	"github.com/ibtikar-org-tr/rag-crawler/internal/database"
	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
	"github.com/ibtikar-org-tr/rag-crawler/internal/embedding"
	"github.com/ibtikar-org-tr/rag-crawler/internal/fetcher/headless"
	plainfetcher "github.com/ibtikar-org-tr/rag-crawler/internal/fetcher/plain"
	"github.com/ibtikar-org-tr/rag-crawler/internal/pipeline"
	"github.com/ibtikar-org-tr/rag-crawler/internal/publisher"
	pubmem "github.com/ibtikar-org-tr/rag-crawler/internal/publisher/memory"
	pubgcp "github.com/ibtikar-org-tr/rag-crawler/internal/publisher/pubsub"
	"github.com/ibtikar-org-tr/rag-crawler/internal/storage"
	storegcs "github.com/ibtikar-org-tr/rag-crawler/internal/storage/gcs"
	storelocal "github.com/ibtikar-org-tr/rag-crawler/internal/storage/local"
	storemem "github.com/ibtikar-org-tr/rag-crawler/internal/storage/memory"
	"github.com/ibtikar-org-tr/rag-crawler/internal/textproc"
	"github.com/ibtikar-org-tr/rag-crawler/internal/vectorstore"
)

// App holds the shared services: fetchers, embedder, vector client, sinks,
// and the pipelines built on top of them. It implements the api runner
// interfaces.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	plain    *plainfetcher.Fetcher
	embedder embedding.Embedder
	indexer  *pipeline.Indexer
	searcher *pipeline.Searcher

	sink   storage.Sink
	docs   *database.DocumentStore
	events publisher.Publisher

	pubsubStop func()
}

// New builds the service container from configuration, failing fast when a
// configured backend cannot be initialized.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
	}

	a.plain = plainfetcher.New(plainfetcher.Config{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})

	embedder, err := embedding.NewOllama(embedding.Config{
		Host:      cfg.Embedding.Host,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize embedder: %w", err)
	}
	a.embedder = embedder

	vector, err := vectorstore.New(vectorstore.Config{
		RestURL:       cfg.Vector.RestURL,
		Token:         cfg.Vector.Token,
		ReadonlyToken: cfg.Vector.ReadonlyToken,
		MaxBatch:      cfg.Vector.MaxBatch,
		Timeout:       time.Duration(cfg.Vector.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize vector store: %w", err)
	}

	chunkOpts := textproc.ChunkOptions{
		Size:             cfg.Chunking.Size,
		Overlap:          cfg.Chunking.Overlap,
		RespectSentences: cfg.Chunking.RespectSentences,
		OverlapDivisor:   cfg.Chunking.OverlapDivisor,
	}
	a.indexer = pipeline.NewIndexer(chunkOpts, embedder, vector, cfg.Vector.BatchSize, logger)
	a.searcher = pipeline.NewSearcher(embedder, vector, logger)

	if err := a.initSink(ctx); err != nil {
		return nil, err
	}
	if err := a.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := a.initPublisher(ctx); err != nil {
		return nil, err
	}

	logger.Info("application services initialized",
		zap.String("storage", cfg.Storage.Provider),
		zap.String("db", cfg.DB.Provider),
		zap.String("pubsub", cfg.PubSub.Provider),
	)
	return a, nil
}

func (a *App) initSink(ctx context.Context) error {
	switch a.cfg.Storage.Provider {
	case "local":
		sink, err := storelocal.New(a.cfg.Storage.LocalPath)
		if err != nil {
			return fmt.Errorf("initialize local storage: %w", err)
		}
		a.sink = sink
	case "gcs":
		client, err := gcsclient.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("initialize gcs client: %w", err)
		}
		sink, err := storegcs.New(client, storegcs.Config{
			Bucket: a.cfg.Storage.GCSBucket,
			Prefix: a.cfg.Storage.Prefix,
		})
		if err != nil {
			return fmt.Errorf("initialize gcs storage: %w", err)
		}
		a.sink = sink
	case "noop", "memory":
		a.sink = storemem.New()
	default:
		return fmt.Errorf("unknown storage provider: %s", a.cfg.Storage.Provider)
	}
	return nil
}

func (a *App) initDatabase(ctx context.Context) error {
	switch a.cfg.DB.Provider {
	case "postgres":
		store, err := database.New(ctx, database.Config{
			DSN:   a.cfg.DB.DSN,
			Table: a.cfg.DB.Table,
		})
		if err != nil {
			return fmt.Errorf("initialize document store: %w", err)
		}
		a.docs = store
	case "noop":
		a.docs = nil
	default:
		return fmt.Errorf("unknown db provider: %s", a.cfg.DB.Provider)
	}
	return nil
}

func (a *App) initPublisher(ctx context.Context) error {
	switch a.cfg.PubSub.Provider {
	case "pubsub":
		client, err := pubsubclient.NewClient(ctx, a.cfg.PubSub.ProjectID)
		if err != nil {
			return fmt.Errorf("initialize pubsub client: %w", err)
		}
		pub, err := pubgcp.New(client, a.cfg.PubSub.TopicName)
		if err != nil {
			return fmt.Errorf("initialize pubsub publisher: %w", err)
		}
		a.events = pub
		a.pubsubStop = pub.Stop
	case "noop":
		a.events = pubmem.New()
	default:
		return fmt.Errorf("unknown pubsub provider: %s", a.cfg.PubSub.Provider)
	}
	return nil
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Scrape runs the full crawl, clean, store, and index flow for one request.
func (a *App) Scrape(ctx context.Context, req api.ScrapeRequest) (api.ScrapeReport, error) {
	namespace := req.Namespace
	if namespace == "" {
		namespace = a.cfg.Vector.Namespace
	}

	var report api.ScrapeReport
	var rawDocs []document.RawDocument

	if req.Document != "" {
		rawDocs = []document.RawDocument{{
			URL:       "inline:" + uuid.NewString(),
			Title:     req.Title,
			Content:   req.Document,
			MediaType: "text/plain",
		}}
	} else {
		strategy, closeStrategy, err := a.buildStrategy(req.Strategy)
		if err != nil {
			return report, err
		}
		defer closeStrategy()

		target := crawler.Target{
			SeedURL:  req.URL,
			MaxDepth: valueOrDefault(req.MaxDepth, a.cfg.Crawler.MaxDepthDefault),
			MaxPages: valueOrDefault(req.MaxPages, a.cfg.Crawler.MaxPagesDefault),
		}
		limiter := rate.NewLimiter(rate.Every(a.cfg.CrawlDelay()), 1)
		engine := crawler.NewEngine(a.plain, strategy, a.plain, limiter, a.logger)

		docs, stats, err := engine.Crawl(ctx, target)
		if err != nil {
			return report, fmt.Errorf("crawl: %w", err)
		}
		report.Crawl = stats
		rawDocs = docs
	}

	cleaned := a.cleanAll(rawDocs)
	a.persist(ctx, cleaned)

	stats, err := a.indexer.Index(ctx, cleaned, namespace)
	report.Index = stats
	if err != nil {
		return report, fmt.Errorf("index: %w", err)
	}

	a.publishEvent(ctx, req.URL, namespace, report)
	return report, nil
}

// Search embeds the query and runs it against the vector store.
func (a *App) Search(ctx context.Context, query string, opts pipeline.SearchOptions) ([]pipeline.SearchResult, error) {
	if opts.Namespace == "" {
		opts.Namespace = a.cfg.Vector.Namespace
	}
	return a.searcher.Search(ctx, query, opts)
}

func (a *App) buildStrategy(name string) (crawler.Strategy, func(), error) {
	hcfg := headless.Config{
		UserAgent:         a.cfg.Crawler.UserAgent,
		NavigationTimeout: time.Duration(a.cfg.Headless.NavTimeoutSec) * time.Second,
		BodyTimeout:       time.Duration(a.cfg.Headless.BodyTimeoutSec) * time.Second,
		MaxScrolls:        a.cfg.Headless.MaxScrolls,
		ScrollPause:       time.Duration(a.cfg.Headless.ScrollPauseMs) * time.Millisecond,
	}

	if name == "" {
		name = a.cfg.Crawler.Backend
	}
	switch name {
	case "", "plain":
		return a.plain, func() {}, nil
	case "headless":
		f, err := headless.New(hcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize headless fetcher: %w", err)
		}
		return f, f.Close, nil
	case "headless-session":
		f, err := headless.NewWithSession(hcfg, a.cfg.Headless.CookieFile)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize session fetcher: %w", err)
		}
		return f, f.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown fetch strategy: %s", name)
	}
}

func (a *App) cleanAll(rawDocs []document.RawDocument) []document.CleanedDocument {
	cleaned := make([]document.CleanedDocument, 0, len(rawDocs))
	for _, raw := range rawDocs {
		doc, err := textproc.CleanDocument(raw, textproc.DefaultOptions())
		if err != nil {
			a.logger.Warn("cleaning failed, dropping document", zap.String("url", raw.URL), zap.Error(err))
			continue
		}
		cleaned = append(cleaned, doc)
	}
	return cleaned
}

// persist stores cleaned documents in the sink and metadata database.
// Both are best-effort: a storage failure never blocks indexing.
func (a *App) persist(ctx context.Context, docs []document.CleanedDocument) {
	if len(docs) == 0 {
		return
	}

	if err := a.sink.Store(ctx, docs); err != nil {
		a.logger.Error("document sink store failed", zap.Error(err))
	}

	if a.docs == nil {
		return
	}
	for _, doc := range docs {
		if err := a.docs.SaveDocument(ctx, doc); err != nil {
			a.logger.Error("document metadata save failed", zap.String("url", doc.URL), zap.Error(err))
		}
	}
}

func (a *App) publishEvent(ctx context.Context, seedURL, namespace string, report api.ScrapeReport) {
	payload := map[string]any{
		"seed_url":  seedURL,
		"namespace": namespace,
		"documents": report.Index.Documents,
		"vectors":   report.Index.Vectors,
		"failures":  len(report.Index.Failures),
	}
	if _, err := a.events.Publish(ctx, payload); err != nil {
		a.logger.Warn("completion event publish failed", zap.Error(err))
	}
}

// Close gracefully shuts down the container's services.
func (a *App) Close() {
	if a.docs != nil {
		a.docs.Close()
	}
	if a.pubsubStop != nil {
		a.pubsubStop()
	}
	_ = a.logger.Sync()
}

func valueOrDefault(ptr *int, def int) int {
	if ptr == nil || *ptr == 0 {
		return def
	}
	return *ptr
}
