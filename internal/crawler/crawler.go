package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
	"github.com/ibtikar-org-tr/rag-crawler/internal/extract"
)

// Engine runs breadth-first crawls. Collaborators are injected so the same
// loop drives plain HTTP, headless, and session-backed strategies.
type Engine struct {
	prober     Prober
	strategy   Strategy
	downloader Downloader
	limiter    Limiter
	logger     *zap.Logger
}

// NewEngine creates a crawl engine.
func NewEngine(prober Prober, strategy Strategy, downloader Downloader, limiter Limiter, logger *zap.Logger) *Engine {
	return &Engine{
		prober:     prober,
		strategy:   strategy,
		downloader: downloader,
		limiter:    limiter,
		logger:     logger,
	}
}

type frontierItem struct {
	url   string
	depth int
}

// Crawl traverses the subtree rooted at target.SeedURL and returns one
// RawDocument per successfully fetched page or file. Per-URL failures are
// logged and skipped; the run only aborts on context cancellation or a
// malformed seed. Cancellation is checked between frontier pops, so the
// documents gathered so far are returned alongside the context error.
func (e *Engine) Crawl(ctx context.Context, target Target) ([]document.RawDocument, Stats, error) {
	seed, err := url.Parse(target.SeedURL)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parse seed url %q: %w", target.SeedURL, err)
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return nil, Stats{}, fmt.Errorf("seed url %q: scheme must be http or https", target.SeedURL)
	}

	normSeed, err := NormalizeURL(target.SeedURL)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("normalize seed url: %w", err)
	}

	visited := map[string]struct{}{normSeed: {}}
	frontier := []frontierItem{{url: target.SeedURL, depth: 0}}

	var docs []document.RawDocument
	var stats Stats

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return docs, stats, err
		}
		if target.MaxPages > 0 && stats.Documents >= target.MaxPages {
			e.logger.Info("page cap reached", zap.Int("max_pages", target.MaxPages))
			break
		}

		item := frontier[0]
		frontier = frontier[1:]
		stats.Visited++

		doc, links, err := e.visit(ctx, item.url)
		switch {
		case err == errUnsupportedMedia:
			stats.Skipped++
			TotalSkippedMedia.Inc()
			continue
		case err != nil:
			if ctx.Err() != nil {
				return docs, stats, ctx.Err()
			}
			e.logger.Warn("url failed, continuing crawl", zap.String("url", item.url), zap.Error(err))
			stats.Failures++
			TotalFetchErrors.Inc()
			continue
		}

		docs = append(docs, doc)
		stats.Documents++
		TotalDocuments.Inc()

		if item.depth >= target.MaxDepth {
			continue
		}
		for _, link := range links {
			if !InScope(link, seed) {
				continue
			}
			norm, err := NormalizeURL(link)
			if err != nil {
				continue
			}
			if _, seen := visited[norm]; seen {
				continue
			}
			visited[norm] = struct{}{}
			frontier = append(frontier, frontierItem{url: link, depth: item.depth + 1})
		}
	}

	e.logger.Info("crawl finished",
		zap.String("seed", target.SeedURL),
		zap.Int("visited", stats.Visited),
		zap.Int("documents", stats.Documents),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failures", stats.Failures),
	)
	return docs, stats, nil
}

var errUnsupportedMedia = fmt.Errorf("unsupported media type")

func (e *Engine) wait(ctx context.Context) error {
	start := time.Now()
	err := e.limiter.Wait(ctx)
	RateLimitWait.Observe(time.Since(start).Seconds())
	return err
}

// visit fetches one URL and returns its document plus any discovered links.
// Links are only produced for HTML pages.
func (e *Engine) visit(ctx context.Context, rawURL string) (document.RawDocument, []string, error) {
	fetchURL, isGoogleDoc := RewriteExportURL(rawURL)

	var mediaType string
	if isGoogleDoc {
		// The export endpoint always serves DOCX; probing it would cost a
		// request and can trip Docs rate limiting.
		mediaType = MediaTypeDOCX
	} else {
		if err := e.wait(ctx); err != nil {
			return document.RawDocument{}, nil, err
		}
		probed, err := e.prober.Probe(ctx, fetchURL)
		if err != nil {
			return document.RawDocument{}, nil, fmt.Errorf("probe: %w", err)
		}
		mediaType = canonicalMediaType(probed)
	}

	switch mediaType {
	case MediaTypeHTML:
		return e.visitHTML(ctx, rawURL, fetchURL)
	case MediaTypePDF, MediaTypeDOCX:
		doc, err := e.visitBinary(ctx, rawURL, fetchURL, mediaType)
		return doc, nil, err
	default:
		e.logger.Debug("skipping unsupported media type",
			zap.String("url", rawURL),
			zap.String("media_type", mediaType),
		)
		return document.RawDocument{}, nil, errUnsupportedMedia
	}
}

func (e *Engine) visitHTML(ctx context.Context, rawURL, fetchURL string) (document.RawDocument, []string, error) {
	if err := e.wait(ctx); err != nil {
		return document.RawDocument{}, nil, err
	}

	page, err := e.strategy.Fetch(ctx, fetchURL)
	if err != nil {
		return document.RawDocument{}, nil, fmt.Errorf("fetch (%s): %w", e.strategy.Name(), err)
	}
	if page.Partial {
		e.logger.Warn("render incomplete, extracting partial DOM", zap.String("url", rawURL))
	}

	body := []byte(page.HTML)
	text, err := extract.HTMLText(body)
	if err != nil {
		return document.RawDocument{}, nil, fmt.Errorf("extract html: %w", err)
	}

	title := page.Title
	if title == "" {
		title = extract.HTMLTitle(body)
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return document.RawDocument{}, nil, fmt.Errorf("parse page url: %w", err)
	}
	links, err := extract.HTMLLinks(body, base)
	if err != nil {
		links = nil
	}

	return document.RawDocument{
		URL:       rawURL,
		Title:     title,
		Content:   text,
		MediaType: MediaTypeHTML,
	}, links, nil
}

func (e *Engine) visitBinary(ctx context.Context, rawURL, fetchURL, mediaType string) (document.RawDocument, error) {
	if err := e.wait(ctx); err != nil {
		return document.RawDocument{}, err
	}

	data, err := e.downloader.Download(ctx, fetchURL)
	if err != nil {
		return document.RawDocument{}, fmt.Errorf("download: %w", err)
	}

	var text string
	if mediaType == MediaTypePDF {
		text = extract.PDFText(data)
	} else {
		text = extract.DOCXText(data)
	}

	return document.RawDocument{
		URL:       rawURL,
		Content:   text,
		MediaType: mediaType,
	}, nil
}

// canonicalMediaType strips parameters like charset and lowercases the type.
func canonicalMediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
