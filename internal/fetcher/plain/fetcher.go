// Package plainfetcher implements plain-HTTP fetching using gocolly.
// It backs the crawler's Prober, Strategy, and Downloader roles for pages
// that do not need JavaScript.
package plainfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/ibtikar-org-tr/rag-crawler/internal/crawler"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher wraps a base Colly collector cloned per request.
type Fetcher struct {
	cfg  Config
	base *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	return &Fetcher{cfg: cfg, base: c}
}

// Name identifies the strategy in logs.
func (f *Fetcher) Name() string { return "plain" }

// Fetch executes a single GET and returns the raw page HTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (crawler.Page, error) {
	body, err := f.get(ctx, rawURL)
	if err != nil {
		return crawler.Page{}, err
	}
	return crawler.Page{URL: rawURL, HTML: string(body)}, nil
}

// Download retrieves the raw bytes of a binary resource.
func (f *Fetcher) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return f.get(ctx, rawURL)
}

// Probe issues a HEAD request and returns the declared Content-Type.
func (f *Fetcher) Probe(ctx context.Context, rawURL string) (string, error) {
	collector := f.newCollector()

	var (
		contentType string
		fetchErr    error
	)
	collector.OnResponse(func(r *colly.Response) {
		contentType = r.Headers.Get("Content-Type")
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := runCollector(ctx, func() error { return collector.Head(rawURL) }, &fetchErr); err != nil {
		return "", err
	}
	return contentType, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	collector := f.newCollector()

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := runCollector(ctx, func() error { return collector.Visit(rawURL) }, &fetchErr); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) newCollector() *colly.Collector {
	collector := f.base.Clone()
	collector.IgnoreRobotsTxt = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	return collector
}

// runCollector bridges Colly's synchronous visit with context cancellation.
func runCollector(ctx context.Context, visit func() error, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- visit()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
