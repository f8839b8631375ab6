// Package headless fetches pages through a real browser so that
// JavaScript-rendered content is visible to extraction. It also handles
// replaying a previously captured session for gated sources.
package headless

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/ibtikar-org-tr/rag-crawler/internal/crawler"
)

// Config controls the behavior of the headless fetcher.
type Config struct {
	UserAgent         string
	NavigationTimeout time.Duration
	// BodyTimeout bounds the wait for the document body. Expiry degrades
	// to extracting whatever DOM is present, it does not fail the fetch.
	BodyTimeout time.Duration
	// MaxScrolls is the number of scroll-to-bottom passes used to trigger
	// lazy-loaded content.
	MaxScrolls  int
	ScrollPause time.Duration
}

// Fetcher implements crawler.Strategy using chromedp. One browser process
// is shared across the run; each Fetch opens and closes its own tab.
type Fetcher struct {
	cfg         Config
	cookies     []Cookie
	allocator   context.Context
	allocCancel context.CancelFunc
}

// New creates a headless fetcher backed by chromedp.
func New(cfg Config) (*Fetcher, error) {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 20 * time.Second
	}
	if cfg.BodyTimeout <= 0 {
		cfg.BodyTimeout = 10 * time.Second
	}
	if cfg.ScrollPause <= 0 {
		cfg.ScrollPause = 500 * time.Millisecond
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Fetcher{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// NewWithSession creates a headless fetcher that replays cookies captured
// by a previous interactive session before every navigation.
func NewWithSession(cfg Config, cookieFile string) (*Fetcher, error) {
	cookies, err := LoadCookies(cookieFile)
	if err != nil {
		return nil, fmt.Errorf("load session cookies: %w", err)
	}
	f, err := New(cfg)
	if err != nil {
		return nil, err
	}
	f.cookies = cookies
	return f, nil
}

// Close shuts down the shared browser process.
func (f *Fetcher) Close() {
	f.allocCancel()
}

// Name identifies the strategy in logs.
func (f *Fetcher) Name() string {
	if len(f.cookies) > 0 {
		return "headless-session"
	}
	return "headless"
}

// Fetch renders one URL in a fresh tab and returns the resulting DOM.
// A body-ready timeout marks the page Partial instead of failing it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (crawler.Page, error) {
	taskCtx, taskCancel := chromedp.NewContext(f.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, f.cfg.NavigationTimeout)
	defer cancel()

	// Propagate caller cancellation into the tab context.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		html    string
		title   string
		partial bool
	)

	actions := []chromedp.Action{
		f.setupAction(),
		chromedp.Navigate(rawURL),
		f.waitBodyAction(&partial),
	}
	for i := 0; i < f.cfg.MaxScrolls; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(f.cfg.ScrollPause),
		)
	}
	actions = append(actions,
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return crawler.Page{}, fmt.Errorf("chromedp run: %w", err)
	}

	return crawler.Page{
		URL:     rawURL,
		HTML:    html,
		Title:   title,
		Partial: partial,
	}, nil
}

func (f *Fetcher) setupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if f.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(f.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		if len(f.cookies) > 0 {
			if err := setCookies(ctx, f.cookies); err != nil {
				return fmt.Errorf("replay session cookies: %w", err)
			}
		}
		return nil
	})
}

// waitBodyAction waits for the body element with its own deadline. When the
// deadline fires the page is marked partial and rendering continues with
// whatever the tab has loaded so far.
func (f *Fetcher) waitBodyAction(partial *bool) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, f.cfg.BodyTimeout)
		defer cancel()

		err := chromedp.WaitReady("body", chromedp.ByQuery).Do(waitCtx)
		if err == nil {
			return nil
		}
		if waitCtx.Err() != nil && ctx.Err() == nil {
			*partial = true
			return nil
		}
		return err
	})
}
