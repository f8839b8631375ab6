package crawler

import "context"

// Prober resolves a URL's media type without downloading the body,
// typically via a HEAD request.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (string, error)
}

// Strategy retrieves a single HTML URL. Implementations differ in how the
// page is obtained: a plain GET, a headless render, or a headless render
// with a replayed session.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Downloader retrieves the raw bytes of a binary resource (PDF, DOCX).
type Downloader interface {
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Limiter paces outbound requests. Satisfied by *rate.Limiter.
type Limiter interface {
	Wait(ctx context.Context) error
}
