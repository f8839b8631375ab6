// Package crawler implements breadth-first site traversal: a FIFO frontier,
// a per-run visited set, media-type dispatch, and scope enforcement.
package crawler

// Media types the dispatcher understands. Anything else is skipped.
const (
	MediaTypeHTML = "text/html"
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Target describes a single crawl invocation. The seed URL doubles as the
// scope prefix: discovered links outside it are never enqueued.
type Target struct {
	SeedURL  string `json:"seed_url"`
	MaxDepth int    `json:"max_depth"`
	// MaxPages caps emitted documents. Zero means unbounded.
	MaxPages int `json:"max_pages"`
}

// Page is the outcome of fetching one HTML URL through a Strategy.
type Page struct {
	URL   string
	HTML  string
	Title string
	// Partial marks a render that timed out before the document was ready;
	// the DOM captured so far is still usable.
	Partial bool
}

// Stats summarizes one crawl run.
type Stats struct {
	Visited   int `json:"visited"`
	Documents int `json:"documents"`
	Skipped   int `json:"skipped"`
	Failures  int `json:"failures"`
}
