// Package document defines the data model shared across the crawl,
// cleaning, and indexing subsystems.
package document

// RawDocument is the unit produced by the crawler for every successfully
// fetched, non-skipped URL. It is immutable once emitted.
type RawDocument struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	MediaType string `json:"media_type"`
}

// CleanedDocument is a RawDocument after normalization and metadata
// extraction by the text cleaner.
type CleanedDocument struct {
	URL         string         `json:"url"`
	Title       string         `json:"title,omitempty"`
	Content     string         `json:"content"`
	ContentType string         `json:"content_type,omitempty"`
	Language    string         `json:"language,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ChunkDocument is one bounded-size slice of a cleaned document's text.
// ChunkIndex preserves original text order; TotalChunks is identical for
// every chunk sharing the same ParentURL.
type ChunkDocument struct {
	ParentURL   string         `json:"parent_url"`
	ChunkIndex  int            `json:"chunk_index"`
	TotalChunks int            `json:"total_chunks"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
