// Package storage persists cleaned documents outside the vector index so a
// crawl's output survives re-indexing.
package storage

import (
	"context"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

// Sink appends the cleaned documents of one run to durable storage.
type Sink interface {
	Store(ctx context.Context, docs []document.CleanedDocument) error
}
