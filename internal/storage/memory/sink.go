// Package memory provides an in-memory Sink for tests.
package memory

import (
	"context"
	"sync"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

// Sink accumulates documents in memory.
type Sink struct {
	mu   sync.Mutex
	docs []document.CleanedDocument
}

// New creates an empty in-memory sink.
func New() *Sink {
	return &Sink{}
}

// Store appends docs.
func (s *Sink) Store(ctx context.Context, docs []document.CleanedDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, docs...)
	return nil
}

// Documents returns a copy of everything stored so far.
func (s *Sink) Documents() []document.CleanedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]document.CleanedDocument(nil), s.docs...)
}
