// Package local provides a Sink backed by a single JSON file.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

// Sink appends documents to one JSON file, merging with whatever the file
// already holds so repeated runs accumulate.
type Sink struct {
	path string
}

// New creates a local sink writing to path. Parent directories are created
// on first store.
func New(path string) (*Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	return &Sink{path: path}, nil
}

// Store merges docs into the JSON file. The write goes through a temp file
// and rename so a crash never truncates previous runs.
func (s *Sink) Store(ctx context.Context, docs []document.CleanedDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	existing, err := s.load()
	if err != nil {
		return err
	}
	merged := append(existing, docs...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

func (s *Sink) load() ([]document.CleanedDocument, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	var docs []document.CleanedDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse storage file %s: %w", s.path, err)
	}
	return docs, nil
}
