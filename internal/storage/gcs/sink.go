// Package gcs provides a Sink backed by Google Cloud Storage, one object
// per run.
package gcs

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

// Config captures the parameters required to write to GCS.
type Config struct {
	Bucket string
	Prefix string
}

// Sink writes each run's documents as one JSON object under the prefix.
type Sink struct {
	client *storage.Client
	cfg    Config
}

// New creates a GCS-backed sink.
func New(client *storage.Client, cfg Config) (*Sink, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &Sink{client: client, cfg: cfg}, nil
}

// Store uploads docs as a dated JSON object. Object names carry a UUID so
// concurrent runs never clobber each other.
func (s *Sink) Store(ctx context.Context, docs []document.CleanedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}

	name := path.Join(
		s.cfg.Prefix,
		time.Now().UTC().Format("2006-01-02"),
		fmt.Sprintf("%s.json", uuid.NewString()),
	)

	writer := s.client.Bucket(s.cfg.Bucket).Object(name).NewWriter(ctx)
	writer.ContentType = "application/json"
	if _, err := writer.Write(data); err != nil {
		closeErr := writer.Close()
		if closeErr != nil {
			return fmt.Errorf("write object: %w (close writer: %v)", err, closeErr)
		}
		return fmt.Errorf("write object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}
