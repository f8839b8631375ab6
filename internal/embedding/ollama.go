package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Config locates the Ollama server and names the embedding model.
type Config struct {
	Host      string
	Model     string
	Dimension int
}

// OllamaEmbedder wraps the Ollama API for embedding generation.
type OllamaEmbedder struct {
	client    *api.Client
	model     string
	dimension int
}

// NewOllama creates an embedder connected to an Ollama server.
func NewOllama(cfg Config) (*OllamaEmbedder, error) {
	u, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be > 0, got %d", cfg.Dimension)
	}

	return &OllamaEmbedder{
		client:    api.NewClient(u, http.DefaultClient),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

// Dimension reports the fixed vector length this model produces.
func (e *OllamaEmbedder) Dimension() int { return e.dimension }

// EmbedQuery embeds search query text.
func (e *OllamaEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text)
}

// EmbedDocument embeds document chunk text.
func (e *OllamaEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text)
}

func (e *OllamaEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return ZeroVector(e.dimension), nil
	}

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama returned no embeddings")
	}

	vector := resp.Embeddings[0]
	if len(vector) != e.dimension {
		return nil, fmt.Errorf("ollama returned %d dimensions, expected %d", len(vector), e.dimension)
	}
	return vector, nil
}

// Available checks whether the Ollama server is reachable.
func (e *OllamaEmbedder) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := e.client.Version(ctx)
	return err == nil
}
