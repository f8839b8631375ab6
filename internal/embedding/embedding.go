// Package embedding turns text into fixed-length vectors via an external
// model server.
package embedding

import "context"

// Embedder produces fixed-length vectors for queries and documents.
// Implementations must return vectors of exactly Dimension entries, and
// must map empty input to an all-zero vector without calling the backend.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// ZeroVector returns the embedding of empty text.
func ZeroVector(dimension int) []float32 {
	return make([]float32, dimension)
}
