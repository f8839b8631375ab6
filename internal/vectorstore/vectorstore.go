// Package vectorstore is a client for an Upstash-style namespaced vector
// index exposed over REST.
package vectorstore

// Record is one (id, vector, metadata) tuple. Either Vector or SparseVector
// must be set; the id must be globally unique or the store silently
// overwrites the previous record.
type Record struct {
	ID           string         `json:"id"`
	Vector       []float32      `json:"vector,omitempty"`
	SparseVector *SparseVector  `json:"sparseVector,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// SparseVector is a sparse embedding in index/value form.
type SparseVector struct {
	Indices []int32   `json:"indices"`
	Values  []float32 `json:"values"`
}

// Query is a nearest-neighbor search request.
type Query struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Filter          string    `json:"filter,omitempty"`
}

// ScoredRecord is one query hit.
type ScoredRecord struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Info describes the index.
type Info struct {
	VectorCount        int64 `json:"vectorCount"`
	PendingVectorCount int64 `json:"pendingVectorCount"`
	Dimension          int   `json:"dimension"`
}
