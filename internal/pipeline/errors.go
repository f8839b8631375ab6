package pipeline

import "fmt"

// ChunkError records one chunk that failed to embed and was skipped.
// Failures are reported alongside stats instead of aborting the document.
type ChunkError struct {
	URL        string `json:"url"`
	ChunkIndex int    `json:"chunk_index"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d of %s: %s", e.ChunkIndex, e.URL, e.Reason)
}

func (e *ChunkError) Unwrap() error { return e.Err }
