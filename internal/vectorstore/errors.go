package vectorstore

import "fmt"

// StoreError carries the HTTP status and response body of a failed store
// call so callers can distinguish client mistakes from store outages.
type StoreError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("vector store %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}
