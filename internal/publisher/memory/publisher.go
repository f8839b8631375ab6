// Package memory provides an in-memory Publisher for tests and for runs
// with no event transport configured.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Publisher records published payloads in memory.
type Publisher struct {
	mu       sync.Mutex
	messages [][]byte
}

// New creates an empty in-memory publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish stores the JSON-encoded payload and returns a sequential id.
func (p *Publisher) Publish(ctx context.Context, payload any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, data)
	return fmt.Sprintf("mem-%d", len(p.messages)), nil
}

// Messages returns a copy of everything published so far.
func (p *Publisher) Messages() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.messages))
	for i, m := range p.messages {
		out[i] = append([]byte(nil), m...)
	}
	return out
}
