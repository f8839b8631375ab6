// Package publisher pushes run-completion events so downstream consumers
// can react to freshly indexed content.
package publisher

import "context"

// Publisher delivers one event payload and returns a message id.
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}
