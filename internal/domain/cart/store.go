package cart

import (
	"context"
	"time"
)

// Store persists carts in a key-value store keyed by session ID.
// Load returns nil (no error) when the session has no cart yet.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
