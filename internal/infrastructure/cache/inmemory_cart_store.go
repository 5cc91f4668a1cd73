package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
)

// InMemoryCartStore implements cart.Store with an in-process map.
// Suitable for single-instance deployments and tests; carts expire
// lazily on access.
type InMemoryCartStore struct {
	mu      sync.RWMutex
	entries map[string]inMemoryCartEntry
}

type inMemoryCartEntry struct {
	cart      cart.Cart
	expiresAt time.Time
}

// NewInMemoryCartStore creates a new in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		entries: make(map[string]inMemoryCartEntry),
	}
}

// Load fetches the cart for a session, nil when none exists or it expired
func (s *InMemoryCartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return nil, nil
	}

	// Copy so callers never mutate stored state directly
	c := entry.cart
	c.Items = make(map[string]int, len(entry.cart.Items))
	for k, v := range entry.cart.Items {
		c.Items[k] = v
	}
	return &c, nil
}

// Save stores the cart and refreshes its TTL
func (s *InMemoryCartStore) Save(ctx context.Context, c *cart.Cart, ttl time.Duration) error {
	stored := *c
	stored.Items = make(map[string]int, len(c.Items))
	for k, v := range c.Items {
		stored.Items[k] = v
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[c.SessionID] = inMemoryCartEntry{cart: stored, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// Delete removes the cart for a session
func (s *InMemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Ensure InMemoryCartStore implements cart.Store
var _ cart.Store = (*InMemoryCartStore)(nil)
