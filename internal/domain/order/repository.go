package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID with its lines and audit log
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its public order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll lists orders with filtering. Filter supports a "status" entry
	// and free-text search over buyer name, DNI, tracking number and locality.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an order together with its lines and audit log
	Save(ctx context.Context, o *Order) error

	// UpdateStatus persists a status change guarded by the status the order
	// had when it was loaded. Returns shared.ErrConcurrencyConflict when the
	// stored status no longer matches previous.
	UpdateStatus(ctx context.Context, o *Order, previous Status) error

	// Fulfill persists a transition into FULFILLED and decrements the stock
	// of every variant the order's lines reference, all in one transaction.
	// The status update is guarded like UpdateStatus, so two concurrent
	// fulfillments decrement stock exactly once. Stock never goes below
	// zero and lines whose variant no longer exists are skipped.
	Fulfill(ctx context.Context, o *Order, previous Status) error

	// GenerateOrderNumber generates a unique public order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
