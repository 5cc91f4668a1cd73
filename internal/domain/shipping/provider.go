package shipping

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Quote is the result of asking a carrier for a shipping price
type Quote struct {
	Cost    valueobject.Money
	Carrier string
}

// Quoter asks an external carrier how much shipping to an address costs.
// Implementations must honor the context deadline; callers treat a failed
// quote as a degraded result, not a fatal error.
type Quoter interface {
	QuoteShipping(ctx context.Context, address valueobject.Address) (Quote, error)
}
