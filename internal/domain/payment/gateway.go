package payment

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ChargeRequest describes a payment to be collected for an order
type ChargeRequest struct {
	OrderNumber    string
	Amount         valueobject.Money
	PayerEmail     string
	Description    string
	IdempotencyKey string
}

// ChargeResult is the gateway's answer to a charge request
type ChargeResult struct {
	Reference string // gateway-side payment identifier
	Approved  bool
}

// Gateway collects payments through an external provider.
// Implementations must honor the context deadline.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
