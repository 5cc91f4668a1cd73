package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressRequest carries the shipping address fields of a checkout
type AddressRequest struct {
	Province       string `json:"province" binding:"required"`
	Locality       string `json:"locality" binding:"required"`
	Street         string `json:"street" binding:"required"`
	Number         string `json:"number" binding:"required"`
	BetweenStreets string `json:"between_streets"`
	Phone          string `json:"phone" binding:"required"`
}

// ToAddress builds the validated address value object
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	address, err := valueobject.NewAddress(r.Province, r.Locality, r.Street, r.Number, r.BetweenStreets, r.Phone)
	if err != nil {
		return valueobject.Address{}, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	return address, nil
}

// QuoteRequest is the input for quoting shipping to an address
type QuoteRequest struct {
	Address AddressRequest `json:"address" binding:"required"`
}

// QuoteResponse is a shipping quote for the storefront.
// When the carrier cannot be reached the cost is zero and a warning
// explains that shipping will be settled separately.
type QuoteResponse struct {
	Cost    decimal.Decimal `json:"cost"`
	Carrier string          `json:"carrier,omitempty"`
	Warning string          `json:"warning,omitempty"`
}

// PlaceOrderRequest is the input for converting a cart into an order
type PlaceOrderRequest struct {
	BuyerName     string         `json:"buyer_name" binding:"required"`
	BuyerDNI      string         `json:"buyer_dni" binding:"required"`
	BuyerEmail    string         `json:"buyer_email" binding:"required,email"`
	Address       AddressRequest `json:"address" binding:"required"`
	PaymentMethod string         `json:"payment_method" binding:"required"`
}

// OrderStatusLine is one line of a shopper's order
type OrderStatusLine struct {
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderStatusView is the shopper-facing view of a placed order. It
// carries what the buyer needs to track the order and nothing from the
// admin side.
type OrderStatusView struct {
	OrderID        uuid.UUID         `json:"order_id"`
	OrderNumber    string            `json:"order_number"`
	Status         string            `json:"status"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Lines          []OrderStatusLine `json:"lines"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	ShippingCost   decimal.Decimal   `json:"shipping_cost"`
	Total          decimal.Decimal   `json:"total"`
	CreatedAt      time.Time         `json:"created_at"`
}

// OrderConfirmation is returned to the shopper after checkout
type OrderConfirmation struct {
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	Status       string          `json:"status"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
	PaymentRef   string          `json:"payment_ref,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Warnings     []string        `json:"warnings,omitempty"`
}
