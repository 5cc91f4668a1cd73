package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest is the input for adding a variant to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required"`
	Color     string    `json:"color" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest is the input for changing a cart line's quantity.
// A quantity of zero removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// LineView is one cart line enriched with current catalog data
type LineView struct {
	Key         string          `json:"key"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug"`
	ImageURL    string          `json:"image_url,omitempty"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	Available   int             `json:"available"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// View is the full cart as returned to the storefront
type View struct {
	SessionID  string          `json:"session_id"`
	Lines      []LineView      `json:"lines"`
	TotalUnits int             `json:"total_units"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// AddItemResult reports how many units actually entered the cart.
// Added can be less than requested when stock runs short.
type AddItemResult struct {
	Added int  `json:"added"`
	Cart  View `json:"cart"`
}
