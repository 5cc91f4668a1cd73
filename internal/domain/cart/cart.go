package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ItemKey identifies a cart line: one product variant (size and color)
type ItemKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// String encodes the key as "productID:size:color".
// Color is lowercased so the same variant never produces two lines.
func (k ItemKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.ProductID, k.Size, strings.ToLower(k.Color))
}

// NewItemKey builds a validated item key
func NewItemKey(productID uuid.UUID, size, color string) (ItemKey, error) {
	size = strings.TrimSpace(size)
	color = strings.TrimSpace(color)
	if productID == uuid.Nil {
		return ItemKey{}, shared.NewDomainError("INVALID_INPUT", "Product ID cannot be empty")
	}
	if size == "" || color == "" {
		return ItemKey{}, shared.NewDomainError("INVALID_INPUT", "Size and color are required")
	}
	if strings.Contains(size, ":") || strings.Contains(color, ":") {
		return ItemKey{}, shared.NewDomainError("INVALID_INPUT", "Size and color cannot contain ':'")
	}
	return ItemKey{ProductID: productID, Size: size, Color: color}, nil
}

// ParseItemKey decodes a "productID:size:color" string
func ParseItemKey(s string) (ItemKey, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return ItemKey{}, shared.NewDomainError("INVALID_INPUT", "Malformed cart item key")
	}
	productID, err := uuid.Parse(parts[0])
	if err != nil {
		return ItemKey{}, shared.NewDomainError("INVALID_INPUT", "Malformed cart item key")
	}
	return NewItemKey(productID, parts[1], parts[2])
}

// Cart holds the contents of one shopper session.
// It is persisted as a whole in a key-value store keyed by session ID.
type Cart struct {
	SessionID string         `json:"session_id"`
	Items     map[string]int `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// New creates an empty cart for a session
func New(sessionID string) (*Cart, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Session ID cannot be empty")
	}
	return &Cart{
		SessionID: sessionID,
		Items:     make(map[string]int),
		UpdatedAt: time.Now(),
	}, nil
}

// Add puts qty units of a variant into the cart, clamped so the line
// never exceeds the available stock. It returns how many units were
// actually added, which may be less than qty or zero.
func (c *Cart) Add(key ItemKey, qty, available int) (int, error) {
	if qty <= 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if available < 0 {
		available = 0
	}

	k := key.String()
	current := c.Items[k]
	room := available - current
	if room <= 0 {
		return 0, nil
	}

	added := qty
	if added > room {
		added = room
	}
	c.Items[k] = current + added
	c.UpdatedAt = time.Now()
	return added, nil
}

// SetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line. Used by reconciliation to cap lines at stock.
func (c *Cart) SetQuantity(key string, qty int) {
	if qty <= 0 {
		delete(c.Items, key)
	} else {
		c.Items[key] = qty
	}
	c.UpdatedAt = time.Now()
}

// Remove deletes a line from the cart
func (c *Cart) Remove(key ItemKey) error {
	k := key.String()
	if _, ok := c.Items[k]; !ok {
		return shared.NewDomainError("NOT_FOUND", "Item is not in the cart")
	}
	delete(c.Items, k)
	c.UpdatedAt = time.Now()
	return nil
}

// Quantity returns the quantity of a line, zero if absent
func (c *Cart) Quantity(key ItemKey) int {
	return c.Items[key.String()]
}

// Clear removes every line from the cart
func (c *Cart) Clear() {
	c.Items = make(map[string]int)
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalUnits returns the unit count summed across all lines
func (c *Cart) TotalUnits() int {
	total := 0
	for _, qty := range c.Items {
		total += qty
	}
	return total
}
