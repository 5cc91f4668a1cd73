package cart

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service manages session carts. Every read reconciles the stored cart
// against the current catalog so the storefront never shows lines for
// products that were removed, deactivated or ran out of stock.
type Service struct {
	store    cart.Store
	products catalog.ProductRepository
	ttl      time.Duration
	logger   *zap.Logger
}

// NewService creates a new cart service
func NewService(store cart.Store, products catalog.ProductRepository, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		ttl:      ttl,
		logger:   logger.Named("cart"),
	}
}

// Get returns the cart for a session, reconciled against the catalog
func (s *Service) Get(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, c)
}

// AddItem puts units of a variant into the cart, clamped to the stock
// currently available. The result reports how many units were added.
func (s *Service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*AddItemResult, error) {
	p, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, shared.ErrNotFound
	}

	v := p.FindVariant(req.Size, req.Color)
	if v == nil {
		return nil, shared.NewDomainError("VARIANT_NOT_FOUND", "This size and color combination does not exist")
	}

	// Key off the variant's stored size and color so request casing
	// never splits one variant across two lines.
	key, err := cart.NewItemKey(p.ID, v.Size, v.Color)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	added, err := c.Add(key, req.Quantity, v.Stock)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Debug("cart item added",
		zap.String("session_id", sessionID),
		zap.String("key", key.String()),
		zap.Int("requested", req.Quantity),
		zap.Int("added", added))

	view, err := s.reconcile(ctx, c)
	if err != nil {
		return nil, err
	}
	return &AddItemResult{Added: added, Cart: *view}, nil
}

// SetItemQuantity replaces a line's quantity, clamped to available
// stock. A quantity of zero removes the line.
func (s *Service) SetItemQuantity(ctx context.Context, sessionID, rawKey string, quantity int) (*View, error) {
	key, err := cart.ParseItemKey(rawKey)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity cannot be negative")
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.Quantity(key) == 0 && quantity > 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Item is not in the cart")
	}

	if quantity > 0 {
		available := 0
		if p, err := s.products.FindByID(ctx, key.ProductID); err == nil && p.Active {
			if v := p.FindVariant(key.Size, key.Color); v != nil {
				available = v.Stock
			}
		}
		if quantity > available {
			quantity = available
		}
	}

	c.SetQuantity(key.String(), quantity)
	if err := s.store.Save(ctx, c, s.ttl); err != nil {
		return nil, err
	}
	return s.reconcile(ctx, c)
}

// AdjustItem changes a line's quantity by a delta. Increments clamp to
// available stock; a decrement that reaches zero removes the line.
func (s *Service) AdjustItem(ctx context.Context, sessionID, rawKey string, delta int) (*View, error) {
	key, err := cart.ParseItemKey(rawKey)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	current := c.Quantity(key)
	if current == 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Item is not in the cart")
	}

	quantity := current + delta
	if quantity < 0 {
		quantity = 0
	}
	if quantity > 0 {
		available := 0
		if p, err := s.products.FindByID(ctx, key.ProductID); err == nil && p.Active {
			if v := p.FindVariant(key.Size, key.Color); v != nil {
				available = v.Stock
			}
		}
		if quantity > available {
			quantity = available
		}
	}

	c.SetQuantity(key.String(), quantity)
	if err := s.store.Save(ctx, c, s.ttl); err != nil {
		return nil, err
	}
	return s.reconcile(ctx, c)
}

// RemoveItem deletes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, sessionID, rawKey string) (*View, error) {
	key, err := cart.ParseItemKey(rawKey)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.Remove(key); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c, s.ttl); err != nil {
		return nil, err
	}
	return s.reconcile(ctx, c)
}

// Clear drops the whole cart for a session
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cart.New(sessionID)
	}
	return c, nil
}

// reconcile rebuilds the cart view from the current catalog, dropping
// lines whose product or variant disappeared and capping quantities at
// the stock on hand. Adjustments are persisted and surfaced as warnings.
func (s *Service) reconcile(ctx context.Context, c *cart.Cart) (*View, error) {
	keys := make([]string, 0, len(c.Items))
	for k := range c.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	productIDs := make([]uuid.UUID, 0, len(keys))
	seen := make(map[uuid.UUID]bool)
	parsed := make(map[string]cart.ItemKey, len(keys))
	for _, k := range keys {
		key, err := cart.ParseItemKey(k)
		if err != nil {
			// a corrupt key cannot be displayed, drop it silently
			c.SetQuantity(k, 0)
			continue
		}
		parsed[k] = key
		if !seen[key.ProductID] {
			seen[key.ProductID] = true
			productIDs = append(productIDs, key.ProductID)
		}
	}

	products := make(map[uuid.UUID]*catalog.Product)
	if len(productIDs) > 0 {
		found, err := s.products.FindByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		for i := range found {
			products[found[i].ID] = &found[i]
		}
	}

	view := &View{
		SessionID: c.SessionID,
		Lines:     make([]LineView, 0, len(keys)),
		Subtotal:  decimal.Zero,
	}
	changed := false

	for _, k := range keys {
		key, ok := parsed[k]
		if !ok {
			changed = true
			continue
		}
		qty := c.Items[k]

		p, ok := products[key.ProductID]
		if !ok || !p.Active {
			c.SetQuantity(k, 0)
			changed = true
			view.Warnings = append(view.Warnings, "An item was removed because it is no longer available")
			continue
		}
		v := p.FindVariant(key.Size, key.Color)
		if v == nil {
			c.SetQuantity(k, 0)
			changed = true
			view.Warnings = append(view.Warnings, fmt.Sprintf("%s (%s/%s) was removed because it is no longer available", p.Name, key.Size, key.Color))
			continue
		}
		if qty > v.Stock {
			qty = v.Stock
			c.SetQuantity(k, qty)
			changed = true
			if qty == 0 {
				view.Warnings = append(view.Warnings, fmt.Sprintf("%s (%s/%s) was removed because it is out of stock", p.Name, v.Size, v.Color))
				continue
			}
			view.Warnings = append(view.Warnings, fmt.Sprintf("%s (%s/%s) was reduced to %d units due to stock", p.Name, v.Size, v.Color, qty))
		}

		imageURL := ""
		if len(p.Images) > 0 {
			imageURL = p.Images[0].URL
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))

		view.Lines = append(view.Lines, LineView{
			Key:         k,
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductSlug: p.Slug,
			ImageURL:    imageURL,
			Size:        v.Size,
			Color:       v.Color,
			Quantity:    qty,
			Available:   v.Stock,
			UnitPrice:   p.Price,
			LineTotal:   lineTotal,
		})
		view.TotalUnits += qty
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}

	if changed {
		if err := s.store.Save(ctx, c, s.ttl); err != nil {
			return nil, err
		}
		s.logger.Info("cart reconciled",
			zap.String("session_id", c.SessionID),
			zap.Int("warnings", len(view.Warnings)))
	}

	return view, nil
}
