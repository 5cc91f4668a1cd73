package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	shared.Repository[Category]
	FindBySlug(ctx context.Context, slug string) (*Category, error)
}

// ProductRepository defines persistence operations for products.
// Implementations load products together with their variants and images.
type ProductRepository interface {
	shared.Repository[Product]
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindFeatured(ctx context.Context, limit int) ([]Product, error)
}
