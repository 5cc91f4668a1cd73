package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateCategoryRequest is the input for creating a category
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// UpdateCategoryRequest is the input for renaming a category
type UpdateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCategoryResponse maps a category to its API representation
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateProductRequest is the input for creating a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Gender      string          `json:"gender" binding:"required"`
	Featured    bool            `json:"featured"`
}

// UpdateProductRequest is the input for updating a product
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Featured    *bool            `json:"featured"`
	Active      *bool            `json:"active"`
}

// AddVariantRequest is the input for adding a size/color combination
type AddVariantRequest struct {
	Size  string `json:"size" binding:"required"`
	Color string `json:"color" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

// SetVariantStockRequest is the input for restocking a variant
type SetVariantStockRequest struct {
	Size  string `json:"size" binding:"required"`
	Color string `json:"color" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

// AddImageRequest is the input for adding a gallery image
type AddImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ProductListFilter is the input for listing products
type ProductListFilter struct {
	Page            int
	PageSize        int
	Search          string
	CategorySlug    string
	Gender          string
	FeaturedOnly    bool
	IncludeInactive bool
}

// VariantResponse is the API representation of a variant
type VariantResponse struct {
	ID      uuid.UUID `json:"id"`
	Size    string    `json:"size"`
	Color   string    `json:"color"`
	Stock   int       `json:"stock"`
	InStock bool      `json:"in_stock"`
}

// ImageResponse is the API representation of a gallery image
type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	SortOrder int       `json:"sort_order"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	CategoryID  *uuid.UUID        `json:"category_id,omitempty"`
	Gender      string            `json:"gender"`
	Featured    bool              `json:"featured"`
	Active      bool              `json:"active"`
	TotalStock  int               `json:"total_stock"`
	InStock     bool              `json:"in_stock"`
	Images      []ImageResponse   `json:"images"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToStorefrontProductResponse maps a product for the public storefront.
// Variants that are out of stock are not offered to shoppers, so they
// are omitted; the admin panel keeps seeing them via ToProductResponse.
func ToStorefrontProductResponse(p *catalog.Product) ProductResponse {
	resp := ToProductResponse(p)
	inStock := make([]VariantResponse, 0, len(resp.Variants))
	for _, v := range resp.Variants {
		if v.InStock {
			inStock = append(inStock, v)
		}
	}
	resp.Variants = inStock
	return resp
}

// ToProductResponse maps a product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := make([]ImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageResponse{ID: img.ID, URL: img.URL, SortOrder: img.SortOrder})
	}
	variants := make([]VariantResponse, 0, len(p.Variants))
	for i := range p.Variants {
		v := &p.Variants[i]
		variants = append(variants, VariantResponse{
			ID:      v.ID,
			Size:    v.Size,
			Color:   v.Color,
			Stock:   v.Stock,
			InStock: v.InStock(),
		})
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Gender:      string(p.Gender),
		Featured:    p.Featured,
		Active:      p.Active,
		TotalStock:  p.TotalStock(),
		InStock:     p.InStock(),
		Images:      images,
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
