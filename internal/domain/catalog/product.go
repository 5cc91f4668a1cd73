package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Gender indicates which audience a product is aimed at
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

// IsValid returns true if the gender is a known value
func (g Gender) IsValid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex:
		return true
	}
	return false
}

// MaxGalleryImages is the maximum number of gallery images per product
const MaxGalleryImages = 5

// Product represents a sellable item in the catalog
// It is the aggregate root for product, variant and image operations
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Slug        string          `gorm:"type:varchar(220);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Gender      Gender          `gorm:"type:varchar(10);not null;default:'unisex'"`
	Featured    bool            `gorm:"not null;default:false;index"`
	Active      bool            `gorm:"not null;default:true;index"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants    []Variant       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductImage is a gallery image belonging to a product
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:varchar(500);not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// Variant is a size/color combination of a product with its own stock
type Variant struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_variant_combo,priority:1"`
	Size      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_variant_combo,priority:2"`
	Color     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_variant_combo,priority:3"`
	Stock     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// InStock returns true if the variant has units available
func (v *Variant) InStock() bool {
	return v.Stock > 0
}

// Matches reports whether the variant matches the given size and color.
// Color comparison is case-insensitive, size is exact.
func (v *Variant) Matches(size, color string) bool {
	return v.Size == size && strings.EqualFold(v.Color, color)
}

// NewProduct creates a new product
func NewProduct(name, description string, price valueobject.Money, gender Gender) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if !gender.IsValid() {
		return nil, shared.NewDomainError("INVALID_GENDER", "Gender must be men, women or unisex")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Slug:              Slugify(name),
		Description:       description,
		Price:             price.Amount(),
		Gender:            gender,
		Active:            true,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Slug = Slugify(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice updates the selling price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetFeatured marks or unmarks the product as featured on the home page
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the product visible in the storefront
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AddImage appends a gallery image, enforcing the gallery limit
func (p *Product) AddImage(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Image URL cannot be empty")
	}
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE", "Image URL cannot exceed 500 characters")
	}
	if len(p.Images) >= MaxGalleryImages {
		return shared.NewDomainError("GALLERY_FULL", "A product cannot have more than 5 gallery images")
	}

	p.Images = append(p.Images, ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		URL:        url,
		SortOrder:  len(p.Images),
	})
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveImage removes a gallery image by its ID
func (p *Product) RemoveImage(imageID uuid.UUID) error {
	for i, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			for j := range p.Images {
				p.Images[j].SortOrder = j
			}
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("IMAGE_NOT_FOUND", "Image does not belong to this product")
}

// AddVariant adds a size/color combination with initial stock.
// The combination must be unique within the product (color case-insensitive).
func (p *Product) AddVariant(size, color string, stock int) (*Variant, error) {
	size = strings.TrimSpace(size)
	color = strings.TrimSpace(color)
	if size == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Size cannot be empty")
	}
	if color == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Color cannot be empty")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Stock cannot be negative")
	}
	if p.FindVariant(size, color) != nil {
		return nil, shared.NewDomainError("DUPLICATE_VARIANT", "This size and color combination already exists")
	}

	p.Variants = append(p.Variants, Variant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Size:       size,
		Color:      color,
		Stock:      stock,
	})
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return &p.Variants[len(p.Variants)-1], nil
}

// FindVariant looks up a variant by size and color.
// Returns nil when no variant matches.
func (p *Product) FindVariant(size, color string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Matches(size, color) {
			return &p.Variants[i]
		}
	}
	return nil
}

// SetVariantStock replaces the stock count of an existing variant
func (p *Product) SetVariantStock(size, color string, stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_VARIANT", "Stock cannot be negative")
	}
	v := p.FindVariant(size, color)
	if v == nil {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "This size and color combination does not exist")
	}

	v.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// TotalStock returns the stock summed across all variants
func (p *Product) TotalStock() int {
	total := 0
	for i := range p.Variants {
		total += p.Variants[i].Stock
	}
	return total
}

// InStock returns true if any variant has units available
func (p *Product) InStock() bool {
	for i := range p.Variants {
		if p.Variants[i].InStock() {
			return true
		}
	}
	return false
}

// PriceMoney returns the price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyARS(p.Price)
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
