package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Service handles catalog operations for both the storefront and the admin panel
type Service struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewService creates a new catalog service
func NewService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger.Named("catalog"),
	}
}

// ListCategories returns every category ordered for display
func (s *Service) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	filter := shared.DefaultFilter()
	filter.Page = 0 // no pagination, the category set is small
	filter.OrderBy = "sort_order"
	filter.OrderDir = "asc"

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, ToCategoryResponse(&categories[i]))
	}
	return responses, nil
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	c, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	c.SortOrder = req.SortOrder

	if _, err := s.categoryRepo.FindBySlug(ctx, c.Slug); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("category created", zap.String("category_id", c.ID.String()), zap.String("name", c.Name))
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// UpdateCategory renames a category
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Rename(req.Name); err != nil {
		return nil, err
	}
	c.SetSortOrder(req.SortOrder)

	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(c)
	return &resp, nil
}

// DeleteCategory removes a category. Products keep working, they just
// lose the category assignment through the nullable FK.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// ListProducts returns products matching the storefront filters
func (s *Service) ListProducts(ctx context.Context, req ProductListFilter) ([]ProductResponse, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   req.Search,
		Filters:  make(map[string]interface{}),
	}

	if !req.IncludeInactive {
		// shoppers only see active products that still have stock
		filter.Filters["active"] = true
		filter.Filters["in_stock"] = true
	}
	if req.FeaturedOnly {
		filter.Filters["featured"] = true
	}
	if req.Gender != "" {
		if !catalog.Gender(req.Gender).IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_GENDER", "Gender must be men, women or unisex")
		}
		filter.Filters["gender"] = req.Gender
	}
	if req.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, req.CategorySlug)
		if err != nil {
			return nil, 0, err
		}
		filter.Filters["category_id"] = category.ID
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		if req.IncludeInactive {
			responses = append(responses, ToProductResponse(&products[i]))
		} else {
			responses = append(responses, ToStorefrontProductResponse(&products[i]))
		}
	}
	return responses, total, nil
}

// FeaturedProducts returns active featured products for the home page
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit <= 0 {
		limit = 8
	}
	products, err := s.productRepo.FindFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToStorefrontProductResponse(&products[i]))
	}
	return responses, nil
}

// GetProductBySlug returns one product for the storefront. Variants
// that are out of stock are not part of the shopper-facing view.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	p, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToStorefrontProductResponse(p)
	return &resp, nil
}

// GetProduct returns one product by ID for the storefront
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStorefrontProductResponse(p)
	return &resp, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price := valueobject.NewMoneyARS(req.Price)
	p, err := catalog.NewProduct(req.Name, req.Description, price, catalog.Gender(req.Gender))
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		p.SetCategory(req.CategoryID)
	}
	if req.Featured {
		p.SetFeatured(true)
	}

	if _, err := s.productRepo.FindBySlug(ctx, p.Slug); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", p.ID.String()), zap.String("name", p.Name))
	resp := ToProductResponse(p)
	return &resp, nil
}

// UpdateProduct updates a product's basic information and flags
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := p.SetPrice(valueobject.NewMoneyARS(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		p.SetCategory(req.CategoryID)
	}
	if req.Featured != nil {
		p.SetFeatured(*req.Featured)
	}
	if req.Active != nil {
		if *req.Active {
			p.Activate()
		} else {
			p.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

// DeleteProduct removes a product with its variants and images
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// AddVariant adds a size/color combination to a product
func (s *Service) AddVariant(ctx context.Context, productID uuid.UUID, req AddVariantRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if _, err := p.AddVariant(req.Size, req.Color, req.Stock); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

// SetVariantStock replaces the stock count of a variant
func (s *Service) SetVariantStock(ctx context.Context, productID uuid.UUID, req SetVariantStockRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := p.SetVariantStock(req.Size, req.Color, req.Stock); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

// AddImage appends a gallery image to a product
func (s *Service) AddImage(ctx context.Context, productID uuid.UUID, req AddImageRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := p.AddImage(req.URL); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

// RemoveImage removes a gallery image from a product
func (s *Service) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := p.RemoveImage(imageID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToProductResponse(p)
	return &resp, nil
}
