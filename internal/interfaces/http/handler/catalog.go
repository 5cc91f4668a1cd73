package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// CatalogHandler handles catalog API endpoints, both the public
// storefront reads and the admin panel writes
type CatalogHandler struct {
	BaseHandler
	service *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the public storefront routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/categories", h.ListCategories)
		catalog.GET("/products", h.ListProducts)
		catalog.GET("/products/featured", h.FeaturedProducts)
		catalog.GET("/products/:slug", h.GetProduct)
	}
}

// RegisterAdminRoutes registers the catalog management routes.
// The router attaches these behind admin authentication.
func (h *CatalogHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.PUT(":id", h.UpdateCategory)
		categories.DELETE(":id", h.DeleteCategory)
	}

	products := rg.Group("/products")
	{
		products.GET("", h.AdminListProducts)
		products.POST("", h.CreateProduct)
		products.PUT(":id", h.UpdateProduct)
		products.DELETE(":id", h.DeleteProduct)
		products.POST(":id/variants", h.AddVariant)
		products.PUT(":id/variants/stock", h.SetVariantStock)
		products.POST(":id/images", h.AddImage)
		products.DELETE(":id/images/:imageId", h.RemoveImage)
	}
}

// productListQuery holds the product listing query parameters
type productListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Gender   string `form:"gender"`
	Featured bool   `form:"featured"`
}

// ListCategories returns every category
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ListProducts returns the storefront product listing
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var query productListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	products, total, err := h.service.ListProducts(c.Request.Context(), catalogapp.ProductListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		Search:       query.Search,
		CategorySlug: query.Category,
		Gender:       query.Gender,
		FeaturedOnly: query.Featured,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// AdminListProducts lists products for the admin panel, inactive included
func (h *CatalogHandler) AdminListProducts(c *gin.Context) {
	var query productListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	products, total, err := h.service.ListProducts(c.Request.Context(), catalogapp.ProductListFilter{
		Page:            query.Page,
		PageSize:        query.PageSize,
		Search:          query.Search,
		CategorySlug:    query.Category,
		Gender:          query.Gender,
		FeaturedOnly:    query.Featured,
		IncludeInactive: true,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// FeaturedProducts returns featured products for the home page
func (h *CatalogHandler) FeaturedProducts(c *gin.Context) {
	products, err := h.service.FeaturedProducts(c.Request.Context(), 0)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetProduct returns one product, addressed by slug or by ID
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	param := c.Param("slug")

	var (
		product *catalogapp.ProductResponse
		err     error
	)
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		product, err = h.service.GetProduct(c.Request.Context(), id)
	} else {
		product, err = h.service.GetProductBySlug(c.Request.Context(), param)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// CreateCategory creates a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory renames a category
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory removes a category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateProduct creates a product
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct updates a product's data and flags
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct removes a product
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddVariant adds a size/color combination to a product
func (h *CatalogHandler) AddVariant(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.service.AddVariant(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// SetVariantStock replaces the stock count of a variant
func (h *CatalogHandler) SetVariantStock(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetVariantStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.service.SetVariantStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AddImage appends a gallery image to a product
func (h *CatalogHandler) AddImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.service.AddImage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// RemoveImage removes a gallery image from a product
func (h *CatalogHandler) RemoveImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.pathID(c, "imageId")
	if !ok {
		return
	}

	product, err := h.service.RemoveImage(c.Request.Context(), id, imageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

func (h *CatalogHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}
