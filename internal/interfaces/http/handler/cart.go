package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the shopper cart API endpoints. All routes rely
// on the session middleware for the cart's session ID.
type CartHandler struct {
	BaseHandler
	service *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *cartapp.Service) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers the cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Get)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:key", h.SetQuantity)
		cart.POST("/items/:key/increment", h.Increment)
		cart.POST("/items/:key/decrement", h.Decrement)
		cart.DELETE("/items/:key", h.RemoveItem)
		cart.DELETE("", h.Clear)
	}
}

// Get returns the session's cart
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// AddItem adds a variant to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.AddItem(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetQuantity replaces a cart line's quantity
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req cartapp.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.service.SetItemQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("key"), req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Increment adds one unit to a cart line, clamped to stock
func (h *CartHandler) Increment(c *gin.Context) {
	view, err := h.service.AdjustItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("key"), 1)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Decrement removes one unit from a cart line, dropping it at zero
func (h *CartHandler) Decrement(c *gin.Context) {
	view, err := h.service.AdjustItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("key"), -1)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.service.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Clear drops the whole cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
