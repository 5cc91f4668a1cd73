package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/storefront/backend/internal/application/order"
)

// AdminOrderHandler handles the admin panel's order endpoints
type AdminOrderHandler struct {
	BaseHandler
	service *orderapp.Service
}

// NewAdminOrderHandler creates a new AdminOrderHandler
func NewAdminOrderHandler(service *orderapp.Service) *AdminOrderHandler {
	return &AdminOrderHandler{service: service}
}

// RegisterAdminRoutes registers the order management routes
func (h *AdminOrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET(":id", h.Get)
		orders.PUT(":id", h.Update)
	}
}

// orderListQuery holds the order listing query parameters
type orderListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

// List returns a page of orders
func (h *AdminOrderHandler) List(c *gin.Context) {
	var query orderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.service.List(c.Request.Context(), orderapp.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Status:   query.Status,
		Search:   query.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one order with lines and audit log
func (h *AdminOrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid id parameter")
		return
	}

	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Update applies a tracking number and/or a status change to an order
func (h *AdminOrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid id parameter")
		return
	}
	var req orderapp.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
