package handler

import (
	"github.com/gin-gonic/gin"

	authapp "github.com/storefront/backend/internal/application/auth"
)

// AuthHandler handles admin authentication endpoints
type AuthHandler struct {
	BaseHandler
	service *authapp.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *authapp.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers the login route. It stays outside the
// authenticated admin group.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/login", h.Login)
}

// Login verifies admin credentials and issues a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req authapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
