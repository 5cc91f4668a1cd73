package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers routes on a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// AdminRouteRegistrar registers routes that require admin authentication
type AdminRouteRegistrar interface {
	RegisterAdminRoutes(rg *gin.RouterGroup)
}

// Router wires the API's route groups: public storefront routes,
// session-scoped cart and checkout routes, and the JWT-protected
// admin panel.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	jwtService *auth.JWTService

	public  []RouteRegistrar
	session []RouteRegistrar
	admin   []AdminRouteRegistrar
}

// NewRouter creates a new Router
func NewRouter(engine *gin.Engine, jwtService *auth.JWTService) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
		jwtService: jwtService,
	}
}

// Public adds registrars that need no session or authentication
func (r *Router) Public(registrars ...RouteRegistrar) *Router {
	r.public = append(r.public, registrars...)
	return r
}

// WithSession adds registrars whose routes run behind the shopper
// session middleware
func (r *Router) WithSession(registrars ...RouteRegistrar) *Router {
	r.session = append(r.session, registrars...)
	return r
}

// Admin adds registrars whose routes run behind admin authentication
func (r *Router) Admin(registrars ...AdminRouteRegistrar) *Router {
	r.admin = append(r.admin, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	session := api.Group("", middleware.Session())
	for _, registrar := range r.session {
		registrar.RegisterRoutes(session)
	}

	admin := api.Group("/admin", middleware.AdminAuth(r.jwtService))
	for _, registrar := range r.admin {
		registrar.RegisterAdminRoutes(admin)
	}
}

// Setup builds a fully wired gin engine from the handlers
func Setup(
	engine *gin.Engine,
	jwtService *auth.JWTService,
	system *handler.SystemHandler,
	authHandler *handler.AuthHandler,
	catalog *handler.CatalogHandler,
	cart *handler.CartHandler,
	checkout *handler.CheckoutHandler,
	orders *handler.AdminOrderHandler,
) {
	r := NewRouter(engine, jwtService)
	r.Public(system, authHandler, catalog)
	r.WithSession(cart, checkout)
	r.Admin(catalog, orders)
	r.Setup()
}
