package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	authapp "github.com/storefront/backend/internal/application/auth"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// in-memory repositories shared by the handler tests

type memCategoryRepo struct {
	categories map[uuid.UUID]*catalog.Category
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if c, ok := r.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindBySlug(_ context.Context, slug string) (*catalog.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCategoryRepo) Save(_ context.Context, c *catalog.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memCategoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.categories)), nil
}

type memProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindFeatured(_ context.Context, limit int) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0)
	for _, p := range r.products {
		if p.Featured && p.Active && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

type memOrderRepo struct {
	orders map[uuid.UUID]*order.Order
	serial int
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	if o, ok := r.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindByOrderNumber(_ context.Context, number string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]order.Order, error) {
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *memOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) Save(_ context.Context, o *order.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, o *order.Order, previous order.Status) error {
	stored, ok := r.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != previous {
		return shared.ErrConcurrencyConflict
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) Fulfill(ctx context.Context, o *order.Order, previous order.Status) error {
	return r.UpdateStatus(ctx, o, previous)
}

func (r *memOrderRepo) GenerateOrderNumber(_ context.Context) (string, error) {
	r.serial++
	return time.Now().Format("ORD-20060102-") + "0001", nil
}

type stubQuoter struct{}

func (stubQuoter) QuoteShipping(_ context.Context, _ valueobject.Address) (shipping.Quote, error) {
	return shipping.Quote{Cost: valueobject.NewMoneyARSFromFloat(2500), Carrier: "andreani"}, nil
}

type stubGateway struct{}

func (stubGateway) Charge(_ context.Context, _ payment.ChargeRequest) (payment.ChargeResult, error) {
	return payment.ChargeResult{Reference: "pay-1", Approved: true}, nil
}

type testEnv struct {
	engine   *gin.Engine
	products *memProductRepo
	orders   *memOrderRepo
	jwt      *auth.JWTService
	product  *catalog.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	categories := &memCategoryRepo{categories: make(map[uuid.UUID]*catalog.Category)}
	products := &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
	orders := &memOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
	logger := zap.NewNop()

	p, err := catalog.NewProduct("Remera Basica", "Algodon", valueobject.NewMoneyARSFromFloat(15000), catalog.GenderUnisex)
	require.NoError(t, err)
	_, err = p.AddVariant("M", "Negro", 5)
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), p))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters!!",
		Expiration: time.Hour,
		Issuer:     "storefront-backend",
	})
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	catalogSvc := catalogapp.NewService(categories, products, logger)
	cartSvc := cartapp.NewService(cache.NewInMemoryCartStore(), products, time.Hour, logger)
	checkoutSvc := checkoutapp.NewService(cartSvc, orders, stubQuoter{}, stubGateway{}, logger)
	orderSvc := orderapp.NewService(orders, logger)
	authSvc := authapp.NewService(config.AdminConfig{Username: "admin", PasswordHash: string(hash)}, jwtService, logger)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	api := engine.Group("/api/v1")
	NewSystemHandler(nil).RegisterRoutes(api)
	NewAuthHandler(authSvc).RegisterRoutes(api)
	NewCatalogHandler(catalogSvc).RegisterRoutes(api)

	session := api.Group("", middleware.Session())
	NewCartHandler(cartSvc).RegisterRoutes(session)
	NewCheckoutHandler(checkoutSvc).RegisterRoutes(session)

	admin := api.Group("/admin", middleware.AdminAuth(jwtService))
	NewCatalogHandler(catalogSvc).RegisterAdminRoutes(admin)
	NewAdminOrderHandler(orderSvc).RegisterAdminRoutes(admin)

	return &testEnv{
		engine:   engine,
		products: products,
		orders:   orders,
		jwt:      jwtService,
		product:  p,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	token, err := e.jwt.Generate("admin")
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token.Value}
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, http.MethodGet, "/api/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCatalog_ListProducts(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/catalog/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Success bool  `json:"success"`
		Data    []any `json:"data"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Len(t, envelope.Data, 1)
	require.Equal(t, int64(1), envelope.Meta.Total)
}

func TestCatalog_GetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/catalog/products/no-such-product", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_FlowWithSessionHeader(t *testing.T) {
	env := newTestEnv(t)

	// first request creates a session
	w := env.request(t, http.MethodGet, "/api/v1/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Header().Get("X-Session-ID")
	require.NotEmpty(t, sessionID)
	headers := map[string]string{"X-Session-ID": sessionID}

	// add an item
	w = env.request(t, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": env.product.ID,
		"size":       "M",
		"color":      "Negro",
		"quantity":   2,
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Equal(t, float64(2), data["added"])

	// same session sees the item
	w = env.request(t, http.MethodGet, "/api/v1/cart", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	require.Equal(t, float64(2), data["total_units"])

	// a different session sees an empty cart
	w = env.request(t, http.MethodGet, "/api/v1/cart", nil, map[string]string{"X-Session-ID": "other"})
	data = decodeData(t, w)
	require.Equal(t, float64(0), data["total_units"])
}

func TestCart_IncrementAndDecrement(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"X-Session-ID": "sess-1"}

	w := env.request(t, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": env.product.ID,
		"size":       "M",
		"color":      "Negro",
		"quantity":   1,
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	key := env.product.ID.String() + ":M:negro"

	w = env.request(t, http.MethodPost, "/api/v1/cart/items/"+key+"/increment", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Equal(t, float64(2), data["total_units"])

	w = env.request(t, http.MethodPost, "/api/v1/cart/items/"+key+"/decrement", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	require.Equal(t, float64(1), data["total_units"])

	// decrementing the last unit drops the line
	w = env.request(t, http.MethodPost, "/api/v1/cart/items/"+key+"/decrement", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	require.Equal(t, float64(0), data["total_units"])
}

func TestCart_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": uuid.New(),
		"size":       "M",
		"color":      "Negro",
		"quantity":   1,
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckout_PlaceOrder(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/cart", nil, nil)
	sessionID := w.Header().Get("X-Session-ID")
	headers := map[string]string{"X-Session-ID": sessionID}

	w = env.request(t, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": env.product.ID,
		"size":       "M",
		"color":      "Negro",
		"quantity":   1,
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/checkout", map[string]any{
		"buyer_name":  "Juana Molina",
		"buyer_dni":   "30123456",
		"buyer_email": "juana@example.com",
		"address": map[string]any{
			"province": "Buenos Aires",
			"locality": "La Plata",
			"street":   "Calle 7",
			"number":   "1234",
			"phone":    "+54 221 555-0000",
		},
		"payment_method": "mercado_pago",
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	require.Equal(t, "PENDING", data["status"])
	require.NotEmpty(t, data["order_number"])
	require.Len(t, env.orders.orders, 1)

	// the buyer can look the order up without authentication
	orderID := data["order_id"].(string)
	w = env.request(t, http.MethodGet, "/api/v1/orders/"+orderID, nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	require.Equal(t, "PENDING", data["status"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/checkout", map[string]any{
		"buyer_name":  "Juana Molina",
		"buyer_dni":   "30123456",
		"buyer_email": "juana@example.com",
		"address": map[string]any{
			"province": "Buenos Aires",
			"locality": "La Plata",
			"street":   "Calle 7",
			"number":   "1234",
			"phone":    "+54 221 555-0000",
		},
		"payment_method": "bank_transfer",
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/admin/orders", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/admin/orders", nil,
		map[string]string{"Authorization": "Bearer garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_LoginAndListOrders(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/admin/login", map[string]any{
		"username": "admin",
		"password": "s3cret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	w = env.request(t, http.MethodGet, "/api/v1/admin/orders", nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_Login_BadPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/admin/login", map[string]any{
		"username": "admin",
		"password": "nope",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_CreateProduct(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	w := env.request(t, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name":   "Buzo Frisa",
		"price":  "25000",
		"gender": "unisex",
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	require.Equal(t, "buzo-frisa", data["slug"])
}

func TestAdmin_UpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	address, err := valueobject.NewAddress("Buenos Aires", "La Plata", "Calle 7", "1234", "", "")
	require.NoError(t, err)
	line, err := order.NewLine(env.product.ID, "Remera Basica", "M", "Negro", 1, valueobject.NewMoneyARSFromFloat(15000))
	require.NoError(t, err)
	o, err := order.NewOrder("ORD-20260823-0001", "Juana Molina", "30123456", "juana@example.com",
		address, order.PaymentBankTransfer, []order.Line{*line}, valueobject.ZeroARS())
	require.NoError(t, err)
	require.NoError(t, env.orders.Save(context.Background(), o))

	// fulfilling without tracking fails with 422
	w := env.request(t, http.MethodPut, "/api/v1/admin/orders/"+o.ID.String(), map[string]any{
		"status": "FULFILLED",
	}, headers)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// with tracking it succeeds
	w = env.request(t, http.MethodPut, "/api/v1/admin/orders/"+o.ID.String(), map[string]any{
		"status":          "FULFILLED",
		"tracking_number": "AND-001",
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Equal(t, "FULFILLED", data["status"])
}
