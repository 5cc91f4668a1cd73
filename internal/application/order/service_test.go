package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

type fakeOrderRepo struct {
	orders       map[uuid.UUID]*order.Order
	lastFilter   shared.Filter
	fulfillCalls int
	updateCalls  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, number string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter shared.Filter) ([]order.Order, error) {
	r.lastFilter = filter
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *order.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, o *order.Order, previous order.Status) error {
	r.updateCalls++
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

func (r *fakeOrderRepo) Fulfill(ctx context.Context, o *order.Order, previous order.Status) error {
	r.fulfillCalls++
	if o.Status != order.StatusFulfilled {
		return shared.ErrInvalidState
	}
	return r.UpdateStatus(ctx, o, previous)
}

func (r *fakeOrderRepo) GenerateOrderNumber(_ context.Context) (string, error) {
	return "ORD-20260823-0001", nil
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	address, err := valueobject.NewAddress("Buenos Aires", "La Plata", "Calle 7", "1234", "", "+54 221 555-0000")
	require.NoError(t, err)
	line, err := order.NewLine(uuid.New(), "Remera Basica", "M", "Negro", 2, valueobject.NewMoneyARSFromFloat(15000))
	require.NoError(t, err)

	o, err := order.NewOrder("ORD-20260823-0001", "Juana Molina", "30123456", "juana@example.com",
		address, order.PaymentBankTransfer, []order.Line{*line}, valueobject.NewMoneyARSFromFloat(2500))
	require.NoError(t, err)
	return o
}

func newTestService(t *testing.T) (*Service, *fakeOrderRepo, *order.Order) {
	t.Helper()
	repo := newFakeOrderRepo()
	o := newTestOrder(t)
	require.NoError(t, repo.Save(context.Background(), o))
	return NewService(repo, zap.NewNop()), repo, o
}

func TestService_List_StatusFilter(t *testing.T) {
	svc, repo, _ := newTestService(t)

	page, err := svc.List(context.Background(), ListFilter{Status: "pending", Search: "juana"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 1)

	assert.Equal(t, order.StatusPending, repo.lastFilter.Filters["status"])
	assert.Equal(t, "juana", repo.lastFilter.Search)
}

func TestService_List_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.List(context.Background(), ListFilter{Status: "shipped"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestService_Get(t *testing.T) {
	svc, _, o := newTestService(t)

	resp, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260823-0001", resp.OrderNumber)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "32500", resp.Total.String())
	require.Len(t, resp.Lines, 1)
	assert.NotEmpty(t, resp.AuditLog)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_Update_TrackingOnly(t *testing.T) {
	svc, repo, o := newTestService(t)

	resp, err := svc.Update(context.Background(), o.ID, UpdateRequest{TrackingNumber: "AND-001"})
	require.NoError(t, err)
	assert.Equal(t, "AND-001", resp.TrackingNumber)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, 0, repo.fulfillCalls)
}

func TestService_Update_FulfillDecrementsThroughRepo(t *testing.T) {
	svc, repo, o := newTestService(t)

	resp, err := svc.Update(context.Background(), o.ID, UpdateRequest{
		Status:         "FULFILLED",
		TrackingNumber: "AND-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "FULFILLED", resp.Status)
	assert.Equal(t, "AND-001", resp.TrackingNumber)
	assert.Equal(t, 1, repo.fulfillCalls)
}

func TestService_Update_FulfillWithoutTracking(t *testing.T) {
	svc, repo, o := newTestService(t)

	_, err := svc.Update(context.Background(), o.ID, UpdateRequest{Status: "FULFILLED"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TRACKING_REQUIRED", domainErr.Code)
	assert.Equal(t, 0, repo.fulfillCalls)

	// nothing was persisted
	stored, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", stored.Status)
}

func TestService_Update_Reject(t *testing.T) {
	svc, repo, o := newTestService(t)

	resp, err := svc.Update(context.Background(), o.ID, UpdateRequest{Status: "REJECTED"})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.Status)
	assert.Equal(t, 0, repo.fulfillCalls)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestService_Update_RejectedThenFulfill(t *testing.T) {
	svc, repo, o := newTestService(t)

	_, err := svc.Update(context.Background(), o.ID, UpdateRequest{Status: "REJECTED"})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), o.ID, UpdateRequest{
		Status:         "FULFILLED",
		TrackingNumber: "AND-002",
	})
	require.NoError(t, err)
	assert.Equal(t, "FULFILLED", resp.Status)
	assert.Equal(t, 1, repo.fulfillCalls)
}

func TestService_Update_FulfilledIsTerminal(t *testing.T) {
	svc, _, o := newTestService(t)

	_, err := svc.Update(context.Background(), o.ID, UpdateRequest{
		Status:         "FULFILLED",
		TrackingNumber: "AND-001",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), o.ID, UpdateRequest{Status: "REJECTED"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestService_Update_TrackingOnFulfilledOrder(t *testing.T) {
	svc, repo, o := newTestService(t)

	_, err := svc.Update(context.Background(), o.ID, UpdateRequest{
		Status:         "FULFILLED",
		TrackingNumber: "AND-001",
	})
	require.NoError(t, err)
	require.Equal(t, 1, repo.fulfillCalls)

	// correcting the tracking number must not decrement stock again
	resp, err := svc.Update(context.Background(), o.ID, UpdateRequest{TrackingNumber: "AND-002"})
	require.NoError(t, err)
	assert.Equal(t, "AND-002", resp.TrackingNumber)
	assert.Equal(t, "FULFILLED", resp.Status)
	assert.Equal(t, 1, repo.fulfillCalls)
}

func TestService_Update_NothingToUpdate(t *testing.T) {
	svc, _, o := newTestService(t)

	_, err := svc.Update(context.Background(), o.ID, UpdateRequest{})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestService_Update_UnknownStatus(t *testing.T) {
	svc, _, o := newTestService(t)

	_, err := svc.Update(context.Background(), o.ID, UpdateRequest{Status: "SHIPPED"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}
