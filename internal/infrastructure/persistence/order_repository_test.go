package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Campera", 10)
	o := seedOrder(t, db, p, 2)

	assert.Equal(t, order.StatusPending, o.Status)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	require.Len(t, o.AuditLog, 1)
	assert.Equal(t, order.AuditOrderCreated, o.AuditLog[0].Action)

	byNumber, err := repo.FindByOrderNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, byNumber.ID)
}

func TestGormOrderRepository_Fulfill_DecrementsStock(t *testing.T) {
	db := newTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	productRepo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Campera", 10)
	o := seedOrder(t, db, p, 3)

	previous := o.Status
	require.NoError(t, o.SetTracking("AND-1"))
	require.NoError(t, o.Transition(order.StatusFulfilled))
	require.NoError(t, orderRepo.Fulfill(ctx, o, previous))

	reloaded, err := productRepo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.FindVariant("M", "Negro").Stock)

	stored, err := orderRepo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusFulfilled, stored.Status)
	assert.Equal(t, "AND-1", stored.TrackingNumber)

	// created + tracking + status change + stock decrement
	require.Len(t, stored.AuditLog, 4)
	assert.Equal(t, order.AuditStockDecrement, stored.AuditLog[3].Action)
}

func TestGormOrderRepository_Fulfill_ConcurrentLosesCleanly(t *testing.T) {
	db := newTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	productRepo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Campera", 10)
	o := seedOrder(t, db, p, 3)

	// two admins load the same pending order
	first, err := orderRepo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	second, err := orderRepo.FindByID(ctx, o.ID)
	require.NoError(t, err)

	require.NoError(t, first.SetTracking("AND-1"))
	require.NoError(t, first.Transition(order.StatusFulfilled))
	require.NoError(t, orderRepo.Fulfill(ctx, first, order.StatusPending))

	require.NoError(t, second.SetTracking("AND-2"))
	require.NoError(t, second.Transition(order.StatusFulfilled))
	err = orderRepo.Fulfill(ctx, second, order.StatusPending)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// stock was decremented exactly once
	reloaded, err := productRepo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.FindVariant("M", "Negro").Stock)
}

func TestGormOrderRepository_Fulfill_FloorsStockAtZero(t *testing.T) {
	db := newTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	productRepo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Campera", 2)
	o := seedOrder(t, db, p, 5)

	previous := o.Status
	require.NoError(t, o.SetTracking("AND-1"))
	require.NoError(t, o.Transition(order.StatusFulfilled))
	require.NoError(t, orderRepo.Fulfill(ctx, o, previous))

	reloaded, err := productRepo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.FindVariant("M", "Negro").Stock)
}

func TestGormOrderRepository_Fulfill_SkipsMissingVariant(t *testing.T) {
	db := newTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Campera", 10)
	o := seedOrder(t, db, p, 2)

	// variant disappears between checkout and fulfillment
	require.NoError(t, db.Exec("DELETE FROM product_variants WHERE product_id = ?", p.ID).Error)

	previous := o.Status
	require.NoError(t, o.SetTracking("AND-1"))
	require.NoError(t, o.Transition(order.StatusFulfilled))
	require.NoError(t, orderRepo.Fulfill(ctx, o, previous))

	stored, err := orderRepo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusFulfilled, stored.Status)
	last := stored.AuditLog[len(stored.AuditLog)-1]
	assert.Equal(t, order.AuditStockDecrement, last.Action)
	assert.Contains(t, last.Detail, "no longer exists")
}

func TestGormOrderRepository_UpdateStatus_Reject(t *testing.T) {
	db := newTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Campera", 10)
	o := seedOrder(t, db, p, 2)

	previous := o.Status
	require.NoError(t, o.Transition(order.StatusRejected))
	require.NoError(t, orderRepo.UpdateStatus(ctx, o, previous))

	stored, err := orderRepo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, stored.Status)
}

func TestGormOrderRepository_FindAll_FilterAndSearch(t *testing.T) {
	db := newTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Campera", 100)
	o1 := seedOrder(t, db, p, 1)
	o2 := seedOrder(t, db, p, 1)
	seedOrder(t, db, p, 1)

	previous := o1.Status
	require.NoError(t, o1.Transition(order.StatusRejected))
	require.NoError(t, orderRepo.UpdateStatus(ctx, o1, previous))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(order.StatusRejected)
	rejected, err := orderRepo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, o1.ID, rejected[0].ID)

	count, err := orderRepo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// free text matches tracking numbers too
	previous = o2.Status
	require.NoError(t, o2.SetTracking("TRK-UNIQUE-42"))
	require.NoError(t, o2.Transition(order.StatusFulfilled))
	require.NoError(t, orderRepo.Fulfill(ctx, o2, previous))

	filter = shared.DefaultFilter()
	filter.Search = "trk-unique"
	matched, err := orderRepo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, o2.ID, matched[0].ID)
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	db := newTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	ctx := context.Background()

	n1, err := orderRepo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Contains(t, n1, "ORD-")

	p := seedProduct(t, db, "Campera", 10)
	seedOrder(t, db, p, 1)

	n2, err := orderRepo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)
}
