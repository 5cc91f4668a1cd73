package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Lines").
		Preload("AuditLog", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

// FindByID finds an order by ID with its lines and audit log
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.preloaded(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its public order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.preloaded(ctx).First(&o, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists orders with filtering
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := applyFilter(r.preloaded(ctx).Model(&order.Order{}), filter, orderSearch)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter, orderSearch)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order together with its lines and audit log
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
}

// UpdateStatus persists a status change guarded by the previously loaded status.
// The guard makes concurrent admin updates lose cleanly instead of overwriting
// each other.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, o *order.Order, previous order.Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateStatusGuarded(tx, o, previous); err != nil {
			return err
		}
		return r.appendNewAuditEntries(tx, o)
	})
}

// Fulfill persists a transition into FULFILLED and decrements variant stock
// in the same transaction. The status guard guarantees the decrement happens
// exactly once even when two admins fulfill the same order concurrently.
func (r *GormOrderRepository) Fulfill(ctx context.Context, o *order.Order, previous order.Status) error {
	if o.Status != order.StatusFulfilled {
		return shared.NewDomainError("INVALID_STATE", "Fulfill requires an order in FULFILLED status")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateStatusGuarded(tx, o, previous); err != nil {
			return err
		}

		for i := range o.Lines {
			line := &o.Lines[i]
			// Floors at zero instead of going negative; a line whose variant
			// no longer exists simply affects zero rows and is skipped.
			result := tx.Model(&catalog.Variant{}).
				Where("product_id = ? AND size = ? AND LOWER(color) = LOWER(?)",
					line.ProductID, line.Size, line.Color).
				Update("stock", gorm.Expr(
					"CASE WHEN stock > ? THEN stock - ? ELSE 0 END",
					line.Quantity, line.Quantity,
				))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				o.RecordStockDecrement(fmt.Sprintf(
					"Skipped stock decrement for %s (%s/%s): variant no longer exists",
					line.ProductName, line.Size, line.Color))
				continue
			}
			o.RecordStockDecrement(fmt.Sprintf(
				"Decremented stock of %s (%s/%s) by %d",
				line.ProductName, line.Size, line.Color, line.Quantity))
		}

		return r.appendNewAuditEntries(tx, o)
	})
}

// updateStatusGuarded updates the order row only if its stored status still
// matches the status it had when loaded.
func (r *GormOrderRepository) updateStatusGuarded(tx *gorm.DB, o *order.Order, previous order.Status) error {
	o.UpdatedAt = time.Now()
	result := tx.Model(&order.Order{}).
		Where("id = ? AND status = ?", o.ID, previous).
		Updates(map[string]interface{}{
			"status":          o.Status,
			"tracking_number": o.TrackingNumber,
			"version":         o.Version,
			"updated_at":      o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the order vanished or another update won the race
		var count int64
		if err := tx.Model(&order.Order{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// appendNewAuditEntries inserts audit entries that are not yet persisted
func (r *GormOrderRepository) appendNewAuditEntries(tx *gorm.DB, o *order.Order) error {
	for i := range o.AuditLog {
		entry := &o.AuditLog[i]
		if err := tx.Where(order.AuditEntry{ID: entry.ID}).
			FirstOrCreate(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// GenerateOrderNumber generates a unique public order number
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	prefix := "ORD-" + time.Now().Format("20060102")
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// orderSearch applies free-text search over buyer name, DNI, tracking and locality
func orderSearch(query *gorm.DB, search string) *gorm.DB {
	pattern := "%" + strings.ToLower(search) + "%"
	return query.Where(
		"LOWER(buyer_name) LIKE ? OR LOWER(buyer_dni) LIKE ? OR LOWER(tracking_number) LIKE ? OR LOWER(locality) LIKE ?",
		pattern, pattern, pattern, pattern,
	)
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
