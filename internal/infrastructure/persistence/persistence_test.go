package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// newTestDB opens an in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductImage{},
		&catalog.Variant{},
		&order.Order{},
		&order.Line{},
		&order.AuditEntry{},
	))

	return db
}

// seedProduct stores a product with one M/Negro variant and returns it reloaded
func seedProduct(t *testing.T, db *gorm.DB, name string, stock int) *catalog.Product {
	t.Helper()

	p, err := catalog.NewProduct(name, "", valueobject.NewMoneyARSFromFloat(1000), catalog.GenderUnisex)
	require.NoError(t, err)
	_, err = p.AddVariant("M", "Negro", stock)
	require.NoError(t, err)

	repo := NewGormProductRepository(db)
	require.NoError(t, repo.Save(context.Background(), p))

	stored, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return stored
}

// seedOrder builds and stores a pending order for the given product variant
func seedOrder(t *testing.T, db *gorm.DB, p *catalog.Product, qty int) *order.Order {
	t.Helper()

	addr, err := valueobject.NewAddress("Buenos Aires", "La Plata", "Calle 7", "1234", "", "")
	require.NoError(t, err)

	line, err := order.NewLine(p.ID, p.Name, "M", "Negro", qty, valueobject.NewMoneyARS(p.Price))
	require.NoError(t, err)

	repo := NewGormOrderRepository(db)
	number, err := repo.GenerateOrderNumber(context.Background())
	require.NoError(t, err)

	o, err := order.NewOrder(number, "Juan Perez", "30123456", "juan@example.com",
		addr, order.PaymentBankTransfer, []order.Line{*line}, valueobject.ZeroARS())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), o))

	stored, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	return stored
}
