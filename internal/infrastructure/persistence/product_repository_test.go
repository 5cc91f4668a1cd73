package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func TestGormProductRepository_SaveLoadsVariantsAndImages(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p, err := catalog.NewProduct("Campera de Cuero", "desc", valueobject.NewMoneyARSFromFloat(45000), catalog.GenderMen)
	require.NoError(t, err)
	_, err = p.AddVariant("M", "Negro", 10)
	require.NoError(t, err)
	_, err = p.AddVariant("L", "Marron", 5)
	require.NoError(t, err)
	require.NoError(t, p.AddImage("https://cdn.example.com/a.jpg"))
	require.NoError(t, p.AddImage("https://cdn.example.com/b.jpg"))

	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, found.Variants, 2)
	require.Len(t, found.Images, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", found.Images[0].URL)

	v := found.FindVariant("M", "NEGRO")
	require.NotNil(t, v)
	assert.Equal(t, 10, v.Stock)
}

func TestGormProductRepository_FindBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Remera Basica", 3)

	found, err := repo.FindBySlug(ctx, "remera-basica")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = repo.FindBySlug(ctx, "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p1 := seedProduct(t, db, "Remera", 3)
	p2 := seedProduct(t, db, "Campera", 3)
	seedProduct(t, db, "Pantalon", 3)

	found, err := repo.FindByIDs(ctx, []uuid.UUID{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGormProductRepository_FindFeatured(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	featured := seedProduct(t, db, "Destacado", 3)
	featured.SetFeatured(true)
	require.NoError(t, repo.Save(ctx, featured))

	hidden := seedProduct(t, db, "Oculto", 3)
	hidden.SetFeatured(true)
	hidden.Deactivate()
	require.NoError(t, repo.Save(ctx, hidden))

	seedProduct(t, db, "Normal", 3)

	found, err := repo.FindFeatured(ctx, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, featured.ID, found[0].ID)
}

func TestGormProductRepository_FindFeatured_ExcludesSoldOut(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	soldOut := seedProduct(t, db, "Agotado", 0)
	soldOut.SetFeatured(true)
	require.NoError(t, repo.Save(ctx, soldOut))

	stocked := seedProduct(t, db, "Disponible", 3)
	stocked.SetFeatured(true)
	require.NoError(t, repo.Save(ctx, stocked))

	found, err := repo.FindFeatured(ctx, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stocked.ID, found[0].ID)
}

func TestGormProductRepository_InStockFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Agotado", 0)
	stocked := seedProduct(t, db, "Disponible", 3)

	filter := shared.DefaultFilter()
	filter.Filters["active"] = true
	filter.Filters["in_stock"] = true

	found, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stocked.ID, found[0].ID)

	// the same filter is reused for the count, it must stay intact
	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Contains(t, filter.Filters, "in_stock")

	// without the flag both products are visible
	filter = shared.DefaultFilter()
	found, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestGormProductRepository_FilterAndSearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Campera de Cuero", 3)
	seedProduct(t, db, "Campera Inflable", 3)
	seedProduct(t, db, "Remera", 3)

	filter := shared.DefaultFilter()
	filter.Search = "campera"
	found, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	filter = shared.DefaultFilter()
	filter.Filters["gender"] = string(catalog.GenderUnisex)
	found, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Remera", 3)
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}
