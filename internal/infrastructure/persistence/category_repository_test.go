package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

func TestGormCategoryRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	c, err := catalog.NewCategory("Camperas")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camperas", found.Name)

	bySlug, err := repo.FindBySlug(ctx, "camperas")
	require.NoError(t, err)
	assert.Equal(t, c.ID, bySlug.ID)
}

func TestGormCategoryRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindBySlug(ctx, "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormCategoryRepository_FindAllAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Camperas", "Remeras", "Pantalones"} {
		c, err := catalog.NewCategory(name)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))
	}

	filter := shared.DefaultFilter()
	all, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filter.Search = "camp"
	matched, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Camperas", matched[0].Name)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	c, err := catalog.NewCategory("Camperas")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
