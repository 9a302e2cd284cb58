package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostCategoryRepo_CreateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Casa")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	repo := NewSQLiteCostCategoryRepo(db)
	cat := testutil.NewTestCategory(proj.ID, "Cimentación", testutil.WithBudget(125000))
	require.NoError(t, repo.Create(ctx, cat))

	byID, err := repo.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cimentación", byID.Name)
	assert.Equal(t, 125000.0, byID.Budget)

	byName, err := repo.GetByName(ctx, proj.ID, "cimentación")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, byName.ID)

	_, err = repo.GetByName(ctx, proj.ID, "Acabados")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCostCategoryRepo_ListByProjectOrdered(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Casa")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	repo := NewSQLiteCostCategoryRepo(db)
	require.NoError(t, repo.Create(ctx, testutil.NewTestCategory(proj.ID, "Acabados", testutil.WithCategoryOrder(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestCategory(proj.ID, "Estructura", testutil.WithCategoryOrder(1))))

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Estructura", list[0].Name)
	assert.Equal(t, "Acabados", list[1].Name)
}

func TestCostCategoryRepo_NameUniquePerProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Casa")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	repo := NewSQLiteCostCategoryRepo(db)
	require.NoError(t, repo.Create(ctx, testutil.NewTestCategory(proj.ID, "Muros")))
	assert.Error(t, repo.Create(ctx, testutil.NewTestCategory(proj.ID, "Muros")))
}
