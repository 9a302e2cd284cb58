package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_ValidShortID(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database))
	ctx := context.Background()

	proj := &domain.Project{Name: "Casa Lomas", ShortID: "casa01"}
	require.NoError(t, svc.Create(ctx, proj))
	assert.NotEmpty(t, proj.ID)
	assert.Equal(t, "CASA01", proj.ShortID)
	assert.False(t, proj.CreatedAt.IsZero())
}

func TestProjectService_Create_RejectsBadShortID(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database))

	err := svc.Create(context.Background(), &domain.Project{Name: "X", ShortID: "C1"})
	require.ErrorIs(t, err, domain.ErrInvalidProject)
	assert.Contains(t, err.Error(), "3-6 letters")
}

func TestProjectService_Resolve(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database))
	ctx := context.Background()

	proj := &domain.Project{Name: "Torre", ShortID: "TORRE02"}
	require.NoError(t, svc.Create(ctx, proj))

	byShort, err := svc.Resolve(ctx, "torre02")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, byShort.ID)

	byID, err := svc.Resolve(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, byID.ID)

	_, err = svc.Resolve(ctx, "NOPE99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryService_Ensure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Casa")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))
	svc := NewCategoryService(repository.NewSQLiteCostCategoryRepo(database))

	first, created, err := svc.Ensure(ctx, proj.ID, "Muros", 500)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 0, first.OrderIndex)

	again, created, err := svc.Ensure(ctx, proj.ID, " muros ", 999)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 500.0, again.Budget)

	second, created, err := svc.Ensure(ctx, proj.ID, "Losas", 0)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, second.OrderIndex)

	list, err := svc.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCategoryService_CreateValidates(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewCategoryService(repository.NewSQLiteCostCategoryRepo(database))
	ctx := context.Background()

	assert.Error(t, svc.Create(ctx, &domain.CostCategory{ProjectID: "p", Name: "  "}))
	assert.Error(t, svc.Create(ctx, &domain.CostCategory{ProjectID: "p", Name: "Muros", Budget: -1}))
}
