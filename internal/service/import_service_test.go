package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/importer"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validScheduleFile() *importer.ScheduleFile {
	return &importer.ScheduleFile{
		Project:    importer.ProjectImport{ShortID: "OBRA01", Name: "Bodega Norte", Client: "Grupo Alfa"},
		Plan:       importer.PlanImport{Type: "executive", Shared: true},
		Categories: []importer.CategoryImport{{Name: "Preliminares", Budget: 20000}},
		Items: []importer.ItemImport{
			{Category: "Preliminares", Start: "2025-01-06", End: "2025-01-19"},
			{Category: "Cimentación", Start: "2025-01-13", End: "2025-02-09"},
			{Category: "cimentación", Start: "2025-02-10", End: "2025-02-16"},
		},
		Milestones: []importer.MilestoneImport{
			{Label: "Anticipo", Percentage: 25},
			{Label: "Estimación 1", Percentage: 35},
		},
	}
}

func newImportFixture(t *testing.T) (ImportService, ScheduleService, *repository.SQLiteCostCategoryRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	schedules := NewScheduleService(uow, nil, discardLogger())
	return NewImportService(uow, schedules), schedules, repository.NewSQLiteCostCategoryRepo(database)
}

func TestImportService_CreatesProjectCategoriesAndPlan(t *testing.T) {
	svc, schedules, categories := newImportFixture(t)
	ctx := context.Background()

	res, err := svc.ImportScheduleFile(ctx, validScheduleFile())
	require.NoError(t, err)
	assert.True(t, res.ProjectCreated)
	assert.Equal(t, "OBRA01", res.Project.ShortID)
	assert.Equal(t, "Grupo Alfa", res.Project.Client)
	assert.Equal(t, 2, res.CategoriesCreated)
	require.Len(t, res.Schedule.Items, 3)
	assert.Equal(t, res.Schedule.Items[1].CategoryID, res.Schedule.Items[2].CategoryID)
	assert.True(t, res.Schedule.Plan.Shared)

	cats, err := categories.ListByProject(ctx, res.Project.ID)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, 20000.0, cats[0].Budget)

	shared, ok, err := schedules.LoadShared(ctx, res.Project.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.Schedule.Plan.ID, shared.Plan.ID)
	assert.Equal(t, "Cimentación", shared.Items[1].CategoryName)
	require.Len(t, shared.Milestones, 2)
	assert.Equal(t, 60.0, shared.Milestones[1].Accumulated)
}

func TestImportService_ReimportReplacesLatestPlan(t *testing.T) {
	svc, schedules, _ := newImportFixture(t)
	ctx := context.Background()

	first, err := svc.ImportScheduleFile(ctx, validScheduleFile())
	require.NoError(t, err)

	f := validScheduleFile()
	f.Items = f.Items[:1]
	second, err := svc.ImportScheduleFile(ctx, f)
	require.NoError(t, err)
	assert.False(t, second.ProjectCreated)
	assert.Equal(t, 0, second.CategoriesCreated)
	assert.Equal(t, first.Schedule.Plan.ID, second.Schedule.Plan.ID)

	plans, err := schedules.ListPlans(ctx, first.Project.ID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	loaded, err := schedules.Load(ctx, first.Schedule.Plan.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
}

func TestImportService_ValidationFailure(t *testing.T) {
	svc, _, _ := newImportFixture(t)
	f := validScheduleFile()
	f.Plan.Type = "draft"
	f.Items[0].End = "2024-01-01"

	_, err := svc.ImportScheduleFile(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
}

func TestImportService_FromYAMLFile(t *testing.T) {
	svc, _, _ := newImportFixture(t)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := `project:
  short_id: LOMA01
plan:
  type: parametric
items:
  - category: Muros
    start: 2025-04-01
    end: 2025-04-30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := svc.ImportSchedule(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanParametric, res.Schedule.Plan.Type)
	assert.Equal(t, "LOMA01", res.Project.Name)
	assert.False(t, res.Schedule.Plan.Shared)
}

func TestImportService_RetryDoesNotInflateCounts(t *testing.T) {
	database := testutil.NewTestDB(t)
	schedules := NewScheduleService(testutil.NewTestUoW(database), nil, discardLogger())
	uow := &testutil.ContendedUoW{
		Inner:     db.NewSQLiteUnitOfWork(database, db.WithBusyRetries(3, time.Millisecond)),
		Statement: "INSERT INTO cost_categories",
		After:     1,
		Times:     1,
	}
	svc := NewImportService(uow, schedules)

	res, err := svc.ImportScheduleFile(context.Background(), validScheduleFile())
	require.NoError(t, err)
	assert.Equal(t, 2, uow.Attempts)
	assert.True(t, res.ProjectCreated)
	assert.Equal(t, 2, res.CategoriesCreated)
	require.Len(t, res.Schedule.Items, 3)
	assert.NotEmpty(t, res.Schedule.Items[0].CategoryID)
}
