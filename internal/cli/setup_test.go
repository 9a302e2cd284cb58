package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 27, 12, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	schedules := service.NewScheduleService(uow, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &App{
		Projects:           service.NewProjectService(repository.NewSQLiteProjectRepo(database)),
		Categories:         service.NewCategoryService(repository.NewSQLiteCostCategoryRepo(database)),
		Schedules:          schedules,
		Import:             service.NewImportService(uow, schedules),
		RiskThresholdWeeks: 2,
		Now:                func() time.Time { return testNow },
	}
}

type seeded struct {
	project    *domain.Project
	foundation *domain.CostCategory
	framing    *domain.CostCategory
	schedule   *domain.Schedule
}

// seedPlan creates CASA01 with an executive plan spanning exactly eight
// weeks from 2025-01-06.
func seedPlan(t *testing.T, app *App) seeded {
	t.Helper()
	ctx := context.Background()

	p := &domain.Project{ShortID: "CASA01", Name: "Casa Norte", Client: "Familia Ruiz"}
	require.NoError(t, app.Projects.Create(ctx, p))
	found, _, err := app.Categories.Ensure(ctx, p.ID, "Foundation", 12000)
	require.NoError(t, err)
	frame, _, err := app.Categories.Ensure(ctx, p.ID, "Framing", 30000)
	require.NoError(t, err)

	saved, err := app.Schedules.Save(ctx, contract.SaveScheduleRequest{
		Plan: domain.SchedulePlan{ProjectID: p.ID, Type: domain.PlanExecutive},
		Items: []domain.ScheduleItem{
			testutil.NewTestItem(found.ID, testutil.Date(2025, 1, 6), testutil.Date(2025, 1, 19)),
			testutil.NewTestItem(frame.ID, testutil.Date(2025, 1, 20), testutil.Date(2025, 3, 2)),
		},
		Milestones: []domain.Milestone{testutil.NewTestMilestone("Advance", 30)},
	})
	require.NoError(t, err)

	return seeded{project: p, foundation: found, framing: frame, schedule: saved}
}

// executeCmd runs a cobra command and captures its output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}
