package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/notify"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.PlanEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.PlanEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Events() []notify.PlanEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.PlanEvent(nil), p.events...)
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	db       *sql.DB
	svc      *scheduleService
	pub      *recordingPublisher
	project  *domain.Project
	catA     *domain.CostCategory
	catB     *domain.CostCategory
	observed *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	project := testutil.NewTestProject("Casa", testutil.WithShortID("CASA01"))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, project))
	cats := repository.NewSQLiteCostCategoryRepo(database)
	catA := testutil.NewTestCategory(project.ID, "Cimentación", testutil.WithBudget(1000))
	catB := testutil.NewTestCategory(project.ID, "Estructura", testutil.WithCategoryOrder(1))
	require.NoError(t, cats.Create(ctx, catA))
	require.NoError(t, cats.Create(ctx, catB))

	svc, pub, obs := newScheduleService(testutil.NewTestUoW(database))
	return &fixture{db: database, svc: svc, pub: pub, project: project, catA: catA, catB: catB, observed: obs}
}

func newScheduleService(uow db.UnitOfWork) (*scheduleService, *recordingPublisher, *recordingObserver) {
	pub := &recordingPublisher{}
	obs := &recordingObserver{}
	svc := NewScheduleService(uow, pub, discardLogger(), obs).(*scheduleService)
	svc.now = stepClock(time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))
	return svc, pub, obs
}

func (f *fixture) items(n int) []domain.ScheduleItem {
	out := make([]domain.ScheduleItem, n)
	for i := range out {
		cat := f.catA.ID
		if i%2 == 1 {
			cat = f.catB.ID
		}
		start := testutil.Date(2025, 1, 1).AddDate(0, 0, 7*i)
		out[i] = testutil.NewTestItem(cat, start, start.AddDate(0, 0, 13))
	}
	return out
}

var errInjected = errors.New("injected write failure")
