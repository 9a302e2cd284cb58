package gantt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	got []contract.SaveScheduleRequest
	err error
}

func (f *fakeSaver) Save(_ context.Context, req contract.SaveScheduleRequest) (*domain.Schedule, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	saved := domain.Schedule{Plan: req.Plan, Items: req.Items, Milestones: req.Milestones}
	if saved.Plan.ID == "" {
		saved.Plan.ID = "plan-new"
	}
	saved.Plan.UpdatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return &saved, nil
}

func TestEditor_UpdateRejectsInvertedRange(t *testing.T) {
	ed := NewEditor(&domain.Schedule{Items: eightWeeks()})
	bad := ed.Items()[0]
	bad.EndDate = bad.StartDate.AddDate(0, 0, -1)

	ed.UpdateItem(0, bad)
	assert.Equal(t, testutil.Date(2025, 1, 19), ed.Items()[0].EndDate)
	assert.False(t, ed.Dirty())

	ed.UpdateItem(5, ed.Items()[0])
	assert.False(t, ed.Dirty())
}

func TestEditor_AddItem(t *testing.T) {
	ed := NewDraft("proj-1", domain.PlanParametric)

	err := ed.AddItem(testutil.NewTestItem("cat-1", testutil.Date(2025, 1, 6), testutil.Date(2025, 1, 12)))
	require.NoError(t, err)
	err = ed.AddItem(testutil.NewTestItem("cat-2", testutil.Date(2025, 1, 12), testutil.Date(2025, 1, 6)))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	require.Len(t, ed.Items(), 1)
	assert.True(t, ed.Dirty())
	assert.Equal(t, "proj-1", ed.Plan().ProjectID)
}

func TestEditor_SaveCommitsStoredResult(t *testing.T) {
	ed := NewDraft("proj-1", domain.PlanExecutive)
	require.NoError(t, ed.AddItem(testutil.NewTestItem("cat-1", testutil.Date(2025, 1, 6), testutil.Date(2025, 1, 12))))

	saver := &fakeSaver{}
	require.NoError(t, ed.Save(context.Background(), saver))

	assert.Equal(t, "plan-new", ed.Plan().ID)
	assert.False(t, ed.Dirty())
	assert.NoError(t, ed.LastError())
	require.Len(t, saver.got, 1)
	assert.Nil(t, saver.got[0].IfUnmodifiedSince)
}

func TestEditor_SaveFailureKeepsDraft(t *testing.T) {
	ed := NewEditor(&domain.Schedule{
		Plan:  domain.SchedulePlan{ID: "plan-1", ProjectID: "proj-1", Type: domain.PlanExecutive},
		Items: eightWeeks(),
	})
	ed.RemoveItem(0)

	saver := &fakeSaver{err: domain.ErrStoreUnavailable}
	err := ed.Save(context.Background(), saver)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.ErrorIs(t, ed.LastError(), domain.ErrStoreUnavailable)

	assert.True(t, ed.Dirty())
	assert.Len(t, ed.Items(), 1)
}

func TestEditor_GuardedRequest(t *testing.T) {
	updated := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	ed := NewEditor(&domain.Schedule{
		Plan:  domain.SchedulePlan{ID: "plan-1", ProjectID: "proj-1", Type: domain.PlanExecutive, UpdatedAt: updated},
		Items: eightWeeks(),
	})
	ed.SetGuarded(true)

	req := ed.SaveRequest()
	require.NotNil(t, req.IfUnmodifiedSince)
	assert.Equal(t, updated, *req.IfUnmodifiedSince)
}

func TestEditor_SaveRequestIsACopy(t *testing.T) {
	ed := NewEditor(&domain.Schedule{Items: eightWeeks()})
	req := ed.SaveRequest()
	req.Items[0].CategoryID = "changed"
	assert.Equal(t, "cat-found", ed.Items()[0].CategoryID)
}

func TestEditor_Risk(t *testing.T) {
	ed := NewEditor(&domain.Schedule{Items: eightWeeks()})
	report := ed.Risk(testutil.Date(2025, 2, 24), 2)
	require.NotNil(t, report.Plan)
	assert.Equal(t, domain.SeverityApproaching, report.Plan.Severity)

	layout, err := ed.Layout()
	require.NoError(t, err)
	assert.Len(t, layout.Grid.Weeks, 8)
}
