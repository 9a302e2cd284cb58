package gantt

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/scheduler"
	"github.com/alexanderramin/obra/internal/timeline"
)

// Saver persists a full schedule; service.ScheduleService satisfies it.
type Saver interface {
	Save(ctx context.Context, req contract.SaveScheduleRequest) (*domain.Schedule, error)
}

// Editor owns the in-memory draft of one plan. It applies the surface's
// intents to its arrays and decides when they are saved.
type Editor struct {
	plan       domain.SchedulePlan
	items      []domain.ScheduleItem
	milestones []domain.Milestone

	dirty   bool
	guarded bool
	lastErr error
}

// NewEditor starts a draft from s, or an empty draft when s is nil.
func NewEditor(s *domain.Schedule) *Editor {
	e := &Editor{}
	if s != nil {
		e.reset(s)
	}
	return e
}

// NewDraft starts an empty, unsaved plan for a project.
func NewDraft(projectID string, t domain.PlanType) *Editor {
	return &Editor{plan: domain.SchedulePlan{ProjectID: projectID, Type: t}}
}

func (e *Editor) reset(s *domain.Schedule) {
	e.plan = s.Plan
	e.items = append([]domain.ScheduleItem(nil), s.Items...)
	e.milestones = append([]domain.Milestone(nil), s.Milestones...)
	e.dirty = false
}

// Items returns the current rows. Callers must not modify the slice.
func (e *Editor) Items() []domain.ScheduleItem { return e.items }

func (e *Editor) Milestones() []domain.Milestone { return e.milestones }
func (e *Editor) Plan() domain.SchedulePlan      { return e.plan }
func (e *Editor) Dirty() bool                    { return e.dirty }
func (e *Editor) LastError() error               { return e.lastErr }

// SetGuarded makes saves fail with domain.ErrConflict if the plan changed in
// the store since it was loaded.
func (e *Editor) SetGuarded(g bool) { e.guarded = g }

// UpdateItem replaces item index. Updates with an inverted range are dropped.
func (e *Editor) UpdateItem(index int, item domain.ScheduleItem) {
	if index < 0 || index >= len(e.items) {
		return
	}
	item.OrderIndex = index
	if err := item.Validate(); err != nil {
		return
	}
	e.items[index] = item
	e.dirty = true
}

// RemoveItem drops item index and renumbers the rest.
func (e *Editor) RemoveItem(index int) {
	if index < 0 || index >= len(e.items) {
		return
	}
	e.items = append(e.items[:index:index], e.items[index+1:]...)
	for i := range e.items {
		e.items[i].OrderIndex = i
	}
	e.dirty = true
}

// AddItem appends a new row.
func (e *Editor) AddItem(item domain.ScheduleItem) error {
	item.ID = ""
	item.PlanID = e.plan.ID
	item.OrderIndex = len(e.items)
	item.StartDate = domain.Day(item.StartDate)
	item.EndDate = domain.Day(item.EndDate)
	if err := item.Validate(); err != nil {
		return err
	}
	e.items = append(e.items, item)
	e.dirty = true
	return nil
}

// Schedule returns a copy of the draft.
func (e *Editor) Schedule() domain.Schedule {
	return domain.Schedule{
		Plan:       e.plan,
		Items:      append([]domain.ScheduleItem(nil), e.items...),
		Milestones: append([]domain.Milestone(nil), e.milestones...),
	}
}

// SaveRequest snapshots the draft for a save.
func (e *Editor) SaveRequest() contract.SaveScheduleRequest {
	req := contract.NewSaveScheduleRequest(e.Schedule())
	if e.guarded {
		req = req.Guarded()
	}
	return req
}

// Commit adopts the stored result of a successful save.
func (e *Editor) Commit(saved *domain.Schedule) {
	if saved == nil {
		return
	}
	e.reset(saved)
	e.lastErr = nil
}

// Fail records a failed save; the draft is kept so the user can retry.
func (e *Editor) Fail(err error) {
	e.lastErr = err
}

// Save persists the draft synchronously.
func (e *Editor) Save(ctx context.Context, saver Saver) error {
	saved, err := saver.Save(ctx, e.SaveRequest())
	if err != nil {
		e.Fail(err)
		return fmt.Errorf("saving plan: %w", err)
	}
	e.Commit(saved)
	return nil
}

func (e *Editor) Layout() (timeline.Layout, error) {
	return timeline.LayoutItems(e.items)
}

// Risk evaluates the current rows at now.
func (e *Editor) Risk(now time.Time, thresholdWeeks int) scheduler.RiskReport {
	return scheduler.EvaluateRisk(scheduler.RiskInput{
		Now:            now,
		Items:          e.items,
		ThresholdWeeks: thresholdWeeks,
	})
}
