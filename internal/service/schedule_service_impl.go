package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/notify"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/google/uuid"
)

type scheduleService struct {
	uow       db.UnitOfWork
	publisher notify.Publisher
	logger    *slog.Logger
	observer  UseCaseObserver
	now       func() time.Time
}

// NewScheduleService builds the schedule store. A nil publisher disables
// change notifications; a nil logger uses slog.Default.
func NewScheduleService(
	uow db.UnitOfWork,
	publisher notify.Publisher,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) ScheduleService {
	if publisher == nil {
		publisher = notify.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &scheduleService{
		uow:       uow,
		publisher: publisher,
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
		now:       time.Now,
	}
}

// scheduleRepos are created per transaction.
type scheduleRepos struct {
	plans      *repository.SQLitePlanRepo
	items      *repository.SQLiteScheduleItemRepo
	milestones *repository.SQLiteMilestoneRepo
}

func reposFor(tx db.DBTX) scheduleRepos {
	return scheduleRepos{
		plans:      repository.NewSQLitePlanRepo(tx),
		items:      repository.NewSQLiteScheduleItemRepo(tx),
		milestones: repository.NewSQLiteMilestoneRepo(tx),
	}
}

// assemble reads the children of an already loaded plan.
func (r scheduleRepos) assemble(ctx context.Context, plan *domain.SchedulePlan) (*domain.Schedule, error) {
	items, err := r.items.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	milestones, err := r.milestones.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Schedule{Plan: *plan, Items: items, Milestones: milestones}, nil
}

func (s *scheduleService) Load(ctx context.Context, planID string) (sched *domain.Schedule, err error) {
	defer observe(ctx, s.observer, UseCaseLoadSchedule, time.Now(), map[string]any{"plan_id": planID}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		plan, err := r.plans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		sched, err = r.assemble(ctx, plan)
		return err
	})
	if err != nil {
		return nil, storeErr("loading plan", err)
	}
	return sched, nil
}

func (s *scheduleService) LoadForProject(ctx context.Context, projectID string, t domain.PlanType) (sched *domain.Schedule, ok bool, err error) {
	fields := map[string]any{"project_id": projectID, "plan_type": string(t)}
	defer observe(ctx, s.observer, UseCaseLoadSchedule, time.Now(), fields, &err)

	if !t.Valid() {
		return nil, false, fmt.Errorf("%w: %q", domain.ErrInvalidPlanType, t)
	}
	return s.loadLatest(ctx, func(ctx context.Context, r scheduleRepos) (*domain.SchedulePlan, error) {
		return r.plans.LatestByProjectAndType(ctx, projectID, t)
	})
}

func (s *scheduleService) LoadShared(ctx context.Context, projectID string) (sched *domain.Schedule, ok bool, err error) {
	defer observe(ctx, s.observer, UseCaseLoadShared, time.Now(), map[string]any{"project_id": projectID}, &err)

	return s.loadLatest(ctx, func(ctx context.Context, r scheduleRepos) (*domain.SchedulePlan, error) {
		return r.plans.LatestShared(ctx, projectID)
	})
}

func (s *scheduleService) loadLatest(
	ctx context.Context,
	find func(context.Context, scheduleRepos) (*domain.SchedulePlan, error),
) (*domain.Schedule, bool, error) {
	var sched *domain.Schedule
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		plan, err := find(ctx, r)
		if err != nil {
			return err
		}
		sched, err = r.assemble(ctx, plan)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr("loading plan", err)
	}
	return sched, true, nil
}

func (s *scheduleService) Save(ctx context.Context, req contract.SaveScheduleRequest) (saved *domain.Schedule, err error) {
	fields := map[string]any{
		"plan_type":  string(req.Plan.Type),
		"items":      len(req.Items),
		"milestones": len(req.Milestones),
	}
	defer observe(ctx, s.observer, UseCaseSaveSchedule, time.Now(), fields, &err)

	if err = req.Validate(); err != nil {
		return nil, err
	}

	var (
		plan       domain.SchedulePlan
		items      []domain.ScheduleItem
		milestones []domain.Milestone
	)
	now := s.now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		// Fresh copies per attempt: the unit of work re-runs this after lock
		// contention, and the caller's arrays are never touched.
		plan = req.Plan
		items = append([]domain.ScheduleItem(nil), req.Items...)
		milestones = append([]domain.Milestone(nil), req.Milestones...)
		r := reposFor(tx)

		if plan.ID == "" {
			plan.ID = uuid.New().String()
			plan.CreatedAt = now
			plan.UpdatedAt = now
			if err := r.plans.Create(ctx, &plan); err != nil {
				return err
			}
		} else {
			stored, err := r.plans.GetByID(ctx, plan.ID)
			if err != nil {
				return err
			}
			if req.IfUnmodifiedSince != nil && !stored.UpdatedAt.Equal(*req.IfUnmodifiedSince) {
				return fmt.Errorf("plan %s changed at %s: %w",
					plan.ID, stored.UpdatedAt.Format(time.RFC3339Nano), domain.ErrConflict)
			}
			// A plan's identity is fixed at creation.
			plan.ProjectID = stored.ProjectID
			plan.Type = stored.Type
			plan.Shared = stored.Shared
			plan.CreatedAt = stored.CreatedAt
			plan.UpdatedAt = now
			if !now.After(stored.UpdatedAt) {
				plan.UpdatedAt = stored.UpdatedAt.Add(time.Microsecond)
			}
			if err := r.plans.Touch(ctx, plan.ID, plan.UpdatedAt); err != nil {
				return err
			}
		}

		if err := r.items.DeleteByPlan(ctx, plan.ID); err != nil {
			return err
		}
		if err := r.milestones.DeleteByPlan(ctx, plan.ID); err != nil {
			return err
		}

		itemIDs := make([]string, len(items))
		for i := range items {
			itemIDs[i] = items[i].ID
		}
		itemIDs = assignChildIDs(plan.ID, "item", itemIDs)
		for i := range items {
			it := &items[i]
			it.ID = itemIDs[i]
			it.PlanID = plan.ID
			it.OrderIndex = i
			it.StartDate = domain.Day(it.StartDate)
			it.EndDate = domain.Day(it.EndDate)
			if err := r.items.Create(ctx, it); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}

		domain.AccumulateMilestones(milestones)
		msIDs := make([]string, len(milestones))
		for i := range milestones {
			msIDs[i] = milestones[i].ID
		}
		msIDs = assignChildIDs(plan.ID, "milestone", msIDs)
		for i := range milestones {
			m := &milestones[i]
			m.ID = msIDs[i]
			m.PlanID = plan.ID
			m.OrderIndex = i
			if err := r.milestones.Create(ctx, m); err != nil {
				return fmt.Errorf("milestone %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("saving plan", err)
	}
	fields["plan_id"] = plan.ID

	s.publish(ctx, notify.PlanEvent{
		Kind:      notify.PlanSaved,
		ProjectID: plan.ProjectID,
		PlanID:    plan.ID,
		PlanType:  plan.Type,
		Items:     len(items),
		At:        plan.UpdatedAt,
	})
	return &domain.Schedule{Plan: plan, Items: items, Milestones: milestones}, nil
}

func (s *scheduleService) MarkShared(ctx context.Context, planID string) (err error) {
	defer observe(ctx, s.observer, UseCaseMarkShared, time.Now(), map[string]any{"plan_id": planID}, &err)
	return s.setShared(ctx, planID, true, notify.PlanShared)
}

func (s *scheduleService) UnmarkShared(ctx context.Context, planID string) (err error) {
	defer observe(ctx, s.observer, UseCaseUnmarkShared, time.Now(), map[string]any{"plan_id": planID}, &err)
	return s.setShared(ctx, planID, false, notify.PlanUnshared)
}

// setShared flips the flag on one plan only. Other plans of the project keep
// theirs; readers resolve ties by recency.
func (s *scheduleService) setShared(ctx context.Context, planID string, shared bool, kind notify.EventKind) error {
	var plan *domain.SchedulePlan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		if err := plans.SetShared(ctx, planID, shared); err != nil {
			return err
		}
		var err error
		plan, err = plans.GetByID(ctx, planID)
		return err
	})
	if err != nil {
		return storeErr("updating shared flag", err)
	}
	s.publish(ctx, notify.PlanEvent{
		Kind:      kind,
		ProjectID: plan.ProjectID,
		PlanID:    plan.ID,
		PlanType:  plan.Type,
		At:        s.now().UTC(),
	})
	return nil
}

func (s *scheduleService) ListPlans(ctx context.Context, projectID string) ([]*domain.SchedulePlan, error) {
	var plans []*domain.SchedulePlan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		plans, err = repository.NewSQLitePlanRepo(tx).ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, storeErr("listing plans", err)
	}
	return plans, nil
}

// publish is best effort: the write already committed.
func (s *scheduleService) publish(ctx context.Context, e notify.PlanEvent) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "plan change notification failed",
			"kind", string(e.Kind), "plan_id", e.PlanID, "error", err)
	}
}
