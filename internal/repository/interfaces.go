package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

// CostCategoryRepo is the cost-category lookup schedule items resolve their
// labels and budgets against.
type CostCategoryRepo interface {
	Create(ctx context.Context, c *domain.CostCategory) error
	GetByID(ctx context.Context, id string) (*domain.CostCategory, error)
	GetByName(ctx context.Context, projectID, name string) (*domain.CostCategory, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.CostCategory, error)
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.SchedulePlan) error
	GetByID(ctx context.Context, id string) (*domain.SchedulePlan, error)
	// LatestByProjectAndType returns the most recently updated plan of the
	// given type, or an error wrapping domain.ErrNotFound.
	LatestByProjectAndType(ctx context.Context, projectID string, t domain.PlanType) (*domain.SchedulePlan, error)
	// LatestShared returns the most recently updated shared executive plan,
	// or an error wrapping domain.ErrNotFound.
	LatestShared(ctx context.Context, projectID string) (*domain.SchedulePlan, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.SchedulePlan, error)
	Touch(ctx context.Context, id string, at time.Time) error
	SetShared(ctx context.Context, id string, shared bool) error
}

type ScheduleItemRepo interface {
	Create(ctx context.Context, item *domain.ScheduleItem) error
	ListByPlan(ctx context.Context, planID string) ([]domain.ScheduleItem, error)
	DeleteByPlan(ctx context.Context, planID string) error
}

type MilestoneRepo interface {
	Create(ctx context.Context, m *domain.Milestone) error
	ListByPlan(ctx context.Context, planID string) ([]domain.Milestone, error)
	DeleteByPlan(ctx context.Context, planID string) error
}
