package service

import (
	"context"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a short ID (case-insensitive) or a full project ID.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

type CategoryService interface {
	Create(ctx context.Context, c *domain.CostCategory) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.CostCategory, error)
	// Ensure returns the project's category with the given name, creating it
	// with the given budget when missing.
	Ensure(ctx context.Context, projectID, name string, budget float64) (*domain.CostCategory, bool, error)
}

// ScheduleService is the schedule store. Errors other than domain.ErrNotFound,
// domain.ErrInvalidRange, domain.ErrInvalidPlanType and domain.ErrConflict
// wrap domain.ErrStoreUnavailable.
type ScheduleService interface {
	Load(ctx context.Context, planID string) (*domain.Schedule, error)
	// LoadForProject returns the most recently updated plan of the given type;
	// ok is false when the project has none.
	LoadForProject(ctx context.Context, projectID string, t domain.PlanType) (s *domain.Schedule, ok bool, err error)
	// LoadShared returns the most recently updated shared executive plan.
	LoadShared(ctx context.Context, projectID string) (s *domain.Schedule, ok bool, err error)
	// Save atomically replaces the plan's items and milestones.
	Save(ctx context.Context, req contract.SaveScheduleRequest) (*domain.Schedule, error)
	MarkShared(ctx context.Context, planID string) error
	UnmarkShared(ctx context.Context, planID string) error
	ListPlans(ctx context.Context, projectID string) ([]*domain.SchedulePlan, error)
}

// ImportResult holds the outcome of a schedule import.
type ImportResult struct {
	Project           *domain.Project
	Schedule          *domain.Schedule
	ProjectCreated    bool
	CategoriesCreated int
}

type ImportService interface {
	ImportSchedule(ctx context.Context, filePath string) (*ImportResult, error)
	ImportScheduleFile(ctx context.Context, f *importer.ScheduleFile) (*ImportResult, error)
}
