package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/importer"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/google/uuid"
)

type importService struct {
	uow       db.UnitOfWork
	schedules ScheduleService
	observer  UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, schedules ScheduleService, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:       uow,
		schedules: schedules,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportSchedule(ctx context.Context, filePath string) (*ImportResult, error) {
	f, err := importer.LoadScheduleFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportScheduleFile(ctx, f)
}

// ImportScheduleFile creates the project and any missing cost categories,
// then replaces the latest plan of the file's type (or creates one).
func (s *importService) ImportScheduleFile(ctx context.Context, f *importer.ScheduleFile) (result *ImportResult, err error) {
	fields := map[string]any{"project": f.Project.ShortID, "plan_type": f.Plan.Type}
	defer observe(ctx, s.observer, UseCaseImportSchedule, time.Now(), fields, &err)

	if errs := importer.ValidateScheduleFile(f); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	converted, err := importer.Convert(f)
	if err != nil {
		return nil, fmt.Errorf("converting schedule file: %w", err)
	}

	var categoryIDs map[string]string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		// Reset per attempt; a retried transaction starts from scratch.
		result = &ImportResult{}
		categoryIDs = make(map[string]string)
		projects := repository.NewSQLiteProjectRepo(tx)
		categories := repository.NewSQLiteCostCategoryRepo(tx)

		project, err := projects.GetByShortID(ctx, converted.ShortID)
		if errors.Is(err, domain.ErrNotFound) {
			now := time.Now().UTC()
			project = &domain.Project{
				ID:        uuid.New().String(),
				ShortID:   converted.ShortID,
				Name:      converted.ProjectName,
				Client:    converted.Client,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := project.Validate(); err != nil {
				return err
			}
			if err := projects.Create(ctx, project); err != nil {
				return err
			}
			result.ProjectCreated = true
		} else if err != nil {
			return err
		}
		result.Project = project

		for _, c := range converted.Categories {
			cat, created, err := ensureCategory(ctx, categories, project.ID, c.Name, c.Budget)
			if err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
			if created {
				result.CategoriesCreated++
			}
			categoryIDs[strings.ToLower(c.Name)] = cat.ID
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("importing schedule", err)
	}

	items := make([]domain.ScheduleItem, len(converted.Items))
	for i, it := range converted.Items {
		it.CategoryID = categoryIDs[strings.ToLower(it.CategoryName)]
		items[i] = it
	}

	plan := domain.SchedulePlan{ProjectID: result.Project.ID, Type: converted.PlanType}
	existing, ok, err := s.schedules.LoadForProject(ctx, result.Project.ID, converted.PlanType)
	if err != nil {
		return nil, err
	}
	if ok {
		plan = existing.Plan
	}

	saved, err := s.schedules.Save(ctx, contract.SaveScheduleRequest{
		Plan:       plan,
		Items:      items,
		Milestones: converted.Milestones,
	})
	if err != nil {
		return nil, err
	}
	if converted.Shared && !saved.Plan.Shared {
		if err := s.schedules.MarkShared(ctx, saved.Plan.ID); err != nil {
			return nil, err
		}
		saved.Plan.Shared = true
	}
	result.Schedule = saved
	fields["items"] = len(saved.Items)
	fields["categories_created"] = result.CategoriesCreated
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
