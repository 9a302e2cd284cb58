package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/obra/internal/domain"
)

// resolveProject accepts a short ID (case-insensitive) or a full project ID.
func resolveProject(ctx context.Context, app *App, ref string) (*domain.Project, error) {
	if ref == "" {
		return nil, fmt.Errorf("project is required")
	}
	p, err := app.Projects.Resolve(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("project not found: %q", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving project %q: %w", ref, err)
	}
	return p, nil
}

// loadPlan loads the latest plan of type t, or starts an empty one when the
// project has none yet.
func loadPlan(ctx context.Context, app *App, p *domain.Project, t domain.PlanType) (*domain.Schedule, bool, error) {
	s, ok, err := app.Schedules.LoadForProject(ctx, p.ID, t)
	if err != nil {
		return nil, false, fmt.Errorf("loading %s plan for %s: %w", t, p.DisplayID(), err)
	}
	if !ok {
		return &domain.Schedule{Plan: domain.SchedulePlan{ProjectID: p.ID, Type: t}}, false, nil
	}
	return s, true, nil
}
