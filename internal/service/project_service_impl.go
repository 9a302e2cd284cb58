package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	now      func() time.Time
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects, now: time.Now}
}

// Create normalizes and validates the short ID, then assigns an ID when the
// caller left it empty.
func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	p.ShortID = domain.NormalizeShortID(p.ShortID)
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// Resolve tries the short ID first since that is what people type.
func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	var err error
	for _, lookup := range []func(context.Context, string) (*domain.Project, error){
		s.projects.GetByShortID,
		s.projects.GetByID,
	} {
		var p *domain.Project
		if p, err = lookup(ctx, ref); !errors.Is(err, domain.ErrNotFound) {
			return p, err
		}
	}
	return nil, err
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}
