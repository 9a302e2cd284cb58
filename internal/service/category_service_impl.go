package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/google/uuid"
)

type categoryService struct {
	categories repository.CostCategoryRepo
}

func NewCategoryService(categories repository.CostCategoryRepo) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) Create(ctx context.Context, c *domain.CostCategory) error {
	return createCategory(ctx, s.categories, c)
}

func (s *categoryService) ListByProject(ctx context.Context, projectID string) ([]*domain.CostCategory, error) {
	return s.categories.ListByProject(ctx, projectID)
}

func (s *categoryService) Ensure(ctx context.Context, projectID, name string, budget float64) (*domain.CostCategory, bool, error) {
	return ensureCategory(ctx, s.categories, projectID, name, budget)
}

func createCategory(ctx context.Context, repo repository.CostCategoryRepo, c *domain.CostCategory) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("cost category name is required")
	}
	if c.Budget < 0 {
		return fmt.Errorf("cost category %q: budget must not be negative", c.Name)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return repo.Create(ctx, c)
}

func ensureCategory(ctx context.Context, repo repository.CostCategoryRepo, projectID, name string, budget float64) (*domain.CostCategory, bool, error) {
	existing, err := repo.GetByName(ctx, projectID, strings.TrimSpace(name))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	all, err := repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, false, err
	}
	c := &domain.CostCategory{ProjectID: projectID, Name: name, Budget: budget, OrderIndex: len(all)}
	if err := createCategory(ctx, repo, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}
