package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
)

// SQLiteCostCategoryRepo implements CostCategoryRepo using a SQLite database.
type SQLiteCostCategoryRepo struct {
	db db.DBTX
}

func NewSQLiteCostCategoryRepo(db db.DBTX) *SQLiteCostCategoryRepo {
	return &SQLiteCostCategoryRepo{db: db}
}

const categoryColumns = `id, project_id, name, budget, order_index, created_at`

func (r *SQLiteCostCategoryRepo) Create(ctx context.Context, c *domain.CostCategory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cost_categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ProjectID, c.Name, c.Budget, c.OrderIndex, c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting cost category: %w", err)
	}
	return nil
}

func (r *SQLiteCostCategoryRepo) GetByID(ctx context.Context, id string) (*domain.CostCategory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM cost_categories WHERE id = ?`, id)
	return scanCategory(row, id)
}

// GetByName matches case-insensitively within one project.
func (r *SQLiteCostCategoryRepo) GetByName(ctx context.Context, projectID, name string) (*domain.CostCategory, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM cost_categories WHERE project_id = ? AND LOWER(name) = LOWER(?)`,
		projectID, name)
	return scanCategory(row, name)
}

func (r *SQLiteCostCategoryRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.CostCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM cost_categories WHERE project_id = ? ORDER BY order_index, name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing cost categories: %w", err)
	}
	defer rows.Close()

	var out []*domain.CostCategory
	for rows.Next() {
		c, err := scanCategory(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cost categories: %w", err)
	}
	return out, nil
}

func scanCategory(s scanner, key string) (*domain.CostCategory, error) {
	var c domain.CostCategory
	var createdAtStr string
	if err := s.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Budget, &c.OrderIndex, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cost category %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning cost category: %w", err)
	}
	created, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.CreatedAt = created
	return &c, nil
}
