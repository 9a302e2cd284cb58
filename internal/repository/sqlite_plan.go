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

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(db db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: db}
}

const planColumns = `id, project_id, type, shared, created_at, updated_at`

// Ties on updated_at fall back to creation order, then insertion order.
const latestFirst = ` ORDER BY updated_at DESC, created_at DESC, rowid DESC`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.SchedulePlan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schedule_plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.ProjectID,
		string(p.Type),
		flag(p.Shared),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.SchedulePlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM schedule_plans WHERE id = ?`, id)
	return scanPlan(row, id)
}

func (r *SQLitePlanRepo) LatestByProjectAndType(ctx context.Context, projectID string, t domain.PlanType) (*domain.SchedulePlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM schedule_plans WHERE project_id = ? AND type = ?`+latestFirst+` LIMIT 1`,
		projectID, string(t))
	return scanPlan(row, projectID+"/"+string(t))
}

func (r *SQLitePlanRepo) LatestShared(ctx context.Context, projectID string) (*domain.SchedulePlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM schedule_plans WHERE project_id = ? AND type = ? AND shared = 1`+latestFirst+` LIMIT 1`,
		projectID, string(domain.PlanExecutive))
	return scanPlan(row, projectID+"/shared")
}

func (r *SQLitePlanRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.SchedulePlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM schedule_plans WHERE project_id = ?`+latestFirst, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.SchedulePlan
	for rows.Next() {
		p, err := scanPlan(rows, "")
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE schedule_plans SET updated_at = ? WHERE id = ?`, formatTimestamp(at), id)
	if err != nil {
		return fmt.Errorf("touching schedule plan: %w", err)
	}
	return requireAffected(res, "schedule plan", id)
}

// SetShared changes only the shared flag; updated_at and sibling plans are
// left as they are.
func (r *SQLitePlanRepo) SetShared(ctx context.Context, id string, shared bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE schedule_plans SET shared = ? WHERE id = ?`, flag(shared), id)
	if err != nil {
		return fmt.Errorf("updating shared flag: %w", err)
	}
	return requireAffected(res, "schedule plan", id)
}

func scanPlan(s scanner, key string) (*domain.SchedulePlan, error) {
	var p domain.SchedulePlan
	var typeStr, createdAtStr, updatedAtStr string
	var shared int

	err := s.Scan(&p.ID, &p.ProjectID, &typeStr, &shared, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule plan %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule plan: %w", err)
	}
	p.Type = domain.PlanType(typeStr)
	p.Shared = shared != 0

	var parseErr error
	p.CreatedAt, parseErr = parseTimestamp(createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = parseTimestamp(updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &p, nil
}
