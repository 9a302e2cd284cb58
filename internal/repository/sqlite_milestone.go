package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
)

// SQLiteMilestoneRepo implements MilestoneRepo using a SQLite database.
type SQLiteMilestoneRepo struct {
	db db.DBTX
}

func NewSQLiteMilestoneRepo(db db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: db}
}

func (r *SQLiteMilestoneRepo) Create(ctx context.Context, m *domain.Milestone) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schedule_milestones (id, plan_id, label, scope, percentage, accumulated, start_date, end_date, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.PlanID,
		m.Label,
		m.Scope,
		m.Percentage,
		m.Accumulated,
		dateArg(m.StartDate),
		dateArg(m.EndDate),
		m.OrderIndex,
	)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) ListByPlan(ctx context.Context, planID string) ([]domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, plan_id, label, scope, percentage, accumulated, start_date, end_date, order_index
		FROM schedule_milestones WHERE plan_id = ? ORDER BY order_index, id`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var out []domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		var startStr, endStr sql.NullString
		if err := rows.Scan(&m.ID, &m.PlanID, &m.Label, &m.Scope, &m.Percentage, &m.Accumulated,
			&startStr, &endStr, &m.OrderIndex); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		if m.StartDate, err = scanDate("start_date", startStr); err != nil {
			return nil, err
		}
		if m.EndDate, err = scanDate("end_date", endStr); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return out, nil
}

func (r *SQLiteMilestoneRepo) DeleteByPlan(ctx context.Context, planID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_milestones WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("deleting milestones: %w", err)
	}
	return nil
}
