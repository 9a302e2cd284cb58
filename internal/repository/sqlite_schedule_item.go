package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
)

// SQLiteScheduleItemRepo implements ScheduleItemRepo using a SQLite database.
type SQLiteScheduleItemRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleItemRepo(db db.DBTX) *SQLiteScheduleItemRepo {
	return &SQLiteScheduleItemRepo{db: db}
}

func (r *SQLiteScheduleItemRepo) Create(ctx context.Context, item *domain.ScheduleItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schedule_items (id, plan_id, category_id, start_date, end_date, order_index)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.PlanID,
		item.CategoryID,
		item.StartDate.Format(dateLayout),
		item.EndDate.Format(dateLayout),
		item.OrderIndex,
	)
	if err != nil {
		return fmt.Errorf("inserting schedule item: %w", err)
	}
	return nil
}

// ListByPlan returns the plan's items in order, with category name and budget
// resolved. Items whose category no longer exists keep empty values.
func (r *SQLiteScheduleItemRepo) ListByPlan(ctx context.Context, planID string) ([]domain.ScheduleItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.plan_id, i.category_id, i.start_date, i.end_date, i.order_index,
			COALESCE(c.name, ''), COALESCE(c.budget, 0)
		FROM schedule_items i
		LEFT JOIN cost_categories c ON c.id = i.category_id
		WHERE i.plan_id = ?
		ORDER BY i.order_index, i.id`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule items: %w", err)
	}
	defer rows.Close()

	var items []domain.ScheduleItem
	for rows.Next() {
		var it domain.ScheduleItem
		var startStr, endStr string
		if err := rows.Scan(&it.ID, &it.PlanID, &it.CategoryID, &startStr, &endStr, &it.OrderIndex,
			&it.CategoryName, &it.Budget); err != nil {
			return nil, fmt.Errorf("scanning schedule item: %w", err)
		}
		if it.StartDate, err = time.Parse(dateLayout, startStr); err != nil {
			return nil, fmt.Errorf("parsing start_date: %w", err)
		}
		if it.EndDate, err = time.Parse(dateLayout, endStr); err != nil {
			return nil, fmt.Errorf("parsing end_date: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule items: %w", err)
	}
	return items, nil
}

func (r *SQLiteScheduleItemRepo) DeleteByPlan(ctx context.Context, planID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_items WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("deleting schedule items: %w", err)
	}
	return nil
}
