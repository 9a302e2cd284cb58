package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillAccumulated(db); err != nil {
		return fmt.Errorf("backfilling milestone accumulated percentages: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		client      TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS cost_categories (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		budget      REAL NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_cost_categories_name ON cost_categories(project_id, name)`,

	`CREATE TABLE IF NOT EXISTS schedule_plans (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		type        TEXT NOT NULL CHECK(type IN ('parametric','executive')),
		shared      INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_plans_project_type ON schedule_plans(project_id, type, updated_at)`,

	`CREATE TABLE IF NOT EXISTS schedule_items (
		id          TEXT PRIMARY KEY,
		plan_id     TEXT NOT NULL REFERENCES schedule_plans(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL CHECK(end_date >= start_date),
		order_index INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_items_plan ON schedule_items(plan_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS schedule_milestones (
		id          TEXT PRIMARY KEY,
		plan_id     TEXT NOT NULL REFERENCES schedule_plans(id) ON DELETE CASCADE,
		label       TEXT NOT NULL,
		scope       TEXT NOT NULL DEFAULT '',
		percentage  REAL NOT NULL DEFAULT 0,
		start_date  TEXT,
		end_date    TEXT,
		order_index INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_milestones_plan ON schedule_milestones(plan_id, order_index)`,

	// Running disbursement total, stored so read-only consumers need not recompute it.
	`ALTER TABLE schedule_milestones ADD COLUMN accumulated REAL NOT NULL DEFAULT -1`,
}

// migrateBackfillAccumulated fills accumulated for milestones written before
// the column existed (marked with -1), as the running sum per plan.
// Idempotent: plans without -1 rows are skipped.
func migrateBackfillAccumulated(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT plan_id FROM schedule_milestones WHERE accumulated < 0 ORDER BY plan_id`)
	if err != nil {
		return fmt.Errorf("listing plans to backfill: %w", err)
	}
	var planIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning plan id: %w", err)
		}
		planIDs = append(planIDs, id)
	}
	rows.Close()

	for _, planID := range planIDs {
		if _, err := db.ExecContext(ctx, `UPDATE schedule_milestones SET accumulated = (
				SELECT SUM(m2.percentage) FROM schedule_milestones m2
				WHERE m2.plan_id = schedule_milestones.plan_id
				AND m2.order_index <= schedule_milestones.order_index
			) WHERE plan_id = ?`, planID); err != nil {
			return fmt.Errorf("backfilling plan %s: %w", planID, err)
		}
	}
	return nil
}
