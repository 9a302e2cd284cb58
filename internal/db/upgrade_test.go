package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_MilestonesWithoutAccumulated simulates a database
// created before milestones stored their running total. Existing rows must
// survive and be backfilled per plan in order.
func TestMigrate_UpgradePath_MilestonesWithoutAccumulated(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacyStatements := []string{
		`CREATE TABLE projects (
			id TEXT PRIMARY KEY, short_id TEXT NOT NULL DEFAULT '', name TEXT NOT NULL,
			client TEXT NOT NULL DEFAULT '', created_at TEXT NOT NULL, updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE schedule_plans (
			id TEXT PRIMARY KEY, project_id TEXT NOT NULL, type TEXT NOT NULL,
			shared INTEGER NOT NULL DEFAULT 0, created_at TEXT NOT NULL, updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE schedule_milestones (
			id TEXT PRIMARY KEY, plan_id TEXT NOT NULL, label TEXT NOT NULL,
			scope TEXT NOT NULL DEFAULT '', percentage REAL NOT NULL DEFAULT 0,
			start_date TEXT, end_date TEXT, order_index INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'Casa', 'x', 'x')`,
		`INSERT INTO schedule_plans (id, project_id, type, created_at, updated_at) VALUES ('pl1', 'p1', 'executive', 'x', 'x')`,
		`INSERT INTO schedule_milestones (id, plan_id, label, percentage, order_index) VALUES ('m2', 'pl1', 'Second', 30, 1)`,
		`INSERT INTO schedule_milestones (id, plan_id, label, percentage, order_index) VALUES ('m1', 'pl1', 'First', 20, 0)`,
		`INSERT INTO schedule_milestones (id, plan_id, label, percentage, order_index) VALUES ('m3', 'pl1', 'Third', 50, 2)`,
	}
	for _, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	rows, err := db.Query(`SELECT id, accumulated FROM schedule_milestones ORDER BY order_index`)
	require.NoError(t, err)
	defer rows.Close()

	got := map[string]float64{}
	for rows.Next() {
		var id string
		var acc float64
		require.NoError(t, rows.Scan(&id, &acc))
		got[id] = acc
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, map[string]float64{"m1": 20, "m2": 50, "m3": 100}, got)

	// Running again leaves the backfilled values alone.
	require.NoError(t, Migrate(db))
}
