package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// Calendar dates are stored as TEXT in dateLayout; instants in
// timestampLayout, which is fixed width so ORDER BY on the column matches
// time order.
const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp also accepts RFC 3339 for rows written by hand.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

// dateArg is the bind value for an optional date column.
func dateArg(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(dateLayout)
}

// scanDate reads an optional date column; NULL and the empty string both mean unset.
func scanDate(col string, v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", col, err)
	}
	return &d, nil
}

// flag is SQLite's 0/1 encoding of a boolean column.
func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireAffected maps an UPDATE that touched nothing to domain.ErrNotFound.
func requireAffected(res sql.Result, what, id string) error {
	switch n, err := res.RowsAffected(); {
	case err != nil:
		return fmt.Errorf("checking %s update: %w", what, err)
	case n == 0:
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

// scanner is *sql.Row or *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
