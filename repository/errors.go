package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"droneDispatch/internal/apperr"
)

// ErrAssignConflict is returned when the drone is no longer available or the order is no
// longer pending at assignment time, typically because another dispatch got there first.
var ErrAssignConflict = fmt.Errorf("%w: drone or order changed concurrently", apperr.ErrConflict)

// tsLayout is fixed-width so stored timestamps sort lexically in time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
