package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/akorchak/yodot/internal/errors"
	"github.com/akorchak/yodot/internal/runlog"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.YodotError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// InsertRun stores a finished run.
func InsertRun(db *sql.DB, r *runlog.Run) error {
	query := `
		INSERT INTO runs (
			id, mode, source, chars_in, chars_out,
			sure_replacements, offered, accepted, declined,
			duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		r.ID, r.Mode, r.Source, r.CharsIn, r.CharsOut,
		r.SureReplacements, r.Offered, r.Accepted, r.Declined,
		r.DurationMS, r.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetRun retrieves a run by its ULID.
func GetRun(db *sql.DB, id string) (*runlog.Run, error) {
	query := `
		SELECT id, mode, source, chars_in, chars_out,
			sure_replacements, offered, accepted, declined,
			duration_ms, created_at
		FROM runs
		WHERE id = ?
	`

	var r runlog.Run
	err := db.QueryRow(query, id).Scan(
		&r.ID, &r.Mode, &r.Source, &r.CharsIn, &r.CharsOut,
		&r.SureReplacements, &r.Offered, &r.Accepted, &r.Declined,
		&r.DurationMS, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &r, nil
}

// ListRuns retrieves runs newest first, optionally filtered by mode.
// Returns the page and the total row count for the same filter.
func ListRuns(db *sql.DB, mode string, limit, offset int) ([]runlog.Run, int, error) {
	var (
		where string
		args  []any
	)
	if mode != "" {
		where = " WHERE mode = ?"
		args = append(args, mode)
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM runs"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, mode, source, chars_in, chars_out,
			sure_replacements, offered, accepted, declined,
			duration_ms, created_at
		FROM runs` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var runs []runlog.Run
	for rows.Next() {
		var r runlog.Run
		if err := rows.Scan(
			&r.ID, &r.Mode, &r.Source, &r.CharsIn, &r.CharsOut,
			&r.SureReplacements, &r.Offered, &r.Accepted, &r.Declined,
			&r.DurationMS, &r.CreatedAt,
		); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return runs, total, nil
}

// PurgeRuns permanently deletes runs. If olderThanDays is non-nil, only runs
// created more than N days ago are deleted; otherwise all runs go.
func PurgeRuns(db *sql.DB, olderThanDays *int) (int, error) {
	query := "DELETE FROM runs"
	var args []any
	if olderThanDays != nil {
		cutoff := time.Now().Unix() - int64(*olderThanDays)*86400
		query += " WHERE created_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(affected), nil
}
