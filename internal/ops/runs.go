package ops

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/akorchak/yodot/internal/db"
	"github.com/akorchak/yodot/internal/errors"
	"github.com/akorchak/yodot/internal/runlog"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// RecordRunInput contains parameters for the RecordRun operation.
type RecordRunInput struct {
	Mode             string // required: "apply" or "review"
	Source           string // required: "cli", "api" or "mcp"
	CharsIn          int
	CharsOut         int
	SureReplacements int
	Offered          int
	Accepted         int
	Declined         int
	Duration         time.Duration
}

// RecordRunOutput contains the result of the RecordRun operation.
type RecordRunOutput struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
}

// RecordRun journals a finished restoration run.
func RecordRun(database *sql.DB, input RecordRunInput) (*RecordRunOutput, error) {
	if !runlog.ValidMode(input.Mode) {
		return nil, errors.NewInvalidRequest("mode must be one of: apply, review")
	}
	if !runlog.ValidSource(input.Source) {
		return nil, errors.NewInvalidRequest("source must be one of: cli, api, mcp")
	}

	id, err := runlog.NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	run := &runlog.Run{
		ID:               id,
		Mode:             input.Mode,
		Source:           input.Source,
		CharsIn:          input.CharsIn,
		CharsOut:         input.CharsOut,
		SureReplacements: input.SureReplacements,
		Offered:          input.Offered,
		Accepted:         input.Accepted,
		Declined:         input.Declined,
		DurationMS:       input.Duration.Milliseconds(),
		CreatedAt:        time.Now().Unix(),
	}

	if err := db.InsertRun(database, run); err != nil {
		return nil, err
	}

	return &RecordRunOutput{ID: run.ID, CreatedAt: run.CreatedAt}, nil
}

// ListRunsInput contains parameters for the ListRuns operation.
type ListRunsInput struct {
	Mode   string // optional filter: "apply" or "review"
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// ListRunsOutput contains the result of the ListRuns operation.
type ListRunsOutput struct {
	Items      []runlog.Run `json:"items"`
	Pagination Pagination   `json:"pagination"`
	Sort       string       `json:"sort"`
}

// ListRuns retrieves journaled runs newest first with pagination.
func ListRuns(database *sql.DB, input ListRunsInput) (*ListRunsOutput, error) {
	if input.Mode != "" && !runlog.ValidMode(input.Mode) {
		return nil, errors.NewInvalidRequest("mode must be one of: apply, review")
	}

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	runs, total, err := db.ListRuns(database, input.Mode, limit, offset)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if runs == nil {
		runs = []runlog.Run{}
	}

	hasMore := offset+len(runs) < total

	return &ListRunsOutput{
		Items: runs,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}

// PurgeRunsInput contains parameters for the PurgeRuns operation.
type PurgeRunsInput struct {
	OlderThanDays *int // optional, only purge runs older than N days
}

// PurgeRunsOutput contains the result of the PurgeRuns operation.
type PurgeRunsOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// PurgeRuns permanently deletes journaled runs.
func PurgeRuns(database *sql.DB, input PurgeRunsInput) (*PurgeRunsOutput, error) {
	if input.OlderThanDays != nil && *input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must not be negative")
	}

	count, err := db.PurgeRuns(database, input.OlderThanDays)
	if err != nil {
		return nil, err
	}

	return &PurgeRunsOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, input.OlderThanDays),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count int, olderThanDays *int) string {
	if count == 0 {
		return "No runs to purge"
	}

	runWord := "run"
	if count > 1 {
		runWord = "runs"
	}

	msg := fmt.Sprintf("Permanently deleted %d %s", count, runWord)

	if olderThanDays != nil {
		msg += fmt.Sprintf(" (older than %d days)", *olderThanDays)
	}

	return msg
}
