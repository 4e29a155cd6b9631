// Package runlog defines the record kept for every restoration run.
package runlog

import (
	"crypto/rand"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// Run modes.
const (
	// ModeApply is the non-interactive pass: certain replacements only.
	ModeApply = "apply"
	// ModeReview is the full pass: certain replacements plus per-occurrence
	// decisions on uncertain ones.
	ModeReview = "review"
)

// Run sources.
const (
	SourceCLI = "cli"
	SourceAPI = "api"
	SourceMCP = "mcp"
)

// Run records one restoration pass over a text. Texts themselves are never
// stored, only their sizes and the replacement counters.
type Run struct {
	// ID is a ULID that uniquely identifies this run
	ID string `json:"id"`

	// Mode is ModeApply or ModeReview
	Mode string `json:"mode"`

	// Source names the surface that triggered the run: "cli", "api" or "mcp"
	Source string `json:"source"`

	// CharsIn is the input size in runes
	CharsIn int `json:"chars_in"`

	// CharsOut is the output size in runes
	CharsOut int `json:"chars_out"`

	// SureReplacements counts unconditional replacements
	SureReplacements int `json:"sure_replacements"`

	// Offered counts uncertain occurrences shown for a decision
	Offered int `json:"offered"`

	// Accepted counts confirmed uncertain replacements
	Accepted int `json:"accepted"`

	// Declined counts rejected uncertain occurrences
	Declined int `json:"declined"`

	// DurationMS is the wall-clock run time in milliseconds
	DurationMS int64 `json:"duration_ms"`

	// CreatedAt is the Unix timestamp when the run finished
	CreatedAt int64 `json:"created_at"`
}

// NewID generates a ULID for a new run.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ValidMode reports whether mode is a known run mode.
func ValidMode(mode string) bool {
	return mode == ModeApply || mode == ModeReview
}

// ValidSource reports whether source is a known run source.
func ValidSource(source string) bool {
	return source == SourceCLI || source == SourceAPI || source == SourceMCP
}

// CountChars returns the size of a text in runes, not bytes.
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}
