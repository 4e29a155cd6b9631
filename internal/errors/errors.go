package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a yodot error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrTextTooLarge      ErrorCode = "TEXT_TOO_LARGE"     // 413
	ErrMissingDictionary ErrorCode = "MISSING_DICTIONARY" // 500, fatal at startup
	ErrMalformedEntry    ErrorCode = "MALFORMED_ENTRY"    // never fatal, loader warnings only
	ErrPatternCompile    ErrorCode = "PATTERN_COMPILE"    // 500, internal invariant
	ErrBundleCorrupt     ErrorCode = "BUNDLE_CORRUPT"     // 422
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// YodotError represents a structured error with code, status, and details.
// MessageRu carries the Russian rendering for errors shown to end users;
// it is empty for purely programmatic errors.
type YodotError struct {
	Code      ErrorCode
	Status    int
	Message   string
	MessageRu string
	Details   map[string]any
}

// Error implements the error interface.
func (e *YodotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *YodotError {
	return &YodotError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing record.
func NewNotFound(identifier string) *YodotError {
	return &YodotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewTextTooLarge creates a 413 error when input exceeds the size limit.
func NewTextTooLarge(max int) *YodotError {
	return &YodotError{
		Code:    ErrTextTooLarge,
		Status:  413,
		Message: fmt.Sprintf("input exceeds the maximum size of %d bytes", max),
		Details: map[string]any{"max_bytes": max},
	}
}

// NewMissingDictionary creates the fatal error for an absent required word
// table. Both message lines name the path so the CLI can print them verbatim.
func NewMissingDictionary(table, path string) *YodotError {
	return &YodotError{
		Code:      ErrMissingDictionary,
		Status:    500,
		Message:   fmt.Sprintf("required dictionary %q is missing: %s", table, path),
		MessageRu: fmt.Sprintf("обязательный словарь %q не найден: %s", table, path),
		Details:   map[string]any{"table": table, "path": path},
	}
}

// NewMalformedEntry describes a dictionary line that was skipped during load.
func NewMalformedEntry(table, entry, reason string) *YodotError {
	return &YodotError{
		Code:    ErrMalformedEntry,
		Status:  422,
		Message: fmt.Sprintf("dictionary %q: skipped entry %q: %s", table, entry, reason),
		Details: map[string]any{"table": table, "entry": entry, "reason": reason},
	}
}

// NewPatternCompile creates a 500 error for a dictionary-derived expression
// that failed to compile. Dictionary text is quoted before compilation, so
// this indicates a broken invariant rather than bad input.
func NewPatternCompile(expr string, err error) *YodotError {
	return &YodotError{
		Code:    ErrPatternCompile,
		Status:  500,
		Message: fmt.Sprintf("pattern %q did not compile: %v", expr, err),
		Details: map[string]any{"expr": expr},
	}
}

// NewBundleCorrupt creates a 422 error for a dictionary bundle that failed
// verification.
func NewBundleCorrupt(path, reason string) *YodotError {
	return &YodotError{
		Code:    ErrBundleCorrupt,
		Status:  422,
		Message: fmt.Sprintf("bundle %s failed verification: %s", path, reason),
		Details: map[string]any{"path": path, "reason": reason},
	}
}

// NewInternal creates a 500 error for unexpected internal errors. The public
// message stays generic; the original error is kept in Details for logging.
func NewInternal(err error) *YodotError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &YodotError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is, or wraps, a YodotError with the given code.
func Is(err error, code ErrorCode) bool {
	var yErr *YodotError
	if stderrors.As(err, &yErr) {
		return yErr.Code == code
	}
	return false
}
