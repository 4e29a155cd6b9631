package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestYodotError_Error(t *testing.T) {
	err := &YodotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "run not found",
	}

	expected := "NOT_FOUND: run not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("text is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "text is required" {
		t.Errorf("Message = %q, want %q", err.Message, "text is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01ABC")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01ABC" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01ABC")
	}
}

func TestNewTextTooLarge(t *testing.T) {
	err := NewTextTooLarge(10 * 1024 * 1024)

	if err.Code != ErrTextTooLarge {
		t.Errorf("Code = %q, want %q", err.Code, ErrTextTooLarge)
	}
	if err.Status != 413 {
		t.Errorf("Status = %d, want 413", err.Status)
	}
	if err.Details["max_bytes"] != 10*1024*1024 {
		t.Errorf("Details[max_bytes] = %v, want %v", err.Details["max_bytes"], 10*1024*1024)
	}
}

func TestNewMissingDictionary(t *testing.T) {
	err := NewMissingDictionary("yo_sure", "/home/u/.yodot/yobase/yo_sure.txt")

	if err.Code != ErrMissingDictionary {
		t.Errorf("Code = %q, want %q", err.Code, ErrMissingDictionary)
	}
	if !strings.Contains(err.Message, "/home/u/.yodot/yobase/yo_sure.txt") {
		t.Errorf("Message %q does not name the path", err.Message)
	}
	// Both language lines must name the path so either can be shown alone.
	if !strings.Contains(err.MessageRu, "/home/u/.yodot/yobase/yo_sure.txt") {
		t.Errorf("MessageRu %q does not name the path", err.MessageRu)
	}
	if err.MessageRu == "" || !strings.Contains(err.MessageRu, "словарь") {
		t.Errorf("MessageRu = %q, want Russian text", err.MessageRu)
	}
	if err.Details["table"] != "yo_sure" {
		t.Errorf("Details[table] = %v, want %q", err.Details["table"], "yo_sure")
	}
}

func TestNewMalformedEntry(t *testing.T) {
	err := NewMalformedEntry("yo_sure", "word", "no marked letter")

	if err.Code != ErrMalformedEntry {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedEntry)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Details["entry"] != "word" {
		t.Errorf("Details[entry] = %v, want %q", err.Details["entry"], "word")
	}
}

func TestNewPatternCompile(t *testing.T) {
	err := NewPatternCompile(`[еж`, fmt.Errorf("missing closing ]"))

	if err.Code != ErrPatternCompile {
		t.Errorf("Code = %q, want %q", err.Code, ErrPatternCompile)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Details["expr"] != `[еж` {
		t.Errorf("Details[expr] = %v, want %q", err.Details["expr"], `[еж`)
	}
}

func TestNewBundleCorrupt(t *testing.T) {
	err := NewBundleCorrupt("/tmp/yobase.tar.xz", "hash mismatch for yo_sure.txt")

	if err.Code != ErrBundleCorrupt {
		t.Errorf("Code = %q, want %q", err.Code, ErrBundleCorrupt)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Original error should be stored in Details for logging
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Details should be empty but not nil
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if Is(err, ErrInvalidRequest) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-YodotError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-YodotError")
		}
	})

	t.Run("wrapped YodotError", func(t *testing.T) {
		inner := NewMissingDictionary("yo_unsure", "/x/yo_unsure.txt")
		wrapped := fmt.Errorf("load tables: %w", inner)
		if !Is(wrapped, ErrMissingDictionary) {
			t.Error("Is() = false, want true for wrapped YodotError")
		}
		if Is(wrapped, ErrNotFound) {
			t.Error("Is() = true, want false for wrong code on wrapped YodotError")
		}
	})
}
