package application

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"remarks": "remarks are required"}}
	if got := withFields.Error(); got != "validation failed" {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	if (&ValidationError{}).HasErrors() {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	vErr := &ValidationError{}
	vErr.add("remarks", "remarks are required")
	if !vErr.HasErrors() || vErr.FieldErrors["remarks"] != "remarks are required" {
		t.Fatalf("expected add to record the field, got %#v", vErr.FieldErrors)
	}
}

func TestStateErrorsWrapTaxonomy(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrAlreadyCheckedIn, ErrConflict) {
		t.Fatalf("ErrAlreadyCheckedIn must be a conflict")
	}
	if !errors.Is(ErrNotCheckedIn, ErrNotFound) {
		t.Fatalf("ErrNotCheckedIn must be a not-found")
	}
	if errors.Is(ErrAlreadyCheckedIn, ErrNotFound) || errors.Is(ErrNotCheckedIn, ErrConflict) {
		t.Fatalf("state errors must not cross kinds")
	}
}

func TestStorageError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := &StorageError{Op: "check in", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatalf("expected StorageError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "check in") || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	var nilErr *StorageError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Fatalf("nil StorageError should be inert")
	}
}
