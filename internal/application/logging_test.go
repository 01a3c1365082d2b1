package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/example/attendance-portal/internal/persistence"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUnauthorized, "unauthorized"},
		{ErrAlreadyCheckedIn, "already_checked_in"},
		{ErrNotCheckedIn, "not_checked_in"},
		{ErrConflict, "conflict"},
		{fmt.Errorf("wrapped: %w", ErrNotFound), "not_found"},
		{&ValidationError{FieldErrors: map[string]string{"remarks": "required"}}, "validation"},
		{&StorageError{Op: "history", Err: errors.New("io")}, "storage"},
		{context.DeadlineExceeded, "canceled"},
		{errors.New("boom"), "unexpected"},
	}

	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestMapStoreError(t *testing.T) {
	t.Parallel()

	if mapStoreError("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if got := mapStoreError("op", persistence.ErrActiveSessionExists); !errors.Is(got, ErrAlreadyCheckedIn) {
		t.Fatalf("expected active-session conflict, got %v", got)
	}
	if got := mapStoreError("op", fmt.Errorf("insert: %w", persistence.ErrActiveSessionExists)); !errors.Is(got, ErrAlreadyCheckedIn) {
		t.Fatalf("expected wrapped conflict to map, got %v", got)
	}

	cause := errors.New("database is locked")
	var sErr *StorageError
	if got := mapStoreError("check in", cause); !errors.As(got, &sErr) || sErr.Op != "check in" || !errors.Is(got, cause) {
		t.Fatalf("expected StorageError, got %#v", got)
	}

	already := &StorageError{Op: "inner", Err: cause}
	if got := mapStoreError("outer", already); got != already {
		t.Fatalf("StorageError must not be double wrapped")
	}
}
