package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := New("TEST", "something failed", http.StatusBadRequest)
	if err.Error() != "something failed" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	wrapped := err.WithInternal(errors.New("boom"))
	if wrapped.Error() != "something failed: boom" {
		t.Fatalf("unexpected wrapped message: %q", wrapped.Error())
	}
}

func TestWrapKeepsInternal(t *testing.T) {
	inner := errors.New("disk full")
	err := Wrap(inner, "could not persist user")

	if !errors.Is(err, inner) {
		t.Fatal("expected wrapped error to unwrap to the internal error")
	}
	if err.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", err.StatusCode)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Fatal("expected nil for nil input")
	}

	appErr := NewConflict("email already exists")
	got := FromError(fmt.Errorf("outer: %w", appErr))
	if got.Code != ErrConflict.Code {
		t.Fatalf("expected conflict code, got %q", got.Code)
	}

	generic := FromError(errors.New("unknown"))
	if generic.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %q", generic.Code)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	derived := NewValidation("nickname must be at least 3 characters")
	if !errors.Is(derived, ErrValidation) {
		t.Fatal("expected derived validation error to match ErrValidation")
	}
	if errors.Is(derived, ErrConflict) {
		t.Fatal("validation error must not match conflict sentinel")
	}

	locked := ErrAccountLocked.WithInternal(errors.New("attempts=5"))
	if !errors.Is(locked, ErrAccountLocked) {
		t.Fatal("expected wrapped locked error to match sentinel")
	}
}
