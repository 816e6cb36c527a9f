package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCancelled(t *testing.T) {
	err := Cancelled("take", context.DeadlineExceeded)
	if !IsCancelled(err) {
		t.Fatalf("expected cancelled error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline, got %v", err)
	}
	if err.Error() != "[CANCELLED] take cancelled: context deadline exceeded" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	wrapped := fmt.Errorf("consumer 1: %w", err)
	if !IsCancelled(wrapped) {
		t.Fatalf("expected IsCancelled to see through wrapping")
	}
	if !errors.Is(Cancelled("put", nil), context.Canceled) {
		t.Fatalf("expected nil cause to default to context.Canceled")
	}
}

func TestIsType(t *testing.T) {
	err := NewError(ErrValidation, "capacity must be positive").WithDetail("capacity", 0)
	if !IsType(err, ErrValidation) || IsType(err, ErrCancelled) {
		t.Fatalf("unexpected type match for %v", err)
	}
	if err.Details["capacity"] != 0 {
		t.Fatalf("expected detail to be recorded")
	}
	if IsType(errors.New("plain"), ErrValidation) {
		t.Fatalf("plain errors have no type")
	}
}
