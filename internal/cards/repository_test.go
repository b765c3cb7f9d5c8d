package cards

import (
	"context"
	"errors"
	"testing"
)

// These cases exercise the pre-write guards, which return before any
// pool access.

func TestInsertManyEmptyBatch(t *testing.T) {
	repo := NewRepository(nil)

	_, err := repo.InsertMany(context.Background(), nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestInsertManyRejectsInvalidRecord(t *testing.T) {
	repo := NewRepository(nil)

	records := []Card{
		{Name: "Alice"},
		{Name: ""},
	}

	_, err := repo.InsertMany(context.Background(), records)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if vErr.Field != "name" {
		t.Errorf("error field = %q, want name", vErr.Field)
	}
}

func TestReplaceAllRejectsInvalidBatchBeforeTruncate(t *testing.T) {
	// A nil pool would panic on the truncate; the validation guard
	// must fire first.
	repo := NewRepository(nil)

	_, err := repo.ReplaceAll(context.Background(), []Card{{Name: ""}})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestReplaceAllEmptyBatch(t *testing.T) {
	repo := NewRepository(nil)

	_, err := repo.ReplaceAll(context.Background(), nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}
