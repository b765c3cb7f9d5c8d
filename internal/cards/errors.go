package cards

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when a bulk insert is invoked with
	// zero records.
	ErrEmptyBatch = errors.New("no records provided for insertion")

	// ErrNotFound is returned by single-entity lookups that match
	// nothing. An empty collection scan is not ErrNotFound.
	ErrNotFound = errors.New("card not found")

	// ErrStoreUnavailable wraps store-layer connectivity failures.
	// Never retried internally; callers decide.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// SchemaError means the tabular input is missing a column the
// normalizer cannot work without. Fatal to the whole load.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q not found in sheet", e.Column)
}

// ValidationError means a single record fails the canonical schema.
// Row-scoped: the row is skipped, the batch continues.
type ValidationError struct {
	Row    int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: field %q %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}
