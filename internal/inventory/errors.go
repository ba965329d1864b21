package inventory

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Store implementations. The service translates
// them into the typed errors below, adding entity context.
var (
	// ErrRowNotFound is returned when a row does not exist
	ErrRowNotFound = errors.New("row not found")

	// ErrForeignKeyViolation is returned when the database rejects an
	// operation because of a foreign key constraint
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// ValidationError reports malformed or out-of-range input. The caller can
// recover by correcting the offending field.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s %s", e.Entity, e.Field, e.Reason)
}

// NotFoundError reports an identifier that does not resolve to a row.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ReferenceError reports a foreign key that does not resolve to an existing
// row.
type ReferenceError struct {
	Entity string
	Field  string
	ID     uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %s references supplier %d which does not exist", e.Entity, e.Field, e.ID)
}

// ConflictError reports a delete blocked by dependent rows.
type ConflictError struct {
	Entity     string
	ID         uint
	Dependents int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d is still referenced by %d medicine(s)", e.Entity, e.ID, e.Dependents)
}

// InfrastructureError reports a store or network failure. Potentially
// transient; callers may retry with unchanged input.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func infraErr(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}
