// Package errs defines the error taxonomy shared by the builders, the store
// handle, the migration layer and the model layer.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. The first four are the base taxonomy; the rest refine it.
var (
	// ErrEmptyInput is returned when a mutating builder has no rows or no fields to set.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotFound is returned when a lookup by identity finds no row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState is returned when an operation is not valid for the
	// current state of an entity or of the store handle.
	ErrInvalidState = errors.New("invalid state")

	// ErrStoreFailure is returned when the underlying engine rejects a statement.
	ErrStoreFailure = errors.New("store failure")

	// ErrHeterogeneousRows is returned by a multi-row INSERT whose rows do not
	// share the same column set.
	ErrHeterogeneousRows = errors.New("insert rows have different column sets")

	// ErrUniqueConstraint marks a store failure caused by a UNIQUE or PRIMARY KEY violation.
	ErrUniqueConstraint = errors.New("unique constraint violation")

	// ErrPartialMigration marks a migration whose schema change was applied
	// but whose tracking row was not recorded.
	ErrPartialMigration = errors.New("migration partially applied")
)

// ErrModelNotSaved is returned when deleting an entity that has no identity.
var ErrModelNotSaved = &StateError{Message: "Model not saved in database yet"}

// StateError is an ErrInvalidState with a specific message.
type StateError struct {
	Message string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return e.Message
}

// Is reports whether target is ErrInvalidState.
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// EmptyInput returns an ErrEmptyInput carrying msg.
func EmptyInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrEmptyInput, msg)
}

// InvalidState returns an ErrInvalidState with a formatted message.
func InvalidState(format string, args ...interface{}) error {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps an engine error together with the statement that caused it.
type StoreError struct {
	Op     string
	SQL    string
	Params []interface{}
	Cause  error
	Unique bool
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.SQL == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.SQL, e.Cause)
}

// Unwrap returns the engine error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is matches ErrStoreFailure, and ErrUniqueConstraint for uniqueness violations.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrStoreFailure:
		return true
	case ErrUniqueConstraint:
		return e.Unique
	}
	return false
}

// NotFoundError is returned when no row has the requested identity.
type NotFoundError struct {
	Table string
	ID    interface{}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s row with id %v", e.Table, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Migration stages reported by MigrationError.
const (
	StageUp     = "up"
	StageRecord = "record"
	StageDown   = "down"
)

// MigrationError reports a failed migration step. A failure in StageRecord
// means the schema change already happened; it is never retried.
type MigrationError struct {
	Number int
	Name   string
	Stage  string
	Cause  error
}

// Error implements the error interface.
func (e *MigrationError) Error() string {
	if e.Stage == StageRecord {
		return fmt.Sprintf("migration %d (%s) applied but not recorded: %v", e.Number, e.Name, e.Cause)
	}
	return fmt.Sprintf("migration %d (%s) failed during %s: %v", e.Number, e.Name, e.Stage, e.Cause)
}

// Unwrap returns the underlying failure.
func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// Is matches ErrPartialMigration for record-stage failures.
func (e *MigrationError) Is(target error) bool {
	return target == ErrPartialMigration && e.Stage == StageRecord
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUniqueConstraint reports whether err is a uniqueness violation.
func IsUniqueConstraint(err error) bool {
	return errors.Is(err, ErrUniqueConstraint)
}
