package migrate

import (
	"context"

	"github.com/danny270793/myorm/errs"
)

// Migration is one versioned schema change.
type Migration interface {
	// Number orders migrations and identifies them in the tracking table.
	Number() int
	// Name is recorded next to the number.
	Name() string
	Up(ctx context.Context, s *Schema) error
	Down(ctx context.Context, s *Schema) error
}

// Apply runs m.Up and then records m. It does not check WasApplied first.
func Apply(ctx context.Context, s *Schema, m Migration) error {
	if err := m.Up(ctx, s); err != nil {
		return &errs.MigrationError{Number: m.Number(), Name: m.Name(), Stage: errs.StageUp, Cause: err}
	}
	if err := s.RecordMigration(ctx, m.Number(), m.Name()); err != nil {
		return &errs.MigrationError{Number: m.Number(), Name: m.Name(), Stage: errs.StageRecord, Cause: err}
	}
	return nil
}

// WasApplied reports whether m has a tracking row.
func WasApplied(ctx context.Context, s *Schema, m Migration) (bool, error) {
	return s.IsMigrationApplied(ctx, m.Number())
}

// Revert runs m.Down. The tracking row is left in place.
func Revert(ctx context.Context, s *Schema, m Migration) error {
	if err := m.Down(ctx, s); err != nil {
		return &errs.MigrationError{Number: m.Number(), Name: m.Name(), Stage: errs.StageDown, Cause: err}
	}
	return nil
}
