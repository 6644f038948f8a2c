// Package migrate applies numbered schema migrations and tracks which ones
// have run.
//
// A migration moves from unapplied to applied only through Apply, which runs
// Up and then records the migration number. The two steps are not atomic:
// when recording fails after Up succeeded, Apply returns an error matching
// errs.ErrPartialMigration and the caller must repair the state by hand.
// Revert runs Down but keeps the tracking row, so applying the same number
// again fails on the tracking table's unique constraint.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/danny270793/myorm/migrate/history"
	"github.com/danny270793/myorm/migrate/sqlgen"
	"github.com/danny270793/myorm/runtime/store"
)

// Schema runs DDL and owns the tracking table.
type Schema struct {
	exec    store.Executor
	dialect store.Dialect
	history *history.Manager
	now     func() time.Time
}

// NewSchema creates the tracking table if needed and returns a Schema over
// exec. DDL is rendered for exec's dialect.
func NewSchema(ctx context.Context, exec store.Executor) (*Schema, error) {
	s := &Schema{
		exec:    exec,
		dialect: store.DialectOf(exec),
		history: history.NewManager(exec),
		now:     time.Now,
	}
	if err := s.history.InitTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateTable builds a table definition with build and executes it.
func (s *Schema) CreateTable(ctx context.Context, name string, build func(*sqlgen.TableBuilder)) error {
	tb := sqlgen.NewTableBuilderFor(s.dialect, name)
	if build != nil {
		build(tb)
	}
	if len(tb.Columns()) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}
	if err := s.exec.Exec(ctx, tb.ToSQL()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

// DropTable drops name if it exists.
func (s *Schema) DropTable(ctx context.Context, name string) error {
	if err := s.exec.Exec(ctx, sqlgen.DropTableSQL(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	return nil
}

// IsMigrationApplied reports whether number has a tracking row.
func (s *Schema) IsMigrationApplied(ctx context.Context, number int) (bool, error) {
	return s.history.IsApplied(ctx, number)
}

// RecordMigration inserts the tracking row for number, stamped with the current time.
func (s *Schema) RecordMigration(ctx context.Context, number int, name string) error {
	return s.history.Record(ctx, number, name, s.now())
}

// AppliedMigrations returns every tracking row ordered by number.
func (s *Schema) AppliedMigrations(ctx context.Context) ([]history.MigrationRecord, error) {
	return s.history.GetAll(ctx)
}

// Executor returns the executor the schema runs against.
func (s *Schema) Executor() store.Executor {
	return s.exec
}
