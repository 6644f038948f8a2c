package migrate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/danny270793/myorm/internal/debug"
)

// Status is the applied state of one known migration.
type Status struct {
	Number    int
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies a set of migrations in ascending number order.
type Migrator struct {
	schema     *Schema
	migrations []Migration
}

// NewMigrator returns a migrator for ms. Duplicate numbers are rejected.
func NewMigrator(schema *Schema, ms ...Migration) (*Migrator, error) {
	seen := make(map[int]string, len(ms))
	for _, m := range ms {
		if other, ok := seen[m.Number()]; ok {
			return nil, fmt.Errorf("duplicate migration number %d: %s and %s", m.Number(), other, m.Name())
		}
		seen[m.Number()] = m.Name()
	}

	sorted := make([]Migration, len(ms))
	copy(sorted, ms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number() < sorted[j].Number()
	})

	return &Migrator{schema: schema, migrations: sorted}, nil
}

// Sorted returns the migrations in application order.
func (m *Migrator) Sorted() []Migration {
	out := make([]Migration, len(m.migrations))
	copy(out, m.migrations)
	return out
}

// Pending returns the migrations without a tracking row.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	var pending []Migration
	for _, mig := range m.migrations {
		applied, err := WasApplied(ctx, m.schema, mig)
		if err != nil {
			return nil, err
		}
		if !applied {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration and returns the ones it applied. It
// stops at the first failure.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	debug.Debug("migrations to apply", "count", len(m.migrations))

	var applied []Migration
	for _, mig := range m.migrations {
		done, err := WasApplied(ctx, m.schema, mig)
		if err != nil {
			return applied, err
		}
		if done {
			debug.Debug("migration already applied", "number", mig.Number())
			continue
		}

		debug.Debug("applying migration", "number", mig.Number(), "name", mig.Name())
		if err := Apply(ctx, m.schema, mig); err != nil {
			debug.Error("migration failed", "number", mig.Number(), "error", err)
			return applied, err
		}
		applied = append(applied, mig)
	}
	return applied, nil
}

// Status reports every known migration with its tracking state.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	records, err := m.schema.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	appliedAt := make(map[int]time.Time, len(records))
	for _, r := range records {
		appliedAt[r.Number] = r.AppliedAt
	}

	out := make([]Status, 0, len(m.migrations))
	for _, mig := range m.migrations {
		at, ok := appliedAt[mig.Number()]
		out = append(out, Status{
			Number:    mig.Number(),
			Name:      mig.Name(),
			Applied:   ok,
			AppliedAt: at,
		})
	}
	return out, nil
}

// Down reverts the migration with the given number.
func (m *Migrator) Down(ctx context.Context, number int) (Migration, error) {
	for _, mig := range m.migrations {
		if mig.Number() != number {
			continue
		}
		debug.Debug("reverting migration", "number", number, "name", mig.Name())
		return mig, Revert(ctx, m.schema, mig)
	}
	return nil, fmt.Errorf("unknown migration number %d", number)
}
