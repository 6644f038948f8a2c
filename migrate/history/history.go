// Package history manages the migrations tracking table.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/danny270793/myorm/migrate/sqlgen"
	"github.com/danny270793/myorm/query/builder"
	querysql "github.com/danny270793/myorm/query/sqlgen"
	"github.com/danny270793/myorm/runtime/store"
	"github.com/danny270793/myorm/runtime/types"
)

// TableName is the name of the tracking table.
const TableName = "migrations"

// MigrationRecord is one row of the tracking table.
type MigrationRecord struct {
	ID        int64
	Number    int
	Name      string
	AppliedAt time.Time
}

// Manager reads and writes the tracking table.
type Manager struct {
	exec    store.Executor
	dialect store.Dialect
}

// NewManager creates a manager over exec, rendering DDL for exec's dialect.
func NewManager(exec store.Executor) *Manager {
	return &Manager{exec: exec, dialect: store.DialectOf(exec)}
}

// TableSQL returns the SQLite tracking table DDL.
func TableSQL() string {
	return TableSQLFor(store.Dialect{Name: store.SQLite})
}

// TableSQLFor returns the tracking table DDL for dialect.
func TableSQLFor(dialect store.Dialect) string {
	tb := sqlgen.NewTableBuilderFor(dialect, TableName)
	tb.Column("id", types.Number).PrimaryKey().AutoIncrement()
	tb.Column("migration_number", types.Number).Unique().NotNull()
	tb.Column("migration_name", types.String).NotNull()
	tb.Column("applied_at", types.Date).NotNull()
	return tb.ToSQL()
}

// InitTable creates the tracking table if it does not exist.
func (m *Manager) InitTable(ctx context.Context) error {
	if err := m.exec.Exec(ctx, TableSQLFor(m.dialect)); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// IsApplied reports whether a row exists for number.
func (m *Manager) IsApplied(ctx context.Context, number int) (bool, error) {
	ps, err := builder.From(TableName).
		Fields("COUNT(*) AS count").
		Where(querysql.Eq("migration_number", number)).
		ToPreparedStatement()
	if err != nil {
		return false, err
	}

	row, found, err := m.exec.QueryOne(ctx, ps)
	if err != nil {
		return false, fmt.Errorf("failed to query migration %d: %w", number, err)
	}
	if !found {
		return false, nil
	}
	return cast.ToInt64(row["count"]) > 0, nil
}

// Record inserts the tracking row for a migration. A second call for the
// same number fails on the table's unique constraint.
func (m *Manager) Record(ctx context.Context, number int, name string, at time.Time) error {
	row := querysql.NewRow().
		Set("migration_number", number).
		Set("migration_name", name).
		Set("applied_at", at)

	ps, err := builder.Into(TableName).Rows(row).ToPreparedStatement()
	if err != nil {
		return err
	}
	if _, err := m.exec.Execute(ctx, ps); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", number, err)
	}
	return nil
}

// GetAll returns every tracking row ordered by migration number.
func (m *Manager) GetAll(ctx context.Context) ([]MigrationRecord, error) {
	ps, err := builder.From(TableName).
		Fields("id", "migration_number", "migration_name", "applied_at").
		OrderBy("migration_number", "asc").
		ToPreparedStatement()
	if err != nil {
		return nil, err
	}

	rows, err := m.exec.Query(ctx, ps)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}

	records := make([]MigrationRecord, 0, len(rows))
	for _, row := range rows {
		record := MigrationRecord{
			ID:     cast.ToInt64(row["id"]),
			Number: cast.ToInt(row["migration_number"]),
			Name:   cast.ToString(row["migration_name"]),
		}
		switch at := row["applied_at"].(type) {
		case time.Time:
			record.AppliedAt = at
		case string:
			parsed, err := types.ParseISO(at)
			if err != nil {
				return nil, fmt.Errorf("migration %d has invalid applied_at %q: %w", record.Number, at, err)
			}
			record.AppliedAt = parsed
		}
		records = append(records, record)
	}
	return records, nil
}
