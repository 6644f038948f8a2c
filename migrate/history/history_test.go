package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/runtime/store"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	h, err := store.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	m := NewManager(h)
	require.NoError(t, m.InitTable(context.Background()))
	return m
}

func TestTableSQL(t *testing.T) {
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS migrations (id INTEGER PRIMARY KEY AUTOINCREMENT, migration_number INTEGER UNIQUE NOT NULL, migration_name TEXT NOT NULL, applied_at TEXT NOT NULL)",
		TableSQL())
}

func TestTableSQLPerDialect(t *testing.T) {
	tests := []struct {
		provider string
		expected string
	}{
		{"sqlite", "CREATE TABLE IF NOT EXISTS migrations (id INTEGER PRIMARY KEY AUTOINCREMENT, migration_number INTEGER UNIQUE NOT NULL, migration_name TEXT NOT NULL, applied_at TEXT NOT NULL)"},
		{"mysql", "CREATE TABLE IF NOT EXISTS migrations (id INTEGER PRIMARY KEY AUTO_INCREMENT, migration_number DOUBLE PRECISION UNIQUE NOT NULL, migration_name TEXT NOT NULL, applied_at TEXT NOT NULL)"},
		{"postgres", "CREATE TABLE IF NOT EXISTS migrations (id INTEGER PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY, migration_number DOUBLE PRECISION UNIQUE NOT NULL, migration_name TEXT NOT NULL, applied_at TEXT NOT NULL)"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := store.DialectFor(tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, TableSQLFor(d))
		})
	}
}

type recordingExecutor struct {
	store.Executor
	dialect store.Dialect
	ddl     []string
}

func (r *recordingExecutor) Dialect() store.Dialect { return r.dialect }

func (r *recordingExecutor) Exec(_ context.Context, query string) error {
	r.ddl = append(r.ddl, query)
	return nil
}

func TestInitTableUsesExecutorDialect(t *testing.T) {
	mysql, err := store.DialectFor("mysql")
	require.NoError(t, err)
	exec := &recordingExecutor{dialect: mysql}

	require.NoError(t, NewManager(exec).InitTable(context.Background()))
	assert.Equal(t, []string{TableSQLFor(mysql)}, exec.ddl)
}

func TestInitTableIsIdempotent(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.InitTable(context.Background()))
	require.NoError(t, m.InitTable(context.Background()))
}

func TestRecordAndQuery(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	applied, err := m.IsApplied(ctx, 1)
	require.NoError(t, err)
	assert.False(t, applied)

	at := time.Date(2024, 4, 17, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.Record(ctx, 2, "CreateArticlesTable", at.Add(time.Hour)))
	require.NoError(t, m.Record(ctx, 1, "CreateUsersTable", at))

	applied, err = m.IsApplied(ctx, 1)
	require.NoError(t, err)
	assert.True(t, applied)

	records, err := m.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Number)
	assert.Equal(t, "CreateUsersTable", records[0].Name)
	assert.True(t, at.Equal(records[0].AppliedAt))
	assert.Equal(t, 2, records[1].Number)
	assert.NotZero(t, records[1].ID)
}

func TestRecordTwiceViolatesUniqueness(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	require.NoError(t, m.Record(ctx, 1, "CreateUsersTable", time.Now()))
	err := m.Record(ctx, 1, "CreateUsersTable", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStoreFailure)
	assert.ErrorIs(t, err, errs.ErrUniqueConstraint)

	records, err := m.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetAllEmpty(t *testing.T) {
	records, err := newManager(t).GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
