package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/query/sqlgen"
)

func openMemory(t *testing.T) *Handle {
	t.Helper()
	h, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	h, err := New(Config{DSN: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, StateNew, h.State())
	assert.Nil(t, h.DB())

	err = h.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errs.ErrInvalidState)

	require.NoError(t, h.Open(ctx))
	assert.Equal(t, StateReady, h.State())
	assert.NotNil(t, h.DB())
	assert.ErrorIs(t, h.Open(ctx), errs.ErrInvalidState)

	require.NoError(t, h.Close())
	assert.Equal(t, StateClosed, h.State())
	require.NoError(t, h.Close())

	_, err = h.Query(ctx, sqlgen.PreparedStatement{SQL: "SELECT 1"})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.ErrorIs(t, h.Open(ctx), errs.ErrInvalidState)
}

func TestUnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: "oracle"})
	assert.Error(t, err)
}

func TestExecuteQuery(t *testing.T) {
	ctx := context.Background()
	h := openMemory(t)

	require.NoError(t, h.Exec(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT UNIQUE, qty INTEGER)"))

	res, err := h.Execute(ctx, sqlgen.PreparedStatement{
		SQL:    "INSERT INTO items (name, qty) VALUES (?, ?)",
		Params: []interface{}{"bolt", 3},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LastInsertID)
	assert.Equal(t, int64(1), res.RowsAffected)

	res, err = h.Execute(ctx, sqlgen.PreparedStatement{
		SQL:    "INSERT INTO items (name, qty) VALUES (?, NULL)",
		Params: []interface{}{"nut"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.LastInsertID)

	rows, err := h.Query(ctx, sqlgen.PreparedStatement{SQL: "SELECT id, name, qty FROM items ORDER BY id"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"id": int64(1), "name": "bolt", "qty": int64(3)}, rows[0])
	assert.Nil(t, rows[1]["qty"])

	row, found, err := h.QueryOne(ctx, sqlgen.PreparedStatement{
		SQL:    "SELECT name FROM items WHERE id = ?",
		Params: []interface{}{2},
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "nut", row["name"])

	_, found, err = h.QueryOne(ctx, sqlgen.PreparedStatement{
		SQL:    "SELECT name FROM items WHERE id = ?",
		Params: []interface{}{99},
	})
	require.NoError(t, err)
	assert.False(t, found)

	empty, err := h.Query(ctx, sqlgen.PreparedStatement{SQL: "SELECT * FROM items WHERE qty > 100"})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPreparedStatementReuse(t *testing.T) {
	ctx := context.Background()
	h := openMemory(t)
	require.NoError(t, h.Exec(ctx, "CREATE TABLE kv (k TEXT, v INTEGER)"))

	stmt, err := h.Prepare(ctx, "INSERT INTO kv (k, v) VALUES (?, ?)")
	require.NoError(t, err)
	for i, k := range []string{"a", "b", "c"} {
		_, err := stmt.Run(ctx, k, i)
		require.NoError(t, err)
	}
	require.NoError(t, stmt.Close())
	assert.Equal(t, "INSERT INTO kv (k, v) VALUES (?, ?)", stmt.SQL())

	sel, err := h.Prepare(ctx, "SELECT k FROM kv WHERE v >= ? ORDER BY k")
	require.NoError(t, err)
	defer sel.Close()

	rows, err := sel.All(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []Row{{"k": "b"}, {"k": "c"}}, rows)

	first, found, err := sel.Get(ctx, 0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", first["k"])
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	h := openMemory(t)
	require.NoError(t, h.Exec(ctx, "CREATE TABLE u (email TEXT UNIQUE NOT NULL)"))

	insert := sqlgen.PreparedStatement{SQL: "INSERT INTO u (email) VALUES (?)", Params: []interface{}{"a@b.c"}}
	_, err := h.Execute(ctx, insert)
	require.NoError(t, err)

	_, err = h.Execute(ctx, insert)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStoreFailure)
	assert.ErrorIs(t, err, errs.ErrUniqueConstraint)

	var storeErr *errs.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, insert.SQL, storeErr.SQL)

	_, err = h.Execute(ctx, sqlgen.PreparedStatement{SQL: "INSERT INTO u (email) VALUES (NULL)"})
	assert.ErrorIs(t, err, errs.ErrStoreFailure)
	assert.NotErrorIs(t, err, errs.ErrUniqueConstraint)

	_, err = h.Query(ctx, sqlgen.PreparedStatement{SQL: "SELEC nonsense"})
	assert.ErrorIs(t, err, errs.ErrStoreFailure)

	err = h.Exec(ctx, "CREATE TABLE u (x TEXT)")
	assert.ErrorIs(t, err, errs.ErrStoreFailure)
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	h := openMemory(t)

	var order []string
	var seen []*QueryEvent
	h.Use(func(ctx context.Context, event *QueryEvent, next func() error) error {
		order = append(order, "outer")
		err := next()
		seen = append(seen, event)
		return err
	})
	h.Use(func(ctx context.Context, event *QueryEvent, next func() error) error {
		order = append(order, "inner")
		return next()
	})

	var timed []string
	h.Use(TimingHook(func(query string, d time.Duration) { timed = append(timed, query) }))

	var buf bytes.Buffer
	h.Use(LoggingHook(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	require.NoError(t, h.Exec(ctx, "CREATE TABLE t (a INTEGER)"))
	_, err := h.Execute(ctx, sqlgen.PreparedStatement{SQL: "INSERT INTO t (a) VALUES (?)", Params: []interface{}{5}})
	require.NoError(t, err)

	assert.Equal(t, []string{"outer", "inner", "outer", "inner"}, order)
	require.Len(t, seen, 2)
	assert.Equal(t, "INSERT INTO t (a) VALUES (?)", seen[1].Query)
	assert.Equal(t, []interface{}{5}, seen[1].Args)
	assert.NoError(t, seen[1].Error)
	assert.False(t, seen[1].End.Before(seen[1].Start))
	assert.Len(t, timed, 2)
	assert.Contains(t, buf.String(), "statement executed")

	err = h.Exec(ctx, "DROP TABLE missing")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "statement failed")
	assert.Error(t, seen[2].Error)
}

func TestDialects(t *testing.T) {
	tests := []struct {
		provider string
		name     string
		driver   string
	}{
		{"", SQLite, "sqlite3"},
		{"sqlite", SQLite, "sqlite3"},
		{"MySQL", MySQL, "mysql"},
		{"postgresql", Postgres, "postgres"},
		{"postgres", Postgres, "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := DialectFor(tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.driver, d.Driver)
		})
	}
}

type bareExecutor struct{ Executor }

func TestDialectOf(t *testing.T) {
	h, err := New(Config{Provider: "mysql"})
	require.NoError(t, err)
	assert.Equal(t, MySQL, DialectOf(h).Name)

	assert.Equal(t, SQLite, DialectOf(bareExecutor{}).Name)
}

func TestRebind(t *testing.T) {
	pg, err := DialectFor("postgres")
	require.NoError(t, err)
	sqlite, err := DialectFor("sqlite")
	require.NoError(t, err)

	q := "SELECT * FROM t WHERE a = ? AND b = '?' AND \"c?\" = ? OR d = NULL"
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = '?' AND \"c?\" = $2 OR d = NULL", pg.Rebind(q))
	assert.Equal(t, q, sqlite.Rebind(q))
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4)", pg.Rebind("INSERT INTO t (a, b) VALUES (?, ?), (?, ?)"))
	assert.Equal(t, "SELECT 'it''s ?' , $1", pg.Rebind("SELECT 'it''s ?' , ?"))
}

func TestEngineVersion(t *testing.T) {
	ctx := context.Background()
	h := openMemory(t)

	v, err := h.EngineVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Segments()[0])

	_, err = h.CheckEngineVersion(ctx, ">= 3.0.0")
	assert.NoError(t, err)

	_, err = h.CheckEngineVersion(ctx, ">= 99.0")
	assert.Error(t, err)

	_, err = h.CheckEngineVersion(ctx, "not a constraint")
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "new", StateNew.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
