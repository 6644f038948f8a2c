package sqlgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danny270793/myorm/runtime/store"
	"github.com/danny270793/myorm/runtime/types"
)

func TestTableBuilderToSQL(t *testing.T) {
	tests := []struct {
		name     string
		build    func(*TableBuilder)
		expected string
	}{
		{
			name:     "bare column",
			build:    func(tb *TableBuilder) { tb.Column("id", types.Number) },
			expected: "CREATE TABLE IF NOT EXISTS users (id INTEGER)",
		},
		{
			name: "primary key autoincrement",
			build: func(tb *TableBuilder) {
				tb.Column("id", types.Number).AutoIncrement().PrimaryKey()
			},
			expected: "CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY AUTOINCREMENT)",
		},
		{
			name: "flag order is fixed",
			build: func(tb *TableBuilder) {
				tb.Column("email", types.String).NotNull().Unique().Default("x")
			},
			expected: "CREATE TABLE IF NOT EXISTS users (email TEXT UNIQUE NOT NULL DEFAULT 'x')",
		},
		{
			name: "nullable",
			build: func(tb *TableBuilder) {
				tb.Column("name", types.String).Nullable()
			},
			expected: "CREATE TABLE IF NOT EXISTS users (name TEXT NULL)",
		},
		{
			name: "nullable suppressed by not null",
			build: func(tb *TableBuilder) {
				tb.Column("name", types.String).Nullable().NotNull()
			},
			expected: "CREATE TABLE IF NOT EXISTS users (name TEXT NOT NULL)",
		},
		{
			name: "nullable suppressed by primary key",
			build: func(tb *TableBuilder) {
				tb.Column("id", types.Number).Nullable().PrimaryKey()
			},
			expected: "CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY)",
		},
		{
			name: "type mapping",
			build: func(tb *TableBuilder) {
				tb.Column("a", types.String)
				tb.Column("b", types.Number)
				tb.Column("c", types.Boolean)
				tb.Column("d", types.Date)
				tb.Column("e", types.ColumnType("blob"))
			},
			expected: "CREATE TABLE IF NOT EXISTS users (a TEXT, b INTEGER, c INTEGER, d TEXT, e TEXT)",
		},
		{
			name: "default last wins",
			build: func(tb *TableBuilder) {
				tb.Column("active", types.Boolean).NotNull().Default(false).Default(true)
			},
			expected: "CREATE TABLE IF NOT EXISTS users (active INTEGER NOT NULL DEFAULT 1)",
		},
		{
			name: "default null",
			build: func(tb *TableBuilder) {
				tb.Column("note", types.String).Default(nil)
			},
			expected: "CREATE TABLE IF NOT EXISTS users (note TEXT DEFAULT NULL)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := NewTableBuilder("users")
			tt.build(tb)
			assert.Equal(t, tt.expected, tb.ToSQL())
		})
	}
}

func TestTableBuilderPerDialect(t *testing.T) {
	build := func(tb *TableBuilder) {
		tb.Column("id", types.Number).PrimaryKey().AutoIncrement()
		tb.Column("email", types.String).Unique()
		tb.Column("bio", types.String).Nullable()
		tb.Column("price", types.Number).NotNull()
		tb.Column("inStock", types.Boolean).Default(true)
		tb.Column("createdAt", types.Date).Default("2024-01-01T00:00:00.000Z")
	}

	tests := []struct {
		provider string
		expected string
	}{
		{
			provider: "sqlite",
			expected: "CREATE TABLE IF NOT EXISTS products (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT UNIQUE, bio TEXT NULL, price INTEGER NOT NULL, inStock INTEGER DEFAULT 1, createdAt TEXT DEFAULT '2024-01-01T00:00:00.000Z')",
		},
		{
			provider: "mysql",
			expected: "CREATE TABLE IF NOT EXISTS products (id INTEGER PRIMARY KEY AUTO_INCREMENT, email VARCHAR(255) UNIQUE, bio TEXT NULL, price DOUBLE PRECISION NOT NULL, inStock INTEGER DEFAULT 1, createdAt VARCHAR(255) DEFAULT '2024-01-01T00:00:00.000Z')",
		},
		{
			provider: "postgresql",
			expected: "CREATE TABLE IF NOT EXISTS products (id INTEGER PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY, email TEXT UNIQUE, bio TEXT NULL, price DOUBLE PRECISION NOT NULL, inStock INTEGER DEFAULT 1, createdAt TEXT DEFAULT '2024-01-01T00:00:00.000Z')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := store.DialectFor(tt.provider)
			require.NoError(t, err)
			tb := NewTableBuilderFor(d, "products")
			build(tb)
			assert.Equal(t, tt.expected, tb.ToSQL())
		})
	}

	def := NewTableBuilder("t").Column("a", types.Number).Definition()
	assert.Equal(t, "a INTEGER", def.SQL())
	assert.Equal(t, "a DOUBLE PRECISION", def.SQLFor(store.Postgres))
}

func TestFormatDefault(t *testing.T) {
	at := time.Date(2024, 4, 17, 10, 30, 0, 5_000_000, time.FixedZone("X", 2*3600))

	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "'hello'"},
		{"embedded quote", "it's", "'it''s'"},
		{"true", true, "1"},
		{"false", false, "0"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"time", at, "'2024-04-17T08:30:00.005Z'"},
		{"time pointer", &at, "'2024-04-17T08:30:00.005Z'"},
		{"nil time pointer", (*time.Time)(nil), "NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDefault(tt.value))
		})
	}
}

func TestColumnsAndDefinition(t *testing.T) {
	tb := NewTableBuilder("posts")
	assert.Equal(t, "posts", tb.Name())

	id := tb.Column("id", types.Number).PrimaryKey()
	tb.Column("title", types.String).NotNull()

	cols := tb.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, types.Number, cols[0].Type)
	assert.True(t, cols[0].PrimaryKey)
	assert.Equal(t, "title", cols[1].Name)
	assert.True(t, cols[1].NotNull)

	// flags set after Columns() are reflected in later renders
	id.AutoIncrement()
	assert.True(t, id.Definition().AutoIncrement)
	assert.False(t, cols[0].AutoIncrement)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS posts (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL)", tb.ToSQL())
}

func TestDropTableSQL(t *testing.T) {
	assert.Equal(t, "DROP TABLE IF EXISTS users", DropTableSQL("users"))
}
