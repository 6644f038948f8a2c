// Package sqlgen renders schema DDL for migrations.
package sqlgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/danny270793/myorm/runtime/store"
	"github.com/danny270793/myorm/runtime/types"
)

// ColumnDefinition describes one column of a table being created.
type ColumnDefinition struct {
	Name          string
	Type          types.ColumnType
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	NotNull       bool
	Nullable      bool
	HasDefault    bool
	DefaultValue  interface{}
}

// SQL renders the column for SQLite.
func (d ColumnDefinition) SQL() string {
	return d.SQLFor(store.SQLite)
}

// SQLFor renders the column as it appears inside CREATE TABLE on the given
// provider. Unknown providers render as SQLite.
func (d ColumnDefinition) SQLFor(provider string) string {
	parts := []string{d.Name, columnType(provider, d)}

	if d.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if d.AutoIncrement {
		parts = append(parts, autoIncrement(provider))
	}
	if d.Unique {
		parts = append(parts, "UNIQUE")
	}
	if d.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if d.Nullable && !d.NotNull && !d.PrimaryKey {
		parts = append(parts, "NULL")
	}
	if d.HasDefault {
		parts = append(parts, "DEFAULT "+FormatDefault(d.DefaultValue))
	}

	return strings.Join(parts, " ")
}

// columnType maps a column to its storage type. SQLite uses the type's own
// affinity. MySQL and Postgres keep integer keys, store other numbers as
// doubles, and MySQL needs a bounded VARCHAR for indexed or defaulted text.
func columnType(provider string, d ColumnDefinition) string {
	switch provider {
	case store.MySQL, store.Postgres:
	default:
		return d.Type.SQLType()
	}

	switch d.Type {
	case types.Number:
		if d.PrimaryKey || d.AutoIncrement {
			return "INTEGER"
		}
		return "DOUBLE PRECISION"
	case types.Boolean:
		return "INTEGER"
	}
	if provider == store.MySQL && (d.PrimaryKey || d.Unique || d.HasDefault) {
		return "VARCHAR(255)"
	}
	return "TEXT"
}

func autoIncrement(provider string) string {
	switch provider {
	case store.MySQL:
		return "AUTO_INCREMENT"
	case store.Postgres:
		return "GENERATED BY DEFAULT AS IDENTITY"
	default:
		return "AUTOINCREMENT"
	}
}

// ColumnBuilder configures a single column. Every method returns the
// builder so constraints chain.
type ColumnBuilder struct {
	def *ColumnDefinition
}

// PrimaryKey marks the column as the primary key.
func (c *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	c.def.PrimaryKey = true
	return c
}

// AutoIncrement marks the column as engine-generated.
func (c *ColumnBuilder) AutoIncrement() *ColumnBuilder {
	c.def.AutoIncrement = true
	return c
}

// Unique adds a UNIQUE constraint.
func (c *ColumnBuilder) Unique() *ColumnBuilder {
	c.def.Unique = true
	return c
}

// NotNull adds a NOT NULL constraint.
func (c *ColumnBuilder) NotNull() *ColumnBuilder {
	c.def.NotNull = true
	return c
}

// Nullable renders an explicit NULL unless NotNull or PrimaryKey is also set.
func (c *ColumnBuilder) Nullable() *ColumnBuilder {
	c.def.Nullable = true
	return c
}

// Default sets the column default. The last call wins; nil renders DEFAULT NULL.
func (c *ColumnBuilder) Default(v interface{}) *ColumnBuilder {
	c.def.HasDefault = true
	c.def.DefaultValue = v
	return c
}

// Definition returns a copy of the accumulated definition.
func (c *ColumnBuilder) Definition() ColumnDefinition {
	return *c.def
}

// TableBuilder accumulates columns for a CREATE TABLE statement.
type TableBuilder struct {
	name     string
	provider string
	columns  []*ColumnDefinition
}

// NewTableBuilder starts a SQLite table definition.
func NewTableBuilder(name string) *TableBuilder {
	return NewTableBuilderFor(store.Dialect{Name: store.SQLite}, name)
}

// NewTableBuilderFor starts a table definition rendered for dialect.
func NewTableBuilderFor(dialect store.Dialect, name string) *TableBuilder {
	return &TableBuilder{name: name, provider: dialect.Name}
}

// Name returns the table name.
func (t *TableBuilder) Name() string {
	return t.name
}

// Column appends a column and returns its builder.
func (t *TableBuilder) Column(name string, typ types.ColumnType) *ColumnBuilder {
	def := &ColumnDefinition{Name: name, Type: typ}
	t.columns = append(t.columns, def)
	return &ColumnBuilder{def: def}
}

// Columns returns the column definitions in declaration order.
func (t *TableBuilder) Columns() []ColumnDefinition {
	out := make([]ColumnDefinition, len(t.columns))
	for i, def := range t.columns {
		out[i] = *def
	}
	return out
}

// ToSQL renders CREATE TABLE IF NOT EXISTS for the table.
func (t *TableBuilder) ToSQL() string {
	defs := make([]string, len(t.columns))
	for i, def := range t.columns {
		defs[i] = def.SQLFor(t.provider)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, strings.Join(defs, ", "))
}

// DropTableSQL renders DROP TABLE IF EXISTS for name.
func DropTableSQL(name string) string {
	return "DROP TABLE IF EXISTS " + name
}

// FormatDefault renders v as a DDL literal.
func FormatDefault(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return quote(types.FormatISO(val))
	case *time.Time:
		if val == nil {
			return "NULL"
		}
		return quote(types.FormatISO(*val))
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
