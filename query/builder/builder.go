// Package builder provides fluent SELECT, INSERT, UPDATE and DELETE builders
// that render to a sqlgen.PreparedStatement.
//
// Configuration methods mutate the builder and return it for chaining.
// ToPreparedStatement only reads the configuration, so rendering the same
// builder twice yields identical output.
package builder

import (
	"github.com/danny270793/myorm/query/sqlgen"
)

// Query is implemented by every statement builder.
type Query interface {
	// Table returns the target table.
	Table() string
	// ToPreparedStatement renders the statement.
	ToPreparedStatement() (sqlgen.PreparedStatement, error)
}

// filter holds the WHERE conditions shared by Select, Update and Delete.
type filter struct {
	conditions []sqlgen.WhereCondition
}

func (f *filter) add(conditions []sqlgen.WhereCondition) {
	f.conditions = append(f.conditions, conditions...)
}

// Conditions returns a copy of the WHERE conditions in rendering order.
func (f *filter) Conditions() []sqlgen.WhereCondition {
	out := make([]sqlgen.WhereCondition, len(f.conditions))
	copy(out, f.conditions)
	return out
}

func (f *filter) render(params *sqlgen.Params) string {
	return sqlgen.RenderWhere(f.conditions, params)
}

// MustRender renders q and panics on error. Intended for tests and for
// statements known to be complete.
func MustRender(q Query) sqlgen.PreparedStatement {
	ps, err := q.ToPreparedStatement()
	if err != nil {
		panic(err)
	}
	return ps
}
