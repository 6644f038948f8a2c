package builder

import (
	"strings"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/query/sqlgen"
)

// UpdateBuilder builds UPDATE statements. A WHERE clause is not required;
// without one every row is updated.
type UpdateBuilder struct {
	filter
	table string
	set   *sqlgen.Row
}

// Table starts an UPDATE of table.
func Table(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table, set: sqlgen.NewRow()}
}

// Table returns the target table.
func (u *UpdateBuilder) Table() string {
	return u.table
}

// Set merges values into the SET list; later values overwrite earlier ones.
func (u *UpdateBuilder) Set(values *sqlgen.Row) *UpdateBuilder {
	u.set.Merge(values)
	return u
}

// SetMap merges a map into the SET list in lexical column order.
func (u *UpdateBuilder) SetMap(values map[string]interface{}) *UpdateBuilder {
	return u.Set(sqlgen.RowOf(values))
}

// SetValue sets a single column.
func (u *UpdateBuilder) SetValue(column string, value interface{}) *UpdateBuilder {
	u.set.Set(column, value)
	return u
}

// Where appends conditions.
func (u *UpdateBuilder) Where(conditions ...sqlgen.WhereCondition) *UpdateBuilder {
	u.add(conditions)
	return u
}

// ToPreparedStatement renders UPDATE t SET c = ?, … [WHERE …]. It fails with
// errs.ErrEmptyInput when nothing was set.
func (u *UpdateBuilder) ToPreparedStatement() (sqlgen.PreparedStatement, error) {
	columns := u.set.Columns()
	if len(columns) == 0 {
		return sqlgen.PreparedStatement{}, errs.EmptyInput("no data provided for UPDATE")
	}

	var params sqlgen.Params
	clauses := make([]string, len(columns))
	for i, col := range columns {
		v, _ := u.set.Get(col)
		clauses[i] = col + " = " + params.Add(v)
	}

	sql := "UPDATE " + u.table + " SET " + strings.Join(clauses, ", ") + u.render(&params)
	return sqlgen.PreparedStatement{SQL: sql, Params: params.Values()}, nil
}

var _ Query = (*UpdateBuilder)(nil)
