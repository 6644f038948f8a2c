package builder

import (
	"github.com/danny270793/myorm/query/sqlgen"
)

// DeleteBuilder builds DELETE statements.
type DeleteBuilder struct {
	filter
	table string
}

// DeleteFrom starts a DELETE from table.
func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

// Table returns the target table.
func (d *DeleteBuilder) Table() string {
	return d.table
}

// Where appends conditions.
func (d *DeleteBuilder) Where(conditions ...sqlgen.WhereCondition) *DeleteBuilder {
	d.add(conditions)
	return d
}

// ToPreparedStatement renders DELETE FROM t [WHERE …].
func (d *DeleteBuilder) ToPreparedStatement() (sqlgen.PreparedStatement, error) {
	var params sqlgen.Params
	sql := "DELETE FROM " + d.table + d.render(&params)
	return sqlgen.PreparedStatement{SQL: sql, Params: params.Values()}, nil
}

var _ Query = (*DeleteBuilder)(nil)
