package builder

import (
	"fmt"
	"strings"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/query/sqlgen"
)

// InsertBuilder builds INSERT statements of one or more rows.
type InsertBuilder struct {
	table string
	rows  []*sqlgen.Row
}

// Into starts an INSERT into table.
func Into(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Table returns the target table.
func (b *InsertBuilder) Table() string {
	return b.table
}

// Rows appends rows. The column list is the union of the rows' columns in
// first-seen order.
func (b *InsertBuilder) Rows(rows ...*sqlgen.Row) *InsertBuilder {
	for _, r := range rows {
		if r != nil {
			b.rows = append(b.rows, r)
		}
	}
	return b
}

// Values appends rows given as maps; each map's columns are taken in lexical order.
func (b *InsertBuilder) Values(rows ...map[string]interface{}) *InsertBuilder {
	for _, m := range rows {
		b.rows = append(b.rows, sqlgen.RowOf(m))
	}
	return b
}

// ToPreparedStatement renders INSERT INTO t (c1, …) VALUES (…), (…).
// It fails with errs.ErrEmptyInput without rows and with
// errs.ErrHeterogeneousRows when a row lacks a column another row has.
func (b *InsertBuilder) ToPreparedStatement() (sqlgen.PreparedStatement, error) {
	if len(b.rows) == 0 {
		return sqlgen.PreparedStatement{}, errs.EmptyInput("no data provided for INSERT")
	}

	columns := unionColumns(b.rows)
	if len(columns) == 0 {
		return sqlgen.PreparedStatement{}, errs.EmptyInput("no columns provided for INSERT")
	}
	for i, r := range b.rows {
		for _, col := range columns {
			if !r.Has(col) {
				return sqlgen.PreparedStatement{}, fmt.Errorf("%w: row %d has no value for column %q",
					errs.ErrHeterogeneousRows, i, col)
			}
		}
	}

	var params sqlgen.Params
	groups := make([]string, len(b.rows))
	for i, r := range b.rows {
		placeholders := make([]string, len(columns))
		for j, col := range columns {
			v, _ := r.Get(col)
			placeholders[j] = params.Add(v)
		}
		groups[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		b.table, strings.Join(columns, ", "), strings.Join(groups, ", "))

	return sqlgen.PreparedStatement{SQL: sql, Params: params.Values()}, nil
}

func unionColumns(rows []*sqlgen.Row) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, r := range rows {
		for _, col := range r.Columns() {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	return columns
}

var _ Query = (*InsertBuilder)(nil)
