package store

import (
	"context"
	"database/sql"
)

// Statement is a prepared statement bound to a Handle.
type Statement struct {
	handle *Handle
	stmt   *sql.Stmt
	query  string
}

// SQL returns the statement text as given to Prepare.
func (s *Statement) SQL() string {
	return s.query
}

// Run executes the statement and reports the last inserted identity.
func (s *Statement) Run(ctx context.Context, params ...interface{}) (Result, error) {
	var result Result
	err := s.handle.intercept(ctx, s.query, params, func() error {
		res, err := s.stmt.ExecContext(ctx, params...)
		if err != nil {
			return wrapError("run", s.query, params, err)
		}
		// drivers without LastInsertId support (lib/pq) leave the identity at zero
		if id, err := res.LastInsertId(); err == nil {
			result.LastInsertID = id
		}
		if n, err := res.RowsAffected(); err == nil {
			result.RowsAffected = n
		}
		return nil
	})
	return result, err
}

// All executes the statement and returns every row.
func (s *Statement) All(ctx context.Context, params ...interface{}) ([]Row, error) {
	var out []Row
	err := s.handle.intercept(ctx, s.query, params, func() error {
		rows, err := s.stmt.QueryContext(ctx, params...)
		if err != nil {
			return wrapError("all", s.query, params, err)
		}
		defer rows.Close()

		out, err = scanRows(rows)
		if err != nil {
			return wrapError("all", s.query, params, err)
		}
		return nil
	})
	return out, err
}

// Get executes the statement and returns the first row. The boolean is
// false when the statement produced no rows.
func (s *Statement) Get(ctx context.Context, params ...interface{}) (Row, bool, error) {
	var (
		row   Row
		found bool
	)
	err := s.handle.intercept(ctx, s.query, params, func() error {
		rows, err := s.stmt.QueryContext(ctx, params...)
		if err != nil {
			return wrapError("get", s.query, params, err)
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return wrapError("get", s.query, params, err)
		}
		if rows.Next() {
			row, err = scanRow(rows, columns)
			if err != nil {
				return wrapError("get", s.query, params, err)
			}
			found = true
		}
		if err := rows.Err(); err != nil {
			return wrapError("get", s.query, params, err)
		}
		return nil
	})
	return row, found, err
}

// Close releases the prepared statement.
func (s *Statement) Close() error {
	return s.stmt.Close()
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []Row{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanRow(rows *sql.Rows, columns []string) (Row, error) {
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = values[i]
	}
	return row, nil
}
