package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/danny270793/myorm/errs"
)

const (
	mysqlDuplicateEntry    = 1062
	postgresUniqueViolated = "23505"
)

// wrapError turns an engine error into an *errs.StoreError.
func wrapError(op, query string, params []interface{}, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *errs.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &errs.StoreError{
		Op:     op,
		SQL:    query,
		Params: params,
		Cause:  err,
		Unique: isUniqueViolation(err),
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == postgresUniqueViolated
	}

	return false
}
