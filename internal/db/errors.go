package db

import (
	"context"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemadoc/internal/errs"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	mysqlErrAccessDenied    = 1045
	mysqlErrUnknownDatabase = 1049
	mysqlErrTableAccess     = 1142
	mysqlErrConnRefused     = 2003
)

// queryError maps an engine error raised by a catalog, introspection or
// script query. Anything not recognised is a query failure.
func queryError(msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}
	if kind, ok := engineKind(err); ok {
		return errs.Wrap(kind, msg, err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

// connectError maps an error raised while opening or pinging an engine
func connectError(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}
	if kind, ok := engineKind(err); ok && kind == errs.ErrKindPermissionDenied {
		return errs.Wrap(kind, msg, err)
	}
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// engineKind recognises driver-specific errors that are not plain query
// failures
func engineKind(err error) (errs.ErrKind, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB:
			return errs.ErrKindConnectionFailed, true
		case sqlite3.ErrPerm, sqlite3.ErrAuth:
			return errs.ErrKindPermissionDenied, true
		}
		return 0, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return errs.ErrKindConnectionFailed, true
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "28", pgErr.Code == "42501":
			return errs.ErrKindPermissionDenied, true
		}
		return 0, false
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrAccessDenied, mysqlErrTableAccess:
			return errs.ErrKindPermissionDenied, true
		case mysqlErrConnRefused, mysqlErrUnknownDatabase:
			return errs.ErrKindConnectionFailed, true
		}
	}

	return 0, false
}

// tableQueryMsg names the table in an introspection error message
func tableQueryMsg(table string) string {
	return fmt.Sprintf("introspect table %q", table)
}
