package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemadoc/internal/schema"
)

const memoryDSN = ":memory:"

const (
	sqliteTablesQuery = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY rowid
	`

	sqliteColumnsQuery = `
		SELECT cid, name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?)
		ORDER BY cid
	`
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db    *sql.DB
	owned bool
}

// NewSQLiteClient opens the database file at path
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, connectError("failed to open database", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, connectError("failed to ping database", err)
	}

	return &SQLiteClient{db: db, owned: true}, nil
}

// NewMemorySQLiteClient opens a fresh private in-memory database. The pool is
// pinned to a single connection: each new SQLite connection to ":memory:"
// would otherwise see its own empty database.
func NewMemorySQLiteClient(ctx context.Context) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, connectError("failed to open in-memory database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, connectError("failed to ping in-memory database", err)
	}

	return &SQLiteClient{db: db, owned: true}, nil
}

// WrapSQLite adapts a caller-owned handle. Close on the returned client does
// not close db.
func WrapSQLite(db *sql.DB) *SQLiteClient {
	return &SQLiteClient{db: db}
}

// Close closes the database connection if the client opened it
func (c *SQLiteClient) Close() error {
	if !c.owned {
		return nil
	}
	return c.db.Close()
}

// TableNames lists sqlite_master rows of type 'table' in creation order
func (c *SQLiteClient) TableNames(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, sqliteTablesQuery)
	if err != nil {
		return nil, queryError("list tables", err)
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, queryError("scan table name", err)
		}
		tableList = append(tableList, tableName)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError("list tables", err)
	}
	return tableList, nil
}

// TableInfo reads pragma table_info for table. SQLite returns no rows for a
// table that does not exist.
func (c *SQLiteClient) TableInfo(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := c.db.QueryContext(ctx, sqliteColumnsQuery, table)
	if err != nil {
		return nil, queryError(tableQueryMsg(table), err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var defaultValue sql.NullString

		if err := rows.Scan(&col.Ordinal, &col.Name, &col.DeclaredType, &col.NotNull, &defaultValue, &col.PrimaryKey); err != nil {
			return nil, queryError(fmt.Sprintf("scan column of %q", table), err)
		}

		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError(tableQueryMsg(table), err)
	}
	return columns, nil
}

// ExecScript executes every statement in script on the client's connection
func (c *SQLiteClient) ExecScript(ctx context.Context, script string) error {
	if _, err := c.db.ExecContext(ctx, script); err != nil {
		return queryError("execute script", err)
	}
	return nil
}
