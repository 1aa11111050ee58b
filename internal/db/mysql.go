package db

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/schemadoc/internal/errs"
	"github.com/tordrt/schemadoc/internal/schema"
)

const (
	// information_schema has no creation sequence; create_time is the closest
	mysqlTablesQuery = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY create_time, table_name
	`

	mysqlColumnsQuery = `
		SELECT
			c.ordinal_position - 1,
			c.column_name,
			c.column_type,
			CASE WHEN c.is_nullable = 'NO' THEN 1 ELSE 0 END,
			c.column_default,
			COALESCE(k.ordinal_position, 0)
		FROM information_schema.columns c
		LEFT JOIN information_schema.key_column_usage k
			ON k.table_schema = c.table_schema
			AND k.table_name = c.table_name
			AND k.column_name = c.column_name
			AND k.constraint_name = 'PRIMARY'
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db     *sql.DB
	schema string
}

// NewMySQLClient creates a new MySQL client. The DSN is parsed so that
// multi-statement scripts can be enabled; schemaName defaults to the DSN's
// database.
func NewMySQLClient(ctx context.Context, connString, schemaName string) (*MySQLClient, error) {
	cfg, err := ParseMySQLDSN(connString)
	if err != nil {
		return nil, err
	}
	if schemaName == "" {
		schemaName = cfg.DBName
	}
	if schemaName == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "no database selected in DSN")
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, connectError("failed to open database", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, connectError("failed to ping database", err)
	}

	return &MySQLClient{db: db, schema: schemaName}, nil
}

// ParseMySQLDSN parses a go-sql-driver DSN and turns on MultiStatements
func ParseMySQLDSN(connString string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid MySQL DSN", err)
	}
	cfg.MultiStatements = true
	return cfg, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// TableNames lists base tables of the client's database
func (c *MySQLClient) TableNames(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, mysqlTablesQuery, c.schema)
	if err != nil {
		return nil, queryError("list tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, queryError("scan table name", err)
		}
		tables = append(tables, tableName)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError("list tables", err)
	}
	return tables, nil
}

// TableInfo reads information_schema.columns for table
func (c *MySQLClient) TableInfo(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := c.db.QueryContext(ctx, mysqlColumnsQuery, c.schema, table)
	if err != nil {
		return nil, queryError(tableQueryMsg(table), err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Ordinal, &col.Name, &col.DeclaredType, &col.NotNull, &defaultVal, &col.PrimaryKey); err != nil {
			return nil, queryError("scan column", err)
		}

		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError(tableQueryMsg(table), err)
	}
	return columns, nil
}

// ExecScript executes a multi-statement script
func (c *MySQLClient) ExecScript(ctx context.Context, script string) error {
	if _, err := c.db.ExecContext(ctx, script); err != nil {
		return queryError("execute script", err)
	}
	return nil
}
