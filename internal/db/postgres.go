package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/schemadoc/internal/schema"
)

// DefaultPostgresSchema is used when no schema name is configured
const DefaultPostgresSchema = "public"

const (
	// pg_class oids grow with creation, which gives the catalog order
	postgresTablesQuery = `
		SELECT c.relname::text
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p')
		ORDER BY c.oid
	`

	// attnum keeps gaps left by dropped columns, so ordinals are renumbered.
	// format_type gives the declared type with its modifiers, e.g.
	// character varying(40) or numeric(10,2).
	postgresColumnsQuery = `
		SELECT
			(ROW_NUMBER() OVER (ORDER BY a.attnum) - 1)::int AS ordinal,
			a.attname::text,
			pg_catalog.format_type(a.atttypid, a.atttypmod),
			CASE WHEN a.attnotnull THEN 1 ELSE 0 END AS not_null,
			pg_catalog.pg_get_expr(d.adbin, d.adrelid),
			COALESCE(array_position(pk.conkey, a.attnum), 0)::int AS pk
		FROM pg_catalog.pg_attribute a
		JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_catalog.pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		LEFT JOIN pg_catalog.pg_constraint pk ON pk.conrelid = c.oid AND pk.contype = 'p'
		WHERE n.nspname = $1 AND c.relname = $2
			AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum
	`
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn   *pgx.Conn
	schema string
}

// NewPostgresClient creates a new PostgreSQL client scoped to schemaName
func NewPostgresClient(ctx context.Context, connString, schemaName string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, connectError("failed to connect to database", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, connectError("failed to ping database", err)
	}

	if schemaName == "" {
		schemaName = DefaultPostgresSchema
	}
	return &PostgresClient{conn: conn, schema: schemaName}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	return c.conn.Close(context.Background())
}

// TableNames lists ordinary and partitioned tables of the client's schema
func (c *PostgresClient) TableNames(ctx context.Context) ([]string, error) {
	rows, err := c.conn.Query(ctx, postgresTablesQuery, c.schema)
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

// TableInfo reads pg_attribute for table
func (c *PostgresClient) TableInfo(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := c.conn.Query(ctx, postgresColumnsQuery, c.schema, table)
	if err != nil {
		return nil, queryError(tableQueryMsg(table), err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var defaultVal *string

		if err := rows.Scan(&col.Ordinal, &col.Name, &col.DeclaredType, &col.NotNull, &defaultVal, &col.PrimaryKey); err != nil {
			return nil, queryError("scan column", err)
		}

		col.DefaultValue = defaultVal
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError(tableQueryMsg(table), err)
	}
	return columns, nil
}

// ExecScript runs script through the simple query protocol, which accepts
// several statements in one call
func (c *PostgresClient) ExecScript(ctx context.Context, script string) error {
	if _, err := c.conn.Exec(ctx, script, pgx.QueryExecModeSimpleProtocol); err != nil {
		return queryError("execute script", err)
	}
	return nil
}
