package extract

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemadoc/internal/db"
	"github.com/tordrt/schemadoc/internal/errs"
	"github.com/tordrt/schemadoc/internal/schema"
)

const storeScript = `
	CREATE TABLE customers (
		id INTEGER PRIMARY KEY,
		first_name VARCHAR(40) NOT NULL,
		last_name VARCHAR(20) NOT NULL
	);

	CREATE TABLE invoices (
		id INTEGER PRIMARY KEY,
		customer_id INTERGER NOT NULL,
		total NUMERIC(10,2) NOT NULL,
		FOREIGN KEY (customer_id) REFERENCES customers (id)
	);
`

const storeDocument = `[
	{"table": "customers", "col_data": [
		{"column_name": "id", "data_type": "INTEGER", "default_column_data": null, "not_null": 0, "primary_key": 1},
		{"column_name": "first_name", "data_type": "VARCHAR(40)", "default_column_data": null, "not_null": 1, "primary_key": 0},
		{"column_name": "last_name", "data_type": "VARCHAR(20)", "default_column_data": null, "not_null": 1, "primary_key": 0}
	]},
	{"table": "invoices", "col_data": [
		{"column_name": "id", "data_type": "INTEGER", "default_column_data": null, "not_null": 0, "primary_key": 1},
		{"column_name": "customer_id", "data_type": "INTERGER", "default_column_data": null, "not_null": 1, "primary_key": 0},
		{"column_name": "total", "data_type": "NUMERIC(10,2)", "default_column_data": null, "not_null": 1, "primary_key": 0}
	]}
]`

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromScript(t *testing.T) {
	doc, err := FromScript(context.Background(), storeScript, nil)
	require.NoError(t, err)

	got, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, storeDocument, string(got))
}

func TestFromScriptFile(t *testing.T) {
	doc, err := FromScriptFile(context.Background(), writeScript(t, storeScript), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "invoices"}, doc.TableNames())
}

func TestFromScriptFileMissing(t *testing.T) {
	doc, err := FromScriptFile(context.Background(), filepath.Join(t.TempDir(), "missing.sql"), nil)
	assert.Nil(t, doc)
	assert.True(t, errs.IsNotFound(err), "got %v", err)
}

func TestFromScriptFilter(t *testing.T) {
	template := strings.ReplaceAll(storeScript, "customers", "{{prefix}}customers")

	var seen string
	filter := func(s string) string {
		seen = s
		return strings.ReplaceAll(s, "{{prefix}}", "crm_")
	}

	doc, err := FromScriptFile(context.Background(), writeScript(t, template), filter)
	require.NoError(t, err)
	assert.Equal(t, template, seen, "filter receives the full script text")
	assert.Equal(t, []string{"crm_customers", "invoices"}, doc.TableNames())
}

func TestFromScriptDeclarationOrder(t *testing.T) {
	script := `
		CREATE TABLE zeta (a INT);
		CREATE TABLE alpha (b INT);
		CREATE VIEW alpha_view AS SELECT b FROM alpha;
		CREATE TABLE mid (c INT, d TEXT DEFAULT 'x');
	`

	doc, err := FromScript(context.Background(), script, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.TableNames())

	mid := doc.Find("mid")
	require.NotNil(t, mid)
	require.NotNil(t, mid.ColData[1].DefaultColumnData)
	assert.Equal(t, "'x'", *mid.ColData[1].DefaultColumnData)
}

func TestFromScriptSyntaxError(t *testing.T) {
	script := storeScript + "\nCREATE TABLE broken (id INTEGER PRIMARY KEY,"

	doc, err := FromScript(context.Background(), script, nil)
	assert.Nil(t, doc, "no partial document on script failure")
	require.Error(t, err)
	assert.True(t, errs.IsScriptFailed(err), "got %v", err)
	assert.Equal(t, "[script_failed] "+errs.ScriptAborted, err.Error())

	var engineErr sqlite3.Error
	assert.False(t, errors.As(err, &engineErr), "engine error type must not leak")
}

func TestScriptDocumentTimeout(t *testing.T) {
	engine := storeEngine()
	engine.execErr = errs.Wrap(errs.ErrKindTimeout, "execute script", context.DeadlineExceeded)

	doc, err := scriptDocument(context.Background(), engine, storeScript)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errs.IsTimeout(err), "got %v", err)
	assert.False(t, errs.IsScriptFailed(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, engine.queried)
}

func TestScriptDocumentEngineError(t *testing.T) {
	engine := storeEngine()
	engine.execErr = errs.Wrap(errs.ErrKindQueryFailed, "execute script", errors.New("near \"(\": syntax error"))

	doc, err := scriptDocument(context.Background(), engine, storeScript)
	assert.Nil(t, doc)
	assert.True(t, errs.IsScriptFailed(err), "got %v", err)
	assert.Empty(t, engine.queried)
}

func TestFromScriptCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromScript(ctx, storeScript, nil)
	require.Error(t, err)
	assert.True(t, errs.IsTimeout(err), "got %v", err)
}

func TestFromScriptEmptyDatabase(t *testing.T) {
	doc, err := FromScript(context.Background(), "-- nothing to create\n", nil)
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestFromScriptUsesFreshDatabase(t *testing.T) {
	_, err := FromScript(context.Background(), "CREATE TABLE first_run (a INT);", nil)
	require.NoError(t, err)

	doc, err := FromScript(context.Background(), "CREATE TABLE second_run (a INT);", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"second_run"}, doc.TableNames())
}

func TestDocumentOverSQLite(t *testing.T) {
	ctx := context.Background()
	client, err := db.NewMemorySQLiteClient(ctx)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.ExecScript(ctx, storeScript))

	seq, err := Tables(ctx, client)
	require.NoError(t, err)
	names := map[string]bool{}
	for table := range seq {
		names[table.Name] = true
	}
	assert.Equal(t, map[string]bool{"customers": true, "invoices": true}, names)

	table, err := Introspect(ctx, client, &schema.Table{Name: "invoices"})
	require.NoError(t, err)
	require.Len(t, table.Columns, 3)
	for i, col := range table.Columns {
		assert.Equal(t, i, col.Ordinal)
	}
	assert.Equal(t, "INTERGER", table.Columns[1].DeclaredType)

	doc, err := New(client).Document(ctx)
	require.NoError(t, err)
	got, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, storeDocument, string(got))
}
