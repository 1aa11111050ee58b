package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/tordrt/schemadoc/internal/db"
	"github.com/tordrt/schemadoc/internal/errs"
	"github.com/tordrt/schemadoc/internal/schema"
)

// Filter transforms script text before it is executed
type Filter func(string) string

// FromScriptFile reads the schema script at path and extracts it with
// FromScript.
func FromScriptFile(ctx context.Context, path string, filter Filter, opts ...Option) (schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrKindNotFound, fmt.Sprintf("database script %s", path), err)
		}
		return nil, fmt.Errorf("failed to read database script: %w", err)
	}
	return FromScript(ctx, string(data), filter, opts...)
}

// FromScript executes script against a fresh in-memory SQLite database and
// extracts its document. The database exists only for the duration of the
// call. A script the engine rejects fails with the normalized script_failed
// error and no document; a timeout or cancellation is returned as is.
func FromScript(ctx context.Context, script string, filter Filter, opts ...Option) (schema.Document, error) {
	if filter != nil {
		script = filter(script)
	}

	client, err := db.NewMemorySQLiteClient(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	return scriptDocument(ctx, client, script, opts...)
}

func scriptDocument(ctx context.Context, engine db.Engine, script string, opts ...Option) (schema.Document, error) {
	e := New(engine, opts...)

	if err := engine.ExecScript(ctx, script); err != nil {
		if errs.IsTimeout(err) {
			return nil, err
		}
		e.log.DebugErr("database script rejected", err)
		return nil, errs.ScriptFailed()
	}

	return e.Document(ctx)
}
