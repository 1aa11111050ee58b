// Package db adapts database engines to the introspection contract the
// extractor runs against.
//
// Every adapter answers the same three questions: which user tables exist
// (in the engine's catalog order), which columns a table has (in ordinal
// order), and whether a batch of DDL executes. Errors are returned as
// *errs.Error with the engine error preserved as the cause.
package db

import (
	"context"

	"github.com/tordrt/schemadoc/internal/schema"
)

// Engine is the connection contract schema extraction depends on
type Engine interface {
	// TableNames returns user-defined tables in catalog order. Views,
	// indexes and engine-internal tables are not included.
	TableNames(ctx context.Context) ([]string, error)

	// TableInfo returns the columns of table in ordinal order. An unknown
	// table yields no columns and no error.
	TableInfo(ctx context.Context, table string) ([]schema.Column, error)

	// ExecScript executes a batch of statements separated by terminators.
	ExecScript(ctx context.Context, script string) error
}

// Closer is an Engine holding a connection it is responsible for releasing
type Closer interface {
	Engine
	Close() error
}
