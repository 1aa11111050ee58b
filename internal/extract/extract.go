// Package extract turns a connected database into a schema document.
//
// Extraction is a single sequential pass over one connection:
//
//	tables   := Tables(ctx, engine)        // catalog, names only
//	table    := Introspect(ctx, engine, t) // columns in ordinal order
//	table     = Normalize(table)           // serialized form
//
// Extractor.Document runs the three stages for every table and collects the
// serialized forms in discovery order. A stage that receives a malformed
// descriptor returns an invalid_input error and a nil table; the extractor
// drops that table from the document unless strict mode is enabled.
// Engine failures are never absorbed.
package extract

import (
	"context"
	"slices"

	"github.com/tordrt/schemadoc/internal/db"
	"github.com/tordrt/schemadoc/internal/errs"
	"github.com/tordrt/schemadoc/internal/logger"
	"github.com/tordrt/schemadoc/internal/schema"
)

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger used for per-table diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithStrict makes a malformed descriptor abort the whole extraction
func WithStrict(strict bool) Option {
	return func(e *Extractor) {
		e.strict = strict
	}
}

// WithTables restricts extraction to the named tables. Catalog order is kept
// and names missing from the catalog are ignored.
func WithTables(names []string) Option {
	return func(e *Extractor) {
		e.include = names
	}
}

// WithExcludedTables drops the named tables from extraction
func WithExcludedTables(names []string) Option {
	return func(e *Extractor) {
		e.exclude = names
	}
}

// Extractor aggregates the schema document of one engine. It is not safe
// for concurrent use; neither is the connection it reads from.
type Extractor struct {
	engine  db.Engine
	log     *logger.Logger
	strict  bool
	include []string
	exclude []string
}

// New creates an extractor reading from engine. The extractor never closes
// the engine.
func New(engine db.Engine, opts ...Option) *Extractor {
	e := &Extractor{
		engine: engine,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document extracts the schema document for every selected table
func (e *Extractor) Document(ctx context.Context) (schema.Document, error) {
	tables, err := Tables(ctx, e.engine)
	if err != nil {
		return nil, err
	}

	doc := schema.Document{}
	for table := range tables {
		if !e.selected(table.Name) {
			continue
		}

		extracted, err := e.extractTable(ctx, table)
		if err != nil {
			if errs.IsInvalidInput(err) && !e.strict {
				e.log.With().Str("table", table.Name).Logger().WarnErr("table skipped", err)
				continue
			}
			return nil, err
		}
		doc = append(doc, *extracted.Serialized)
	}

	e.log.Infof("extracted %d tables", len(doc))
	return doc, nil
}

// extractTable runs introspection and normalization for one table
func (e *Extractor) extractTable(ctx context.Context, bare *schema.Table) (*schema.Table, error) {
	table, err := Introspect(ctx, e.engine, bare)
	if err != nil {
		return nil, err
	}

	table, err = Normalize(table)
	if err != nil {
		return nil, err
	}

	e.log.With().
		Str("table", table.Name).
		Int("columns", len(table.Columns)).
		Logger().
		Debug("table normalized")
	return table, nil
}

func (e *Extractor) selected(name string) bool {
	if len(e.include) > 0 && !slices.Contains(e.include, name) {
		return false
	}
	return !slices.Contains(e.exclude, name)
}
