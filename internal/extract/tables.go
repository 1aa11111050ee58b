package extract

import (
	"context"
	"fmt"
	"iter"

	"github.com/tordrt/schemadoc/internal/db"
	"github.com/tordrt/schemadoc/internal/errs"
	"github.com/tordrt/schemadoc/internal/schema"
)

// Tables lists the user tables of engine as bare descriptors carrying only
// a name, in the engine's catalog order. The catalog is read before Tables
// returns, so engine errors surface here; descriptors are created as the
// sequence is consumed. An empty database yields an empty sequence.
func Tables(ctx context.Context, engine db.Engine) (iter.Seq[*schema.Table], error) {
	names, err := engine.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	return func(yield func(*schema.Table) bool) {
		for _, name := range names {
			if !yield(&schema.Table{Name: name}) {
				return
			}
		}
	}, nil
}

// Introspect populates the columns of table from the engine, preserving the
// engine's ordinal order. A table the engine does not know gets an empty,
// non-nil column list. A nil or nameless descriptor is rejected with an
// invalid_input error before any query runs.
func Introspect(ctx context.Context, engine db.Engine, table *schema.Table) (*schema.Table, error) {
	if table == nil || table.Name == "" {
		return nil, errs.InvalidInput("cannot introspect a table without a name")
	}

	columns, err := engine.TableInfo(ctx, table.Name)
	if err != nil {
		return nil, err
	}
	if columns == nil {
		columns = []schema.Column{}
	}

	if err := checkOrdinals(columns); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, fmt.Sprintf("introspect table %q", table.Name), err)
	}

	table.Columns = columns
	return table, nil
}

// checkOrdinals verifies ordinals run 0..n-1 in returned order
func checkOrdinals(columns []schema.Column) error {
	for i, col := range columns {
		if col.Ordinal != i {
			return fmt.Errorf("column %q has ordinal %d at position %d", col.Name, col.Ordinal, i)
		}
	}
	return nil
}
