package extract

import (
	"github.com/tordrt/schemadoc/internal/errs"
	"github.com/tordrt/schemadoc/internal/schema"
)

// Normalize builds the serialized form of an introspected table. Fields map
// one to one; flag values pass through as the engine reported them.
//
// A nil descriptor, an empty name or a table that was never introspected
// (nil Columns) is rejected with an invalid_input error. An empty column
// list is valid and yields an empty col_data.
func Normalize(table *schema.Table) (*schema.Table, error) {
	if table == nil || table.Name == "" {
		return nil, errs.InvalidInput("cannot normalize a table without a name")
	}
	if !table.Introspected() {
		return nil, errs.InvalidInput("cannot normalize table " + table.Name + " before introspection")
	}

	colData := make([]schema.ColumnDocument, len(table.Columns))
	for i, col := range table.Columns {
		colData[i] = schema.ColumnDocument{
			ColumnName:        col.Name,
			DataType:          col.DeclaredType,
			DefaultColumnData: copyString(col.DefaultValue),
			NotNull:           col.NotNull,
			PrimaryKey:        col.PrimaryKey,
		}
	}

	table.Serialized = &schema.TableDocument{
		Table:   table.Name,
		ColData: colData,
	}
	return table, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
