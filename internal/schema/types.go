package schema

// Column is one column as reported by the engine's introspection facility
type Column struct {
	Ordinal      int     // zero-based, contiguous within a table
	Name         string
	DeclaredType string  // raw declared type, may be empty
	NotNull      int     // 0 or 1 as reported by the engine
	DefaultValue *string // nil if the column has no default
	PrimaryKey   int     // 0 if not part of the key, otherwise its 1-based key position
}

// IsNotNull reports whether the column carries a NOT NULL constraint
func (c Column) IsNotNull() bool {
	return c.NotNull != 0
}

// IsPrimaryKey reports whether the column belongs to the primary key
func (c Column) IsPrimaryKey() bool {
	return c.PrimaryKey != 0
}

// Table is a table descriptor as it moves through extraction.
//
// The enumerator creates it with Name only. A nil Columns slice means the
// table has not been introspected; an empty one means it has no columns.
// Serialized is set by normalization and the table is not modified after.
type Table struct {
	Name       string
	Columns    []Column
	Serialized *TableDocument
}

// Introspected reports whether Columns has been populated
func (t *Table) Introspected() bool {
	return t.Columns != nil
}

// PrimaryKey returns the primary key column names in key order
func (t *Table) PrimaryKey() []string {
	var pk []string
	for pos := 1; pos <= len(t.Columns); pos++ {
		for _, col := range t.Columns {
			if col.PrimaryKey == pos {
				pk = append(pk, col.Name)
			}
		}
	}
	return pk
}

// TableDocument is the serialized form of one table
type TableDocument struct {
	Table   string           `json:"table" yaml:"table"`
	ColData []ColumnDocument `json:"col_data" yaml:"col_data"`
}

// ColumnDocument is the serialized form of one column
type ColumnDocument struct {
	ColumnName        string  `json:"column_name" yaml:"column_name"`
	DataType          string  `json:"data_type" yaml:"data_type"`
	DefaultColumnData *string `json:"default_column_data" yaml:"default_column_data"`
	NotNull           int     `json:"not_null" yaml:"not_null"`
	PrimaryKey        int     `json:"primary_key" yaml:"primary_key"`
}

// Document is the whole-schema output, one entry per table in discovery order
type Document []TableDocument

// TableNames returns the table names in document order
func (d Document) TableNames() []string {
	names := make([]string, len(d))
	for i, t := range d {
		names[i] = t.Table
	}
	return names
}

// Find returns the entry for the named table, or nil
func (d Document) Find(name string) *TableDocument {
	for i := range d {
		if d[i].Table == name {
			return &d[i]
		}
	}
	return nil
}

// PrimaryKey returns the primary key column names in key order
func (t *TableDocument) PrimaryKey() []string {
	var pk []string
	for pos := 1; pos <= len(t.ColData); pos++ {
		for _, col := range t.ColData {
			if col.PrimaryKey == pos {
				pk = append(pk, col.ColumnName)
			}
		}
	}
	return pk
}
