package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemadoc/internal/schema"
)

// TextFormatter formats the document as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the document in compact text format
func (f *TextFormatter) Format(doc schema.Document) error {
	for i, table := range doc {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes a single table
func (f *TextFormatter) FormatTable(table schema.TableDocument) error {
	// Table header with primary key
	pkStr := ""
	if pk := table.PrimaryKey(); len(pk) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(pk, ", "))
	}
	if _, err := fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Table, pkStr); err != nil {
		return err
	}

	for _, col := range table.ColData {
		if _, err := fmt.Fprintf(f.writer, "  %s\n", f.formatColumn(col)); err != nil {
			return err
		}
	}

	return nil
}

func (f *TextFormatter) formatColumn(col schema.ColumnDocument) string {
	parts := []string{col.ColumnName + ":"}

	if col.DataType != "" {
		parts = append(parts, col.DataType)
	}

	if col.NotNull != 0 {
		parts = append(parts, "NOT NULL")
	}

	if col.DefaultColumnData != nil {
		parts = append(parts, fmt.Sprintf("DEFAULT %s", *col.DefaultColumnData))
	}

	return strings.Join(parts, " ")
}
