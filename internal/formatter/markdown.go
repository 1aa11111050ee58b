package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemadoc/internal/schema"
)

// MarkdownFormatter formats the document as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the document in markdown format
func (f *MarkdownFormatter) Format(doc schema.Document) error {
	if _, err := fmt.Fprint(f.writer, "# Database Schema\n\n"); err != nil {
		return err
	}

	for _, table := range doc {
		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.TableDocument) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", table.Table)
	b.WriteString("### Columns\n\n")

	if len(table.ColData) == 0 {
		b.WriteString("_no columns_\n")
	}
	for _, col := range table.ColData {
		typeStr := col.DataType
		if typeStr == "" {
			typeStr = "(untyped)"
		}

		constraintStr := f.formatConstraints(col)
		if constraintStr != "" {
			fmt.Fprintf(&b, "- **%s:** %s, %s\n", col.ColumnName, typeStr, constraintStr)
		} else {
			fmt.Fprintf(&b, "- **%s:** %s\n", col.ColumnName, typeStr)
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(f.writer, b.String())
	return err
}

func (f *MarkdownFormatter) formatConstraints(col schema.ColumnDocument) string {
	var constraints []string

	if col.PrimaryKey != 0 {
		constraints = append(constraints, "PK")
	}

	if col.NotNull != 0 {
		constraints = append(constraints, "NOT NULL")
	}

	if col.DefaultColumnData != nil {
		constraints = append(constraints, fmt.Sprintf("DEFAULT %s", *col.DefaultColumnData))
	}

	return strings.Join(constraints, ", ")
}
