package formatter

import (
	"encoding/json"
	"io"

	"github.com/tordrt/schemadoc/internal/schema"
)

// JSONFormatter writes the document in its wire form
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes doc as indented JSON followed by a newline
func (f *JSONFormatter) Format(doc schema.Document) error {
	if doc == nil {
		doc = schema.Document{}
	}
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// FormatTable writes a single table entry
func (f *JSONFormatter) FormatTable(table schema.TableDocument) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}
