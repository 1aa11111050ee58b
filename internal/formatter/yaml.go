package formatter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemadoc/internal/schema"
)

// YAMLFormatter writes the document as YAML with the same keys as JSON
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes doc as a YAML sequence
func (f *YAMLFormatter) Format(doc schema.Document) error {
	if doc == nil {
		doc = schema.Document{}
	}
	return f.encode(doc)
}

// FormatTable writes a single table entry
func (f *YAMLFormatter) FormatTable(table schema.TableDocument) error {
	return f.encode(table)
}

func (f *YAMLFormatter) encode(v interface{}) error {
	enc := yaml.NewEncoder(f.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
