package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/schemadoc/internal/schema"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Formatter renders a schema document
type Formatter interface {
	Format(doc schema.Document) error
}

// New returns the formatter for format writing to w
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONFormatter(w), nil
	case FormatYAML:
		return NewYAMLFormatter(w), nil
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'json', 'yaml', 'text' or 'markdown')", format)
	}
}

// Extension returns the file extension used for format
func Extension(format string) string {
	switch format {
	case FormatYAML:
		return ".yaml"
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	default:
		return ".json"
	}
}

// ContentType returns the MIME type used when uploading format
func ContentType(format string) string {
	switch format {
	case FormatYAML:
		return "application/yaml"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/json"
	}
}
