package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemadoc/internal/schema"
)

const overviewName = "_overview"

// tableFormatter renders one document entry
type tableFormatter interface {
	FormatTable(table schema.TableDocument) error
}

// overviewEntry is one line of the machine-readable overview
type overviewEntry struct {
	Table      string   `json:"table" yaml:"table"`
	File       string   `json:"file" yaml:"file"`
	Columns    int      `json:"columns" yaml:"columns"`
	PrimaryKey []string `json:"primary_key" yaml:"primary_key"`
}

// MultiFileFormatter writes the document to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	if format == "" {
		format = FormatJSON
	}
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview plus one file per table
func (f *MultiFileFormatter) Format(doc schema.Document) error {
	if _, err := New(f.OutputFormat, io.Discard); err != nil {
		return err
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := f.TableFileNames(doc)
	if err := f.writeOverview(doc, names); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i, table := range doc {
		if err := f.writeTableFile(table, names[i]); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Table, err)
		}
	}

	return nil
}

// TableFileNames returns the file name of each table in doc, in document
// order. Names that collide once sanitized, ignoring case, get a numeric
// suffix.
func (f *MultiFileFormatter) TableFileNames(doc schema.Document) []string {
	ext := Extension(f.OutputFormat)
	used := map[string]bool{overviewName: true}
	names := make([]string, len(doc))
	for i := range doc {
		base := safeFileName(doc[i].Table)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name + ext
	}
	return names
}

// Files returns the names of every file Format writes for doc, overview first
func (f *MultiFileFormatter) Files(doc schema.Document) []string {
	return append([]string{overviewName + Extension(f.OutputFormat)}, f.TableFileNames(doc)...)
}

func (f *MultiFileFormatter) writeOverview(doc schema.Document, names []string) error {
	filename := filepath.Join(f.OutputDir, overviewName+Extension(f.OutputFormat))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	entries := make([]overviewEntry, len(doc))
	for i := range doc {
		entries[i] = overviewEntry{
			Table:      doc[i].Table,
			File:       names[i],
			Columns:    len(doc[i].ColData),
			PrimaryKey: doc[i].PrimaryKey(),
		}
	}

	switch f.OutputFormat {
	case FormatJSON:
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		return yaml.NewEncoder(file).Encode(entries)
	case FormatMarkdown:
		return f.writeMarkdownOverview(file, entries)
	default:
		return f.writeTextOverview(file, entries)
	}
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, entries []overviewEntry) error {
	var b strings.Builder
	b.WriteString("# Schema Overview\n\n")
	fmt.Fprintf(&b, "Each table has a corresponding file: `<table_name>%s`\n\n", Extension(f.OutputFormat))
	b.WriteString("## Tables\n\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s** (%d columns", e.Table, e.Columns)
		if len(e.PrimaryKey) > 0 {
			fmt.Fprintf(&b, ", PK: %s", strings.Join(e.PrimaryKey, ", "))
		}
		b.WriteString(")\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, entries []overviewEntry) error {
	var b strings.Builder
	b.WriteString("SCHEMA OVERVIEW\n")
	fmt.Fprintf(&b, "Each table has a file: <table_name>%s\n\n", Extension(f.OutputFormat))

	for _, e := range entries {
		fmt.Fprintf(&b, "%s (%d columns)\n", e.Table, e.Columns)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(table schema.TableDocument, name string) error {
	filename := filepath.Join(f.OutputDir, name)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return f.tableFormatter(file).FormatTable(table)
}

func (f *MultiFileFormatter) tableFormatter(w io.Writer) tableFormatter {
	switch f.OutputFormat {
	case FormatYAML:
		return NewYAMLFormatter(w)
	case FormatText:
		return NewTextFormatter(w)
	case FormatMarkdown:
		return NewMarkdownFormatter(w)
	default:
		return NewJSONFormatter(w)
	}
}

// safeFileName keeps table names from escaping the output directory
func safeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
	if name == "." || name == ".." || name == "" {
		name = "_" + name
	}
	return name
}
