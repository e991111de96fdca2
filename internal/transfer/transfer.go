// Package transfer moves catalog items in and out of files: spreadsheets
// for the admin workflow, CSV and YAML for seeding, and a Markdown table
// for publishing.
package transfer

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// Format is a file format.
type Format string

const (
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
)

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, bool) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "xlsx", "excel":
		return FormatXLSX, true
	case "csv":
		return FormatCSV, true
	case "yaml", "yml":
		return FormatYAML, true
	case "md", "markdown":
		return FormatMarkdown, true
	}
	return "", false
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "application/octet-stream"
}

// Importable reports whether items can be read back from the format.
func (f Format) Importable() bool {
	return f == FormatXLSX || f == FormatCSV || f == FormatYAML
}

// Export writes items of one kind in the given format.
func Export(w io.Writer, format Format, kind catalog.Kind, items []catalog.Item) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, kind, items)
	case FormatCSV:
		return WriteCSV(w, kind, items)
	case FormatYAML:
		return WriteYAML(w, items)
	case FormatMarkdown:
		return WriteMarkdown(w, kind, items)
	}
	return errors.NewValidationError("format", format, "unsupported export format")
}

// Import reads items of one kind. Items come back normalized with their
// kind set but not validated; run ValidateBatch before storing them.
func Import(r io.Reader, format Format, kind catalog.Kind) ([]catalog.Item, error) {
	var (
		items []catalog.Item
		err   error
	)
	switch format {
	case FormatXLSX:
		items, err = ReadXLSX(r, kind)
	case FormatCSV:
		items, err = ReadCSV(r, kind)
	case FormatYAML:
		items, err = ReadYAML(r)
	default:
		return nil, errors.NewValidationError("format", format, "unsupported import format")
	}
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Kind = kind
		items[i].Normalize()
	}
	return items, nil
}

// Filename builds an export file name such as tools_export_2025-01-02.xlsx.
func Filename(collection string, format Format, date string) string {
	return fmt.Sprintf("%s_export_%s.%s", collection, date, format)
}

// splitList splits a comma-separated cell, trimming blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}
