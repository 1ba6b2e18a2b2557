// Package tabular reads and writes record sets as CSV or XLSX.
package tabular

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fatecdata/internal"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

type Options struct {
	// Encoding names a WHATWG encoding label such as "windows-1252".
	// Empty means UTF-8 with an optional BOM.
	Encoding string
	// Delimiter overrides CSV delimiter sniffing.
	Delimiter rune
	// Sheet selects an XLSX worksheet; empty means the first one.
	Sheet string
}

type WriteOptions struct {
	Delimiter rune
	// BOM prefixes CSV output with a UTF-8 byte order mark.
	BOM   bool
	Sheet string
}

func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported table format: %s", path)
}

func Read(path string, opts Options) (internal.RecordSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return internal.RecordSet{}, err
	}
	set, err := Parse(content, path, opts)
	if err != nil {
		return internal.RecordSet{}, fmt.Errorf("read %s: %w", path, err)
	}
	return set, nil
}

// Parse decodes content according to the extension of name.
func Parse(content []byte, name string, opts Options) (internal.RecordSet, error) {
	format, err := FormatOf(name)
	if err != nil {
		return internal.RecordSet{}, err
	}
	if format == FormatXLSX {
		return ReadXLSX(bytes.NewReader(content), opts)
	}
	return ReadCSV(bytes.NewReader(content), opts)
}

func Write(path string, set internal.RecordSet, opts WriteOptions) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if format == FormatXLSX {
		return WriteXLSX(path, set, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, set, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// fromRows turns a header row plus data rows into a record set. Short rows are
// padded with empty cells; blank trailing cells beyond the header are ignored.
// Only rows with no cells at all are dropped; a row of empty or whitespace
// cells is still a record.
func fromRows(rows [][]string) (internal.RecordSet, error) {
	if len(rows) == 0 {
		return internal.RecordSet{}, nil
	}
	columns := headerNames(rows[0])
	set := internal.RecordSet{Columns: columns, Records: make([]internal.Record, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := make(internal.Record, len(columns))
		for c, name := range columns {
			if c < len(row) {
				rec[name] = row[c]
			} else {
				rec[name] = ""
			}
		}
		for c := len(columns); c < len(row); c++ {
			if strings.TrimSpace(row[c]) != "" {
				return internal.RecordSet{}, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(row), len(columns))
			}
		}
		set.Records = append(set.Records, rec)
	}
	return set, nil
}

// headerNames keeps header text as written. Blank headers become column_N and
// repeated ones get a .N suffix, so every column stays addressable.
func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]int{}
	for i, h := range raw {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

func toRow(set internal.RecordSet, rec internal.Record) []string {
	row := make([]string, len(set.Columns))
	for i, c := range set.Columns {
		row[i] = rec[c]
	}
	return row
}
