package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Load reads a json5 filter file, then merges <name>.local.<ext> over it when present.
func Load(path string) (Spec, error) {
	var out Spec
	blob, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json5.Unmarshal(blob, &out); err != nil {
		return out, fmt.Errorf("parse filter spec %s: %w", path, err)
	}

	localPath := localName(path)
	localBlob, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localBlob) > 0 {
		var override Spec
		if err := json5.Unmarshal(localBlob, &override); err != nil {
			return out, fmt.Errorf("parse filter spec %s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
	}
	return out, nil
}

func localName(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}

// ParseFlag reads the CLI form "Column=value one|value two".
func ParseFlag(input string) (Field, error) {
	column, values, ok := strings.Cut(input, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return Field{}, fmt.Errorf("invalid filter %q, want Column=v1|v2", input)
	}
	f := Field{Column: column}
	for _, v := range strings.Split(values, "|") {
		if v = strings.TrimSpace(v); v != "" {
			f.Values = append(f.Values, v)
		}
	}
	return f, nil
}

// Merge appends fields to s; a field for a column already present
// extends its vector.
func (s Spec) Merge(fields ...Field) Spec {
	out := Spec{Fields: append([]Field(nil), s.Fields...)}
	for _, f := range fields {
		merged := false
		for i := range out.Fields {
			if out.Fields[i].Column == f.Column {
				out.Fields[i].Values = append(append([]string(nil), out.Fields[i].Values...), f.Values...)
				out.Fields[i].Multi = out.Fields[i].Multi || f.Multi
				out.Fields[i].Exact = out.Fields[i].Exact || f.Exact
				merged = true
				break
			}
		}
		if !merged {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// MarkMulti flags the named columns as comma separated lists.
func (s Spec) MarkMulti(columns ...string) Spec {
	return s.mark(columns, func(f *Field) { f.Multi = true })
}

// MarkExact switches the named columns to case-sensitive comparison.
func (s Spec) MarkExact(columns ...string) Spec {
	return s.mark(columns, func(f *Field) { f.Exact = true })
}

func (s Spec) mark(columns []string, set func(*Field)) Spec {
	out := Spec{Fields: append([]Field(nil), s.Fields...)}
	for _, c := range columns {
		for i := range out.Fields {
			if out.Fields[i].Column == c {
				set(&out.Fields[i])
			}
		}
	}
	return out
}
