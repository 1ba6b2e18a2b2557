// Package alias turns free-text scraped labels into a canonical vocabulary
// using a human-curated two-column dictionary (aliases, canonical).
package alias

import (
	"fmt"
	"sort"
	"strings"

	"fatecdata/internal"
	"fatecdata/internal/util"
)

const (
	AliasesColumn   = "aliases"
	CanonicalColumn = "canonical"
)

type DuplicatePolicy int

const (
	LastWriteWins DuplicatePolicy = iota
	RejectDuplicates
)

// Duplicate records one conflicting overwrite of an alias key.
type Duplicate struct {
	Key         string
	Previous    string
	Canonical   string
	PreviousRow int
	Row         int
}

type DuplicateAliasError struct {
	Duplicate
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("alias %q maps to %q (row %d) and %q (row %d)", e.Key, e.Previous, e.PreviousRow, e.Canonical, e.Row)
}

type Option func(*options)

type options struct {
	policy DuplicatePolicy
}

func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.policy = p }
}

// Mapping is read-only once built.
type Mapping struct {
	entries    map[string]string
	rows       map[string]int
	Duplicates []Duplicate
	Skipped    int
}

func NewMapping() *Mapping {
	return &Mapping{entries: map[string]string{}, rows: map[string]int{}}
}

func (m *Mapping) Lookup(raw string) (string, bool) {
	if m == nil {
		return "", false
	}
	canonical, ok := m.entries[util.FoldKey(raw)]
	return canonical, ok
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the mapping sorted by key.
func (m *Mapping) Entries() []internal.AliasEntry {
	if m == nil {
		return nil
	}
	out := make([]internal.AliasEntry, 0, len(m.entries))
	for k, v := range m.entries {
		out = append(out, internal.AliasEntry{Alias: k, Canonical: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out
}

// Canonicals returns the distinct canonical values in key order.
func (m *Mapping) Canonicals() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, e := range m.Entries() {
		if _, ok := seen[e.Canonical]; ok {
			continue
		}
		seen[e.Canonical] = struct{}{}
		out = append(out, e.Canonical)
	}
	return out
}

// BuildMapping reads dictionary rows into an upper-cased alias key -> canonical map.
// Header names are matched case-insensitively; when missing, the first and second
// columns are used. Rows with a blank alias are skipped.
func BuildMapping(dict internal.RecordSet, opts ...Option) (*Mapping, error) {
	o := options{policy: LastWriteWins}
	for _, opt := range opts {
		opt(&o)
	}

	aliasCol, canonCol, err := dictionaryColumns(dict.Columns)
	if err != nil {
		return nil, err
	}

	m := NewMapping()
	for i, row := range dict.Records {
		rowNo := i + 1
		alias := util.NormalizeSpace(row[aliasCol])
		canonical := util.NormalizeSpace(row[canonCol])
		key := strings.ToUpper(alias)
		if key == "" {
			m.Skipped++
			continue
		}

		if prev, exists := m.entries[key]; exists && prev != canonical {
			dup := Duplicate{Key: key, Previous: prev, Canonical: canonical, PreviousRow: m.rows[key], Row: rowNo}
			if o.policy == RejectDuplicates {
				return nil, &DuplicateAliasError{Duplicate: dup}
			}
			m.Duplicates = append(m.Duplicates, dup)
		}
		m.entries[key] = canonical
		m.rows[key] = rowNo
	}
	return m, nil
}

func dictionaryColumns(columns []string) (string, string, error) {
	aliasIdx, canonIdx := -1, -1
	for i, c := range columns {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case AliasesColumn:
			if aliasIdx < 0 {
				aliasIdx = i
			}
		case CanonicalColumn:
			if canonIdx < 0 {
				canonIdx = i
			}
		}
	}
	if aliasIdx < 0 {
		aliasIdx = firstOther(len(columns), canonIdx)
		if aliasIdx < 0 {
			return "", "", &internal.MissingColumnError{Column: AliasesColumn}
		}
	}
	if canonIdx < 0 {
		canonIdx = firstOther(len(columns), aliasIdx)
		if canonIdx < 0 {
			return "", "", &internal.MissingColumnError{Column: CanonicalColumn}
		}
	}
	return columns[aliasIdx], columns[canonIdx], nil
}

func firstOther(n, taken int) int {
	for i := 0; i < n; i++ {
		if i != taken {
			return i
		}
	}
	return -1
}
