package alias

import (
	"fatecdata/internal"
	"fatecdata/internal/util"
)

// DeriveTemplate collects the distinct space-normalized values of column in
// first-seen order as identity rows, the seed for a curated dictionary.
func DeriveTemplate(set internal.RecordSet, column string) ([]internal.AliasEntry, error) {
	if !set.HasColumn(column) {
		return nil, &internal.MissingColumnError{Column: column}
	}
	seen := map[string]struct{}{}
	out := []internal.AliasEntry{}
	for _, rec := range set.Records {
		raw, ok := rec[column]
		if !ok {
			return nil, &internal.MissingColumnError{Column: column}
		}
		value := util.NormalizeSpace(raw)
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, internal.AliasEntry{Alias: value, Canonical: value})
	}
	return out, nil
}

// TemplateSet lays out entries in the two-column dictionary shape.
func TemplateSet(entries []internal.AliasEntry) internal.RecordSet {
	set := internal.RecordSet{Columns: []string{AliasesColumn, CanonicalColumn}}
	for _, e := range entries {
		set.Records = append(set.Records, internal.Record{AliasesColumn: e.Alias, CanonicalColumn: e.Canonical})
	}
	return set
}

// Apply rewrites one column of a copy of set. Every value is space-normalized;
// values whose folded form is a dictionary key are replaced by the canonical label.
// Other columns are copied untouched.
func Apply(set internal.RecordSet, column string, m *Mapping) (internal.RecordSet, error) {
	if !set.HasColumn(column) {
		return internal.RecordSet{}, &internal.MissingColumnError{Column: column}
	}
	out := make([]internal.Record, 0, len(set.Records))
	for _, rec := range set.Records {
		raw, ok := rec[column]
		if !ok {
			return internal.RecordSet{}, &internal.MissingColumnError{Column: column}
		}
		next := rec.Clone()
		next[column] = util.NormalizeSpace(raw)
		if canonical, found := m.Lookup(raw); found {
			next[column] = canonical
		}
		out = append(out, next)
	}
	return set.WithRecords(out), nil
}
