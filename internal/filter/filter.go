// Package filter selects records matching field-level inclusion vectors.
//
// A Spec is an explicit value: an empty vector accepts everything, non-empty
// vectors are ANDed. Matching folds case and whitespace unless a field asks for
// exact comparison.
package filter

import (
	"fatecdata/internal"
	"fatecdata/internal/util"
)

type Field struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
	// Multi marks cells holding a comma separated list; any item may match.
	Multi bool `json:"multi"`
	// Exact compares space-normalized values case-sensitively.
	Exact bool `json:"exact"`
}

type Spec struct {
	Fields []Field `json:"fields"`
}

// Active reports the fields that constrain anything.
func (s Spec) Active() []Field {
	out := []Field{}
	for _, f := range s.Fields {
		if len(f.Values) > 0 {
			out = append(out, f)
		}
	}
	return out
}

func MatchesSingle(value string, accepted []string, exact bool) bool {
	if len(accepted) == 0 {
		return true
	}
	key := fold(value, exact)
	for _, a := range accepted {
		if fold(a, exact) == key {
			return true
		}
	}
	return false
}

func MatchesMulti(value string, accepted []string) bool {
	if len(accepted) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(accepted))
	for _, a := range accepted {
		set[util.FoldKey(a)] = struct{}{}
	}
	for _, part := range util.SplitList(value) {
		if _, ok := set[part]; ok {
			return true
		}
	}
	return false
}

func (f Field) Matches(value string) bool {
	if f.Multi {
		return MatchesMulti(value, f.Values)
	}
	return MatchesSingle(value, f.Values, f.Exact)
}

// Apply returns the records satisfying every active field, in input order.
// The input set is not modified.
func Apply(set internal.RecordSet, spec Spec) (internal.RecordSet, error) {
	active := spec.Active()
	for _, f := range active {
		if !set.HasColumn(f.Column) {
			return internal.RecordSet{}, &internal.MissingColumnError{Column: f.Column}
		}
	}

	out := make([]internal.Record, 0, len(set.Records))
	for _, rec := range set.Records {
		keep := true
		for _, f := range active {
			value, ok := rec[f.Column]
			if !ok {
				return internal.RecordSet{}, &internal.MissingColumnError{Column: f.Column}
			}
			if !f.Matches(value) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec.Clone())
		}
	}
	return set.WithRecords(out), nil
}

func fold(value string, exact bool) string {
	if exact {
		return util.NormalizeSpace(value)
	}
	return util.FoldKey(value)
}
