package alias

import (
	"sort"

	"github.com/antzucaro/matchr"

	"fatecdata/internal"
	"fatecdata/internal/util"
)

// UnmappedLabel is a normalized value with no dictionary key.
type UnmappedLabel struct {
	Value string
	Count int
}

type Suggestion struct {
	Value     string
	Canonical string
	Score     float64
}

// Unmapped lists values of column that the mapping does not cover, first-seen order.
func Unmapped(set internal.RecordSet, column string, m *Mapping) ([]UnmappedLabel, error) {
	if !set.HasColumn(column) {
		return nil, &internal.MissingColumnError{Column: column}
	}
	index := map[string]int{}
	out := []UnmappedLabel{}
	for _, rec := range set.Records {
		value := util.NormalizeSpace(rec[column])
		if value == "" {
			continue
		}
		if _, ok := m.Lookup(value); ok {
			continue
		}
		if i, ok := index[value]; ok {
			out[i].Count++
			continue
		}
		index[value] = len(out)
		out = append(out, UnmappedLabel{Value: value, Count: 1})
	}
	return out, nil
}

// Suggest pairs each unmapped label with the most similar canonical value.
// Labels whose best score is below threshold are left out.
func Suggest(unmapped []UnmappedLabel, m *Mapping, threshold float64) []Suggestion {
	canonicals := m.Canonicals()
	if len(canonicals) == 0 {
		return nil
	}
	folded := make([]string, len(canonicals))
	for i, c := range canonicals {
		folded[i] = util.FoldKey(c)
	}

	out := []Suggestion{}
	for _, label := range unmapped {
		query := util.FoldKey(label.Value)
		best, bestIdx := 0.0, -1
		for i, candidate := range folded {
			score := matchr.JaroWinkler(query, candidate, false)
			if score > best {
				best, bestIdx = score, i
			}
		}
		if bestIdx < 0 || best < threshold {
			continue
		}
		out = append(out, Suggestion{Value: label.Value, Canonical: canonicals[bestIdx], Score: best})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
