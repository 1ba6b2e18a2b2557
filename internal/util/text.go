package util

import (
	"fmt"
	"strings"
)

// NormalizeSpace collapses every run of Unicode whitespace to one space and trims the ends.
func NormalizeSpace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// NormalizeValue stringifies non-text input before normalizing it.
func NormalizeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return NormalizeSpace(t)
	case fmt.Stringer:
		return NormalizeSpace(t.String())
	default:
		return NormalizeSpace(fmt.Sprint(t))
	}
}

// FoldKey is the comparison key used for aliases and filter values.
func FoldKey(input string) string {
	return strings.ToUpper(NormalizeSpace(input))
}

// SplitList splits a comma separated cell into folded, non-empty parts.
func SplitList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = FoldKey(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
