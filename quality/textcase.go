package quality

import (
	"unicode"

	"github.com/scrubdeck/scrubdeck/table"
)

// CaseCounts tallies how many values of a column are fully uppercase,
// fully lowercase, or title-case.
type CaseCounts struct {
	Uppercase int `json:"uppercase"`
	Lowercase int `json:"lowercase"`
	Titlecase int `json:"titlecase"`
}

// TextCaseCounts classifies the values of each given column. Missing
// values are counted as the empty string, and an empty string lands in all
// three buckets at once; that is the counting semantics, inherited and
// kept. Any non-empty value lands in at most one bucket. Unknown columns
// are skipped.
func TextCaseCounts(t *table.Table, columns []string) map[string]CaseCounts {
	out := make(map[string]CaseCounts)
	for _, col := range knownColumns(t, columns) {
		var counts CaseCounts
		for _, id := range t.RowIDs() {
			v, _ := t.Value(id, col)
			s := v.Or("")
			if s == "" {
				counts.Uppercase++
				counts.Lowercase++
				counts.Titlecase++
				continue
			}
			if isUpper(s) {
				counts.Uppercase++
			} else if isLower(s) {
				counts.Lowercase++
			} else if isTitle(s) {
				counts.Titlecase++
			}
		}
		out[col] = counts
	}
	return out
}

// isUpper reports whether s has at least one cased rune and none of its
// cased runes are lowercase.
func isUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			hasCased = true
		}
	}
	return hasCased
}

// isLower reports whether s has at least one cased rune and none of its
// cased runes are uppercase.
func isLower(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			hasCased = true
		}
	}
	return hasCased
}

// isTitle reports whether s is title-cased: upper- or title-case runes may
// only follow uncased runes, lowercase runes may only follow cased ones.
func isTitle(s string) bool {
	hasCased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			hasCased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			hasCased = true
		default:
			prevCased = false
		}
	}
	return hasCased
}
