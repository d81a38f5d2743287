package quality

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/scrubdeck/scrubdeck/table"
)

// DefaultSimilarityThreshold is the threshold used when a caller does not
// choose one.
const DefaultSimilarityThreshold = 0.8

// Pair is one fuzzy match between two distinct raw values of a column.
// Similarity is rounded to three decimals.
type Pair struct {
	Value1     string  `json:"value1"`
	Value2     string  `json:"value2"`
	Similarity float64 `json:"similarity"`
}

// SimilarityClusters finds near-duplicate values inside a text column. All
// distinct non-missing values are normalized (lowercase, collapsed
// whitespace, punctuation stripped) and compared pairwise with a
// normalized edit-distance ratio; pairs at or above the threshold are
// kept. The returned row set holds every row whose raw value appears in a
// kept pair.
//
// The comparison is quadratic in the number of distinct values. That is
// fine at roster scale (a few thousand distinct values) but callers must
// not point this at unbounded-cardinality columns.
//
// Non-text columns yield empty results.
func SimilarityClusters(t *table.Table, column string, threshold float64) ([]Pair, table.RowSet) {
	rows := table.NewRowSet()
	kind, ok := t.ColumnKind(column)
	if !ok || kind != table.KindText {
		return nil, rows
	}

	// Distinct raw values, first-appearance order.
	var distinct []string
	seen := make(map[string]struct{})
	for _, id := range t.RowIDs() {
		v, _ := t.Value(id, column)
		if v.IsMissing() {
			continue
		}
		if _, dup := seen[v.Text]; dup {
			continue
		}
		seen[v.Text] = struct{}{}
		distinct = append(distinct, v.Text)
	}

	var pairs []Pair
	matched := make(map[string]struct{})
	for i, v1 := range distinct {
		for _, v2 := range distinct[i+1:] {
			sim := Similarity(v1, v2)
			if sim < threshold {
				continue
			}
			pairs = append(pairs, Pair{Value1: v1, Value2: v2, Similarity: round3(sim)})
			matched[v1] = struct{}{}
			matched[v2] = struct{}{}
		}
	}
	if len(pairs) == 0 {
		return nil, rows
	}

	for _, id := range t.RowIDs() {
		v, _ := t.Value(id, column)
		if v.IsMissing() {
			continue
		}
		if _, ok := matched[v.Text]; ok {
			rows.Add(id)
		}
	}
	return pairs, rows
}

// Similarity computes the normalized edit-distance ratio between two raw
// strings in [0, 1]. It is symmetric, and 1.0 for equal non-empty
// normalized strings. Strings that normalize to empty match nothing.
func Similarity(a, b string) float64 {
	na := NormalizeValue(a)
	nb := NormalizeValue(b)
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(na, nb)
	longest := utf8.RuneCountInString(na)
	if l := utf8.RuneCountInString(nb); l > longest {
		longest = l
	}
	return 1.0 - float64(dist)/float64(longest)
}

// NormalizeValue prepares a raw value for comparison: lowercase, collapse
// internal whitespace, then strip punctuation (anything that is not a
// letter, digit, underscore or space).
func NormalizeValue(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
