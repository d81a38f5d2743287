// Package quality computes data-quality signals over a table: duplicate
// groups, missing values, text-case distribution, fuzzy value similarity
// and summary metrics. Every operation is a pure function of the table and
// its explicit parameters; empty input always yields well-defined empty
// results, never an error.
package quality

import (
	"strings"

	"github.com/scrubdeck/scrubdeck/table"
)

// KeyColumn is the designated identifying column used by summary metrics.
// Rosters without it get degraded (zeroed) key metrics instead of errors.
const KeyColumn = "pup_webmail"

// keySep joins column values into a duplicate-group key. Unit separator
// cannot occur in cell text coming out of a delimited file.
const keySep = "\x1f"

// Duplicates returns every row participating in a duplicate group over the
// given columns: rows whose tuple of values repeats elsewhere. Rows with a
// missing value in any of the columns never match anything, including each
// other. Unknown columns are ignored.
func Duplicates(t *table.Table, columns []string) table.RowSet {
	cols := knownColumns(t, columns)
	if len(cols) == 0 {
		return table.NewRowSet()
	}

	groups := make(map[string][]table.RowID)
	for _, id := range t.RowIDs() {
		key, ok := rowKey(t, id, cols)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], id)
	}

	out := table.NewRowSet()
	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			out.Add(id)
		}
	}
	return out
}

// Missing returns rows where at least one of the given columns holds no
// value. Unknown columns are ignored.
func Missing(t *table.Table, columns []string) table.RowSet {
	cols := knownColumns(t, columns)
	out := table.NewRowSet()
	if len(cols) == 0 {
		return out
	}
	for _, id := range t.RowIDs() {
		for _, col := range cols {
			v, _ := t.Value(id, col)
			if v.IsMissing() {
				out.Add(id)
				break
			}
		}
	}
	return out
}

// Metrics summarizes a table against its designated key column.
type Metrics struct {
	TotalRows     int `json:"total_rows"`
	UniqueKeys    int `json:"unique_keys"`
	DuplicateKeys int `json:"duplicate_keys"`
	MissingKeys   int `json:"missing_keys"`
}

// SummaryMetrics computes roster-level metrics over keyColumn. When the
// column is absent the key-derived fields degrade to zero; the dashboard
// must keep rendering rather than fail on an optional column.
func SummaryMetrics(t *table.Table, keyColumn string) Metrics {
	m := Metrics{TotalRows: t.NumRows()}
	if !t.HasColumn(keyColumn) {
		return m
	}

	seen := make(map[string]struct{})
	for _, id := range t.RowIDs() {
		v, _ := t.Value(id, keyColumn)
		if v.IsMissing() {
			m.MissingKeys++
			continue
		}
		if _, dup := seen[v.Text]; dup {
			m.DuplicateKeys++
			continue
		}
		seen[v.Text] = struct{}{}
	}
	m.UniqueKeys = len(seen)
	return m
}

// rowKey builds the duplicate-group key for a row, or reports false when
// any of the columns is missing for that row.
func rowKey(t *table.Table, id table.RowID, columns []string) (string, bool) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		v, _ := t.Value(id, col)
		if v.IsMissing() {
			return "", false
		}
		parts[i] = v.Text
	}
	return strings.Join(parts, keySep), true
}

func knownColumns(t *table.Table, columns []string) []string {
	out := columns[:0:0]
	for _, col := range columns {
		if t.HasColumn(col) {
			out = append(out, col)
		}
	}
	return out
}
