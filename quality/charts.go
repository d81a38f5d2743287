package quality

import "github.com/scrubdeck/scrubdeck/table"

// MissingSeries is chart-ready data for the missing-values-per-column bar
// chart. Columns with nothing missing are left out; an empty series tells
// the renderer to draw its neutral placeholder instead of failing.
type MissingSeries struct {
	Columns []string `json:"columns"`
	Counts  []int    `json:"counts"`
}

// Empty reports whether there is nothing to plot.
func (s MissingSeries) Empty() bool {
	return len(s.Columns) == 0
}

// MissingValueSeries counts missing cells per column, keeping table column
// order and only columns with at least one missing value.
func MissingValueSeries(t *table.Table) MissingSeries {
	var series MissingSeries
	for _, col := range t.Columns() {
		n := len(Missing(t, []string{col}))
		if n == 0 {
			continue
		}
		series.Columns = append(series.Columns, col)
		series.Counts = append(series.Counts, n)
	}
	return series
}

// CaseSeries is chart-ready data for the per-column text-case chart:
// one CaseCounts per plotted column, aligned by index.
type CaseSeries struct {
	Columns []string     `json:"columns"`
	Counts  []CaseCounts `json:"counts"`
}

// Empty reports whether there is nothing to plot.
func (s CaseSeries) Empty() bool {
	return len(s.Columns) == 0
}

// TextCaseSeries builds the case-distribution series for the given
// columns, skipping ones the table does not have. No matching columns
// yields an explicit empty series.
func TextCaseSeries(t *table.Table, columns []string) CaseSeries {
	counts := TextCaseCounts(t, columns)

	var series CaseSeries
	for _, col := range columns {
		c, ok := counts[col]
		if !ok {
			continue
		}
		series.Columns = append(series.Columns, col)
		series.Counts = append(series.Counts, c)
	}
	return series
}

// DefaultCaseColumns are the name columns the dashboard plots when the
// roster has them.
var DefaultCaseColumns = []string{"first_name", "middle_name", "last_name", "full_name"}
