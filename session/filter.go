package session

import (
	"strings"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
	"github.com/scrubdeck/scrubdeck/quality"
	"github.com/scrubdeck/scrubdeck/table"
)

// FilterMode selects which kind of filter a spec describes.
type FilterMode int

const (
	// FilterNone leaves the table unfiltered.
	FilterNone FilterMode = iota
	// FilterColumns checks a column subset for duplicates and/or missing
	// values.
	FilterColumns
	// FilterSearch matches a case-sensitive substring in one column.
	FilterSearch
	// FilterSimilarity keeps rows participating in fuzzy value pairs of
	// one column.
	FilterSimilarity
)

// FilterSpec describes one filter application. Exactly one mode is active;
// only the fields for that mode are read.
type FilterSpec struct {
	Mode FilterMode `json:"mode"`

	// FilterColumns mode
	Columns       []string `json:"columns,omitempty"`
	Duplicates    bool     `json:"duplicates,omitempty"`
	MissingValues bool     `json:"missing_values,omitempty"`

	// FilterSearch and FilterSimilarity modes
	Column    string  `json:"column,omitempty"`
	Search    string  `json:"search,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// View is a row subset of the canonical table. Positions are what the user
// sees; every position maps to the original row identifier it was built
// from, which is how edits against the view find their way back.
type View struct {
	ids []table.RowID
}

// NewView builds a view over the given identifiers, in display order.
func NewView(ids []table.RowID) *View {
	v := &View{ids: make([]table.RowID, len(ids))}
	copy(v.ids, ids)
	return v
}

// Len returns the number of rows in the view.
func (v *View) Len() int {
	return len(v.ids)
}

// RowIDs returns the identifiers in display order.
func (v *View) RowIDs() []table.RowID {
	ids := make([]table.RowID, len(v.ids))
	copy(ids, v.ids)
	return ids
}

// IDAt resolves a display position to its original row identifier.
func (v *View) IDAt(pos int) (table.RowID, bool) {
	if pos < 0 || pos >= len(v.ids) {
		return 0, false
	}
	return v.ids[pos], true
}

// Materialize reads the view's current rows out of a table, in view order.
// Rows the table no longer knows are skipped.
func (v *View) Materialize(t *table.Table) [][]table.Value {
	rows := make([][]table.Value, 0, len(v.ids))
	for _, id := range v.ids {
		if row, ok := t.Row(id); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// applyFilter evaluates a spec against a table and returns the view plus,
// for similarity mode, the pair list surfaced alongside it. It never
// mutates the table and is idempotent for a fixed table and spec.
func applyFilter(t *table.Table, spec FilterSpec) (*View, []quality.Pair, error) {
	switch spec.Mode {
	case FilterNone:
		return NewView(t.RowIDs()), nil, nil

	case FilterColumns:
		if !spec.Duplicates && !spec.MissingValues {
			// Neither check requested: the full table, unfiltered.
			return NewView(t.RowIDs()), nil, nil
		}
		keep := table.NewRowSet()
		if spec.Duplicates {
			keep = keep.Union(quality.Duplicates(t, spec.Columns))
		}
		if spec.MissingValues {
			keep = keep.Union(quality.Missing(t, spec.Columns))
		}
		return viewFromSet(t, keep), nil, nil

	case FilterSearch:
		if !t.HasColumn(spec.Column) {
			return nil, nil, errors.Newf(ErrUnknownColumn, "column %q not found", spec.Column)
		}
		keep := table.NewRowSet()
		for _, id := range t.RowIDs() {
			v, _ := t.Value(id, spec.Column)
			if v.IsMissing() {
				continue
			}
			if strings.Contains(v.Text, spec.Search) {
				keep.Add(id)
			}
		}
		return viewFromSet(t, keep), nil, nil

	case FilterSimilarity:
		if !t.HasColumn(spec.Column) {
			return nil, nil, errors.Newf(ErrUnknownColumn, "column %q not found", spec.Column)
		}
		if spec.Threshold < 0 || spec.Threshold > 1 {
			return nil, nil, errors.Newf(ErrInvalidFilter, "threshold %v outside [0,1]", spec.Threshold)
		}
		pairs, keep := quality.SimilarityClusters(t, spec.Column, spec.Threshold)
		return viewFromSet(t, keep), pairs, nil

	default:
		return nil, nil, errors.Newf(ErrInvalidFilter, "unknown filter mode %d", spec.Mode)
	}
}

// viewFromSet orders set members by their canonical table position.
func viewFromSet(t *table.Table, keep table.RowSet) *View {
	ids := make([]table.RowID, 0, len(keep))
	for _, id := range t.RowIDs() {
		if keep.Contains(id) {
			ids = append(ids, id)
		}
	}
	return NewView(ids)
}
