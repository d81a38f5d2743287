// Package table holds the in-memory tabular dataset scrubdeck operates on.
// A Table is an ordered set of named columns over rows of nullable string
// cells. Every row carries an original row identifier assigned at load time;
// identifiers are stable for the life of the table and survive filtering,
// which is what lets edits made against a filtered view be mapped back.
package table

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cast"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
)

// RowID identifies a row by its position at load time. It never changes,
// even as views reorder or drop rows.
type RowID int

// Kind classifies a column's content, inferred at load.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

// Column describes a single named column.
type Column struct {
	Name string
	Kind Kind
}

// Value is a single nullable cell. A missing value has Valid == false;
// its Text is ignored.
type Value struct {
	Text  string
	Valid bool
}

// String builds a present value.
func String(s string) Value {
	return Value{Text: s, Valid: true}
}

// Missing builds an explicit missing marker.
func Missing() Value {
	return Value{}
}

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool {
	return !v.Valid
}

// Or returns the cell text, or the fallback when missing.
func (v Value) Or(fallback string) string {
	if !v.Valid {
		return fallback
	}
	return v.Text
}

// String returns the cell text; a missing cell reads as empty.
func (v Value) String() string {
	return v.Or("")
}

// MarshalJSON encodes a missing value as null and a present one as its
// text, which is what chart and grid renderers expect.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts null for missing, any string for present.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = String(s)
	return nil
}

// Table is the canonical dataset for a session. It is not safe for
// concurrent mutation; callers own serialization (one session, one flow).
type Table struct {
	columns []Column
	colIdx  map[string]int
	rows    [][]Value
	ids     []RowID
	idIdx   map[RowID]int
}

// New builds a table from column names and row data. Row identifiers are
// assigned positionally. Short rows are padded with missing values and
// long rows truncated, so malformed input flows through instead of failing.
func New(names []string, rows [][]Value) (*Table, error) {
	if len(names) == 0 {
		return nil, errors.New(ErrEmptySchema, "table has no columns")
	}

	t := &Table{
		columns: make([]Column, len(names)),
		colIdx:  make(map[string]int, len(names)),
		rows:    make([][]Value, len(rows)),
		ids:     make([]RowID, len(rows)),
		idIdx:   make(map[RowID]int, len(rows)),
	}
	for i, name := range names {
		t.columns[i] = Column{Name: name, Kind: KindText}
		t.colIdx[name] = i
	}
	for i, row := range rows {
		padded := make([]Value, len(names))
		copy(padded, row)
		t.rows[i] = padded
		t.ids[i] = RowID(i)
		t.idIdx[RowID(i)] = i
	}
	t.inferKinds()
	return t, nil
}

// inferKinds classifies each column: numeric when every present value
// parses as a number, text otherwise. Empty columns stay text.
func (t *Table) inferKinds() {
	for c := range t.columns {
		kind := KindText
		seen := false
		numeric := true
		for _, row := range t.rows {
			v := row[c]
			if v.IsMissing() {
				continue
			}
			seen = true
			if _, err := cast.ToFloat64E(v.Text); err != nil {
				numeric = false
				break
			}
		}
		if seen && numeric {
			kind = KindNumeric
		}
		t.columns[c].Kind = kind
	}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnKind returns the inferred kind of a column.
func (t *Table) ColumnKind(name string) (Kind, bool) {
	i, ok := t.colIdx[name]
	if !ok {
		return KindText, false
	}
	return t.columns[i].Kind, true
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// RowIDs returns the identifiers of all rows in table order.
func (t *Table) RowIDs() []RowID {
	ids := make([]RowID, len(t.ids))
	copy(ids, t.ids)
	return ids
}

// HasRow reports whether the identifier exists in the table.
func (t *Table) HasRow(id RowID) bool {
	_, ok := t.idIdx[id]
	return ok
}

// Value returns the cell at (id, column). The second return is false when
// the row or column does not exist.
func (t *Table) Value(id RowID, column string) (Value, bool) {
	r, ok := t.idIdx[id]
	if !ok {
		return Value{}, false
	}
	c, ok := t.colIdx[column]
	if !ok {
		return Value{}, false
	}
	return t.rows[r][c], true
}

// SetValue writes a cell. Mutation is reserved for the edit ledger's
// reconcile step; everything else treats tables as read-only.
func (t *Table) SetValue(id RowID, column string, v Value) error {
	r, ok := t.idIdx[id]
	if !ok {
		return errors.Newf(ErrRowNotFound, "row %d not found", id)
	}
	c, ok := t.colIdx[column]
	if !ok {
		return errors.Newf(ErrColumnNotFound, "column %q not found", column)
	}
	t.rows[r][c] = v
	return nil
}

// Row returns the cells of a row in column order.
func (t *Table) Row(id RowID) ([]Value, bool) {
	r, ok := t.idIdx[id]
	if !ok {
		return nil, false
	}
	row := make([]Value, len(t.rows[r]))
	copy(row, t.rows[r])
	return row, true
}

// Clone returns a deep copy. Used to take the immutable load-time
// snapshot that quality metrics and charts are computed against.
func (t *Table) Clone() *Table {
	c := &Table{
		columns: make([]Column, len(t.columns)),
		colIdx:  make(map[string]int, len(t.colIdx)),
		rows:    make([][]Value, len(t.rows)),
		ids:     make([]RowID, len(t.ids)),
		idIdx:   make(map[RowID]int, len(t.idIdx)),
	}
	copy(c.columns, t.columns)
	copy(c.ids, t.ids)
	for k, v := range t.colIdx {
		c.colIdx[k] = v
	}
	for k, v := range t.idIdx {
		c.idIdx[k] = v
	}
	for i, row := range t.rows {
		r := make([]Value, len(row))
		copy(r, row)
		c.rows[i] = r
	}
	return c
}

// renameColumns replaces all column names in place, preserving order and
// kinds. Callers pass exactly one name per column.
func (t *Table) renameColumns(names []string) {
	t.colIdx = make(map[string]int, len(names))
	for i, name := range names {
		t.columns[i].Name = name
		t.colIdx[name] = i
	}
}

// RowSet is a set of row identifiers satisfying some predicate.
type RowSet map[RowID]struct{}

// NewRowSet builds a set from identifiers.
func NewRowSet(ids ...RowID) RowSet {
	s := make(RowSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an identifier.
func (s RowSet) Add(id RowID) {
	s[id] = struct{}{}
}

// Contains reports membership.
func (s RowSet) Contains(id RowID) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new set holding members of both sets.
func (s RowSet) Union(other RowSet) RowSet {
	u := make(RowSet, len(s)+len(other))
	for id := range s {
		u[id] = struct{}{}
	}
	for id := range other {
		u[id] = struct{}{}
	}
	return u
}

// Sorted returns members in ascending order.
func (s RowSet) Sorted() []RowID {
	ids := make([]RowID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
