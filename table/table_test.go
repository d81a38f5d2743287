package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
)

func testRows(cells ...[]string) [][]Value {
	rows := make([][]Value, len(cells))
	for i, row := range cells {
		vals := make([]Value, len(row))
		for j, s := range row {
			if s == "" {
				vals[j] = Missing()
			} else {
				vals[j] = String(s)
			}
		}
		rows[i] = vals
	}
	return rows
}

func TestNewAssignsStableRowIDs(t *testing.T) {
	tbl, err := New([]string{"a", "b"}, testRows(
		[]string{"1", "x"},
		[]string{"2", "y"},
	))
	require.NoError(t, err)

	assert.Equal(t, []RowID{0, 1}, tbl.RowIDs())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
}

func TestNewRejectsEmptySchema(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrEmptySchema))
}

func TestNewPadsShortRows(t *testing.T) {
	tbl, err := New([]string{"a", "b", "c"}, testRows([]string{"only"}))
	require.NoError(t, err)

	v, ok := tbl.Value(0, "c")
	require.True(t, ok)
	assert.True(t, v.IsMissing())
}

func TestKindInference(t *testing.T) {
	tbl, err := New([]string{"age", "name", "empty"}, testRows(
		[]string{"21", "Ana", ""},
		[]string{"34.5", "Ben", ""},
	))
	require.NoError(t, err)

	kind, ok := tbl.ColumnKind("age")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, kind)

	kind, _ = tbl.ColumnKind("name")
	assert.Equal(t, KindText, kind)

	// A column with no present values stays text.
	kind, _ = tbl.ColumnKind("empty")
	assert.Equal(t, KindText, kind)
}

func TestSetValue(t *testing.T) {
	tbl, err := New([]string{"campus"}, testRows([]string{"MAIN"}))
	require.NoError(t, err)

	require.NoError(t, tbl.SetValue(0, "campus", String("SATELLITE")))
	v, _ := tbl.Value(0, "campus")
	assert.Equal(t, "SATELLITE", v.Text)

	err = tbl.SetValue(99, "campus", String("x"))
	assert.True(t, errors.HasCode(err, ErrRowNotFound))

	err = tbl.SetValue(0, "nope", String("x"))
	assert.True(t, errors.HasCode(err, ErrColumnNotFound))
}

func TestCloneIsDeep(t *testing.T) {
	tbl, err := New([]string{"a"}, testRows([]string{"original"}))
	require.NoError(t, err)

	snap := tbl.Clone()
	require.NoError(t, tbl.SetValue(0, "a", String("changed")))

	v, _ := snap.Value(0, "a")
	assert.Equal(t, "original", v.Text, "snapshot must not see later edits")
}

func TestRowSet(t *testing.T) {
	a := NewRowSet(3, 1)
	b := NewRowSet(1, 5)

	u := a.Union(b)
	assert.Equal(t, []RowID{1, 3, 5}, u.Sorted())
	assert.True(t, u.Contains(5))
	assert.False(t, u.Contains(2))

	// Union never produces duplicate entries: it is a set.
	assert.Len(t, u, 3)
}

func TestValueHelpers(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.False(t, String("").IsMissing())
	assert.Equal(t, "fallback", Missing().Or("fallback"))
	assert.Equal(t, "x", String("x").Or("fallback"))
	assert.Equal(t, "x", String("x").String())
	assert.Equal(t, "", Missing().String())
}
