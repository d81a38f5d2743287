package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
)

const membersCSV = `Full Name,PUP Webmail,Campus
JOHN DOE,a@x.com,MAIN
jane doe,a@x.com,MAIN
Mary Jane,b@x.com,
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(membersCSV), DefaultCSVOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Full Name", "PUP Webmail", "Campus"}, tbl.Columns())
	assert.Equal(t, 3, tbl.NumRows())

	v, ok := tbl.Value(2, "Campus")
	require.True(t, ok)
	assert.True(t, v.IsMissing(), "blank cells load as missing")
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), DefaultCSVOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrEmptySchema))
}

func TestReadCSVRaggedRows(t *testing.T) {
	in := "a,b,c\n1,2\n1,2,3,4\n"
	tbl, err := ReadCSV(strings.NewReader(in), DefaultCSVOptions())
	require.NoError(t, err)

	v, _ := tbl.Value(0, "c")
	assert.True(t, v.IsMissing(), "short records are padded with missing")

	v, _ = tbl.Value(1, "c")
	assert.Equal(t, "3", v.Text, "long records are truncated")
}

func TestReadCSVIndexColumn(t *testing.T) {
	in := ",name\n4,Ana\n9,Ben\n"
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{Comma: ',', IndexColumn: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, tbl.Columns())
	assert.Equal(t, []RowID{4, 9}, tbl.RowIDs())

	v, ok := tbl.Value(9, "name")
	require.True(t, ok)
	assert.Equal(t, "Ben", v.Text)
}

func TestReadCSVIndexColumnDuplicateIDs(t *testing.T) {
	in := "idx,name\n1,Ana\n1,Ben\n1,Cho\n"
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{Comma: ',', IndexColumn: true})
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumRows())

	ids := tbl.RowIDs()
	seen := make(map[RowID]struct{}, len(ids))
	for _, id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "row id %d assigned twice", id)
		seen[id] = struct{}{}
	}

	// Every row stays reachable through its identifier.
	got := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		v, ok := tbl.Value(id, "name")
		require.True(t, ok)
		got[v.Text] = struct{}{}
	}
	assert.Len(t, got, 3)
}

func TestWriteCSVDisplayNames(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(membersCSV), DefaultCSVOptions())
	require.NoError(t, err)
	norm, err := NormalizeColumns(tbl)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, norm.WriteCSV(&buf, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Full Name,Pup Webmail,Campus", lines[0])
	require.Len(t, lines, 4)
	assert.Equal(t, "Mary Jane,b@x.com,", lines[3], "missing cells export as empty fields")
}

func TestExportReloadRoundTrip(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(membersCSV), DefaultCSVOptions())
	require.NoError(t, err)
	norm, err := NormalizeColumns(tbl)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, norm.WriteCSV(&buf, true))

	reloaded, err := ReadCSV(&buf, DefaultCSVOptions())
	require.NoError(t, err)
	renormalized, err := NormalizeColumns(reloaded)
	require.NoError(t, err)

	assert.Equal(t, norm.Columns(), renormalized.Columns(),
		"export then re-normalize restores the same column names")
}
