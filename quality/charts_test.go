package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrubdeck/scrubdeck/table"
)

func TestMissingValueSeries(t *testing.T) {
	tbl, err := table.New(
		[]string{"a", "b", "c"},
		[][]table.Value{
			{table.String("1"), table.Missing(), table.Missing()},
			{table.String("2"), table.String("x"), table.Missing()},
		},
	)
	require.NoError(t, err)

	series := MissingValueSeries(tbl)
	assert.False(t, series.Empty())
	assert.Equal(t, []string{"b", "c"}, series.Columns, "fully-present columns are left out")
	assert.Equal(t, []int{1, 2}, series.Counts)
}

func TestMissingValueSeriesEmpty(t *testing.T) {
	tbl, err := table.New(
		[]string{"a"},
		[][]table.Value{{table.String("1")}},
	)
	require.NoError(t, err)

	series := MissingValueSeries(tbl)
	assert.True(t, series.Empty(), "no missing values means an explicit empty series")
}

func TestTextCaseSeries(t *testing.T) {
	tbl, err := table.New(
		[]string{"full_name"},
		[][]table.Value{
			{table.String("JOHN DOE")},
			{table.String("Mary Jane")},
		},
	)
	require.NoError(t, err)

	series := TextCaseSeries(tbl, DefaultCaseColumns)
	require.Equal(t, []string{"full_name"}, series.Columns, "only columns the table has")
	assert.Equal(t, CaseCounts{Uppercase: 1, Titlecase: 1}, series.Counts[0])
}

func TestTextCaseSeriesEmpty(t *testing.T) {
	tbl, err := table.New([]string{"age"}, nil)
	require.NoError(t, err)

	series := TextCaseSeries(tbl, DefaultCaseColumns)
	assert.True(t, series.Empty())
}
