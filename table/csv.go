package table

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
)

// CSVOptions controls delimited-text loading.
type CSVOptions struct {
	// Comma is the field delimiter.
	Comma rune
	// IndexColumn treats the first column as a positional index rather
	// than data; its integer values become the row identifiers. Rosters
	// exported by spreadsheet tools commonly carry such a column.
	IndexColumn bool
}

// DefaultCSVOptions returns the options used when none are given.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Comma: ','}
}

// ReadCSV loads a table from a delimited byte stream. The first record is
// the header. Blank and whitespace-only cells load as missing; records with
// the wrong field count are padded or truncated rather than rejected.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(ErrCSVReadFailed, err, "failed to read delimited input")
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, errors.New(ErrEmptySchema, "input has no header row")
	}

	header := records[0]
	body := records[1:]

	start := 0
	if opts.IndexColumn && len(header) > 1 {
		start = 1
	}

	names := header[start:]
	rows := make([][]Value, len(body))
	ids := make([]RowID, len(body))
	for i, rec := range body {
		row := make([]Value, len(names))
		for c := range names {
			src := start + c
			if src < len(rec) {
				row[c] = cellValue(rec[src])
			} else {
				row[c] = Missing()
			}
		}
		rows[i] = row

		ids[i] = RowID(i)
		if start == 1 && len(rec) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(rec[0])); err == nil {
				ids[i] = RowID(n)
			}
		}
	}

	t, err := New(names, rows)
	if err != nil {
		return nil, err
	}
	t.setRowIDs(ids)
	return t, nil
}

// WriteCSV serializes the table. When display is true, column names are
// rendered in their human-friendly form (underscores to spaces, Title
// Case); cell data is written as-is, missing cells as empty fields.
func (t *Table) WriteCSV(w io.Writer, display bool) error {
	cw := csv.NewWriter(w)

	header := t.Columns()
	if display {
		for i, name := range header {
			header[i] = DisplayName(name)
		}
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(ErrCSVWriteFailed, err, "failed to write header")
	}

	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for c, v := range row {
			record[c] = v.Or("")
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(ErrCSVWriteFailed, err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(ErrCSVWriteFailed, err, "failed to flush output")
	}
	return nil
}

// cellValue maps raw CSV text to a Value. Whitespace-only cells count as
// missing, matching how uploads with stray padding behave in practice.
func cellValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Missing()
	}
	return String(s)
}

// setRowIDs replaces the positional identifiers. A colliding identifier
// falls back to the row's position, advanced past any identifier already
// taken, so every row keeps a unique id.
func (t *Table) setRowIDs(ids []RowID) {
	if len(ids) != len(t.rows) {
		return
	}
	seen := make(map[RowID]struct{}, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			id = RowID(i)
			for {
				if _, taken := seen[id]; !taken {
					break
				}
				id++
			}
		}
		seen[id] = struct{}{}
		t.ids[i] = id
	}
	t.idIdx = make(map[RowID]int, len(t.ids))
	for i, id := range t.ids {
		t.idIdx[id] = i
	}
}
