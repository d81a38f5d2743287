package table

import (
	"strings"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
)

// titleCaser is shared; cases.Caser values are cheap but not trivially so.
var titleCaser = cases.Title(language.Und)

// BirthdateColumn is the normalized name of the birthdate column.
const BirthdateColumn = "birthdate"

// upperFields are category columns standardized to upper case at load.
var upperFields = map[string]struct{}{
	"program":    {},
	"campus":     {},
	"year_level": {},
}

// NormalizeColumns returns a copy of the table with canonical column
// names: trimmed, lower-cased, spaces and slashes replaced by underscores.
// It is idempotent and never touches cell data.
func NormalizeColumns(t *Table) (*Table, error) {
	if t.NumColumns() == 0 {
		return nil, errors.New(ErrEmptySchema, "cannot normalize a table with no columns")
	}
	out := t.Clone()
	names := out.Columns()
	for i, name := range names {
		names[i] = NormalizeName(name)
	}
	out.renameColumns(names)
	return out, nil
}

// NormalizeName canonicalizes a single column name.
func NormalizeName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}

// DisplayName is the inverse transform used only for export display:
// underscores back to spaces, Title Case. It does not round-trip kind
// information and is never applied to the canonical table itself.
func DisplayName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "_", " ")
	return titleCaser.String(s)
}

// StandardizeFields applies the load-time field normalizations, column by
// column, on a copy:
//
//   - the birthdate column is parsed permissively into a date and
//     reformatted as 2006-01-02; unparseable values become missing
//   - columns whose name contains "name" are trimmed and title-cased
//   - columns whose name contains "mail" are trimmed and lower-cased
//   - program/campus/year_level are trimmed and upper-cased
//
// Each rule is idempotent, so standardizing twice equals standardizing once.
func StandardizeFields(t *Table) *Table {
	out := t.Clone()
	for _, name := range out.Columns() {
		switch {
		case name == BirthdateColumn:
			standardizeColumn(out, name, parseBirthdate)
			continue
		}

		kind, _ := out.ColumnKind(name)
		if kind != KindText {
			continue
		}
		if _, ok := upperFields[name]; ok {
			standardizeColumn(out, name, func(s string) Value {
				return String(strings.ToUpper(strings.TrimSpace(s)))
			})
			continue
		}
		if strings.Contains(name, "name") {
			standardizeColumn(out, name, func(s string) Value {
				return String(titleCaser.String(strings.TrimSpace(s)))
			})
			continue
		}
		if strings.Contains(name, "mail") {
			standardizeColumn(out, name, func(s string) Value {
				return String(strings.ToLower(strings.TrimSpace(s)))
			})
		}
	}
	return out
}

func standardizeColumn(t *Table, column string, fn func(string) Value) {
	for _, id := range t.ids {
		v, _ := t.Value(id, column)
		if v.IsMissing() {
			continue
		}
		// Errors cannot happen here; the row and column both exist.
		_ = t.SetValue(id, column, fn(v.Text))
	}
}

// parseBirthdate coerces free-form date text to 2006-01-02. A value that
// cannot be read as a date becomes an explicit missing marker; the row
// itself is never dropped.
func parseBirthdate(s string) Value {
	ts, err := dateparse.ParseAny(strings.TrimSpace(s))
	if err != nil {
		return Missing()
	}
	return String(ts.Format("2006-01-02"))
}
