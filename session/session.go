// Package session owns the mutable state of one editing session: the
// canonical table, its immutable load-time snapshot, the append-only
// change log, and the filter-mode selection. All state lives on an
// explicit Session value passed to every operation; one session is driven
// by one logical flow at a time and does no internal locking.
package session

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
	"github.com/scrubdeck/scrubdeck/quality"
	"github.com/scrubdeck/scrubdeck/table"
	"github.com/scrubdeck/scrubdeck/utils"
)

// Selection is the filter-mode selection state. Selecting one mode
// deselects the other; a spec can only be applied under the matching
// selection.
type Selection int

const (
	// SelectionNone accepts only the unfiltered spec.
	SelectionNone Selection = iota
	// SelectionMulti accepts column-subset duplicate/missing specs.
	SelectionMulti
	// SelectionSingle accepts search and similarity specs.
	SelectionSingle
)

// Session is the explicit session context.
type Session struct {
	id        string
	canonical *table.Table
	snapshot  *table.Table
	log       ChangeLog
	selection Selection
	keyColumn string
	logger    zerolog.Logger
}

// New creates an empty session with no data loaded.
func New(logger zerolog.Logger) *Session {
	return &Session{
		id:        utils.GenerateULIDString(),
		log:       make(ChangeLog),
		keyColumn: quality.KeyColumn,
		logger:    logger.With().Str("component", "session").Logger(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetKeyColumn overrides the designated identifying column used by
// summary metrics.
func (s *Session) SetKeyColumn(col string) {
	s.keyColumn = col
}

// Loaded reports whether a table is currently held.
func (s *Session) Loaded() bool {
	return s.canonical != nil
}

// Load replaces the whole session with a freshly uploaded delimited
// stream: columns are normalized, fields standardized, the snapshot taken
// and the change log emptied. A failed load leaves the previous state
// untouched.
func (s *Session) Load(r io.Reader, opts table.CSVOptions) error {
	raw, err := table.ReadCSV(r, opts)
	if err != nil {
		return errors.Wrap(ErrLoadFailed, err, "failed to load upload")
	}
	return s.install(raw)
}

// LoadTable replaces the session with an already-built table, applying
// the same normalization pipeline as Load.
func (s *Session) LoadTable(t *table.Table) error {
	return s.install(t.Clone())
}

func (s *Session) install(raw *table.Table) error {
	norm, err := table.NormalizeColumns(raw)
	if err != nil {
		return errors.Wrap(ErrLoadFailed, err, "failed to normalize columns")
	}
	std := table.StandardizeFields(norm)

	s.canonical = std
	s.snapshot = std.Clone()
	s.log = make(ChangeLog)
	s.selection = SelectionNone

	s.logger.Info().
		Str("session_id", s.id).
		Int("rows", std.NumRows()).
		Int("columns", std.NumColumns()).
		Msg("Session loaded")
	return nil
}

// Reset reinitializes all session state together: canonical table,
// snapshot, change log and filter selection. The session is empty
// afterwards, as if never loaded.
func (s *Session) Reset() {
	s.canonical = nil
	s.snapshot = nil
	s.log = make(ChangeLog)
	s.selection = SelectionNone
	s.logger.Info().Str("session_id", s.id).Msg("Session reset")
}

// Canonical returns the authoritative table. Callers must treat it as
// read-only; mutation goes through Reconcile.
func (s *Session) Canonical() *table.Table {
	return s.canonical
}

// Snapshot returns the immutable load-time copy used for metrics and
// charts, so live edits don't skew quality reporting.
func (s *Session) Snapshot() *table.Table {
	return s.snapshot
}

// SelectMultiMode enables column-subset filtering and disables
// single-column filtering.
func (s *Session) SelectMultiMode() {
	s.selection = SelectionMulti
}

// SelectSingleMode enables single-column filtering and disables
// column-subset filtering.
func (s *Session) SelectSingleMode() {
	s.selection = SelectionSingle
}

// ClearSelection returns to the no-filter state.
func (s *Session) ClearSelection() {
	s.selection = SelectionNone
}

// Selection returns the current filter-mode selection.
func (s *Session) Selection() Selection {
	return s.selection
}

// ApplyFilter evaluates a spec against the canonical table and returns
// the resulting view plus, in similarity mode, the pair list for display.
// The spec's mode must agree with the current selection; the canonical
// table is never touched.
func (s *Session) ApplyFilter(spec FilterSpec) (*View, []quality.Pair, error) {
	if !s.Loaded() {
		return nil, nil, errors.New(ErrNotLoaded, "no data loaded")
	}
	if err := s.checkSelection(spec.Mode); err != nil {
		return nil, nil, err
	}
	return applyFilter(s.canonical, spec)
}

func (s *Session) checkSelection(mode FilterMode) error {
	switch mode {
	case FilterNone:
		return nil
	case FilterColumns:
		if s.selection != SelectionMulti {
			return errors.New(ErrModeConflict, "column-subset filter requires multi-column mode")
		}
	case FilterSearch, FilterSimilarity:
		if s.selection != SelectionSingle {
			return errors.New(ErrModeConflict, "single-column filter requires single-column mode")
		}
	}
	return nil
}

// FullView returns an unfiltered view of the canonical table.
func (s *Session) FullView() (*View, error) {
	if !s.Loaded() {
		return nil, errors.New(ErrNotLoaded, "no data loaded")
	}
	return NewView(s.canonical.RowIDs()), nil
}

// Reconcile applies a pending edit batch to the canonical table and
// appends to the change log. See the ledger for the resolution and
// stale-edit rules.
func (s *Session) Reconcile(b Batch) (ReconcileResult, error) {
	if !s.Loaded() {
		return ReconcileResult{}, errors.New(ErrNotLoaded, "no data loaded")
	}
	res := reconcile(s.canonical, s.log, b)
	if res.Skipped > 0 {
		s.logger.Debug().
			Str("batch_id", b.ID).
			Int("skipped", res.Skipped).
			Msg("Discarded stale edits")
	}
	s.logger.Info().
		Str("batch_id", b.ID).
		Int("applied", res.Applied).
		Msg("Reconciled edit batch")
	return res, nil
}

// History returns the append-only change log. Callers must not modify it.
func (s *Session) History() ChangeLog {
	return s.log
}

// HistoryFor returns the ordered edit records of one row.
func (s *Session) HistoryFor(id table.RowID) []Record {
	return s.log[id]
}

// Metrics summarizes the load-time snapshot against the key column.
func (s *Session) Metrics() (quality.Metrics, error) {
	if !s.Loaded() {
		return quality.Metrics{}, errors.New(ErrNotLoaded, "no data loaded")
	}
	return quality.SummaryMetrics(s.snapshot, s.keyColumn), nil
}

// MissingChart builds the missing-values series from the snapshot.
func (s *Session) MissingChart() (quality.MissingSeries, error) {
	if !s.Loaded() {
		return quality.MissingSeries{}, errors.New(ErrNotLoaded, "no data loaded")
	}
	return quality.MissingValueSeries(s.snapshot), nil
}

// CaseChart builds the text-case series from the snapshot. A nil column
// list means the default name columns.
func (s *Session) CaseChart(columns []string) (quality.CaseSeries, error) {
	if !s.Loaded() {
		return quality.CaseSeries{}, errors.New(ErrNotLoaded, "no data loaded")
	}
	if columns == nil {
		columns = quality.DefaultCaseColumns
	}
	return quality.TextCaseSeries(s.snapshot, columns), nil
}

// Export writes the canonical table (with any applied edits) as CSV with
// display-formatted column names. The table itself is not touched.
func (s *Session) Export(w io.Writer) error {
	if !s.Loaded() {
		return errors.New(ErrNotLoaded, "no data loaded")
	}
	if err := s.canonical.WriteCSV(w, true); err != nil {
		return errors.Wrap(ErrExportFailed, err, "failed to export table")
	}
	return nil
}
