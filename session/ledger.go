package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scrubdeck/scrubdeck/table"
)

// timestampLayout is the human-readable format change records carry.
const timestampLayout = "2006-01-02 15:04:05"

// CellEdit is one pending cell change, addressed by the row's position in
// the view it was made against.
type CellEdit struct {
	Pos    int    `json:"pos"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Batch is a group of pending edits together with the row identifiers of
// the view that produced them. Carrying the identifiers in the batch means
// a batch still resolves correctly after the displayed view has been
// replaced.
type Batch struct {
	ID        string
	ViewIDs   []table.RowID
	Edits     []CellEdit
	CreatedAt time.Time
}

// NewBatch snapshots a view's position-to-identifier mapping into a batch.
func NewBatch(v *View, edits []CellEdit) Batch {
	return Batch{
		ID:        uuid.NewString(),
		ViewIDs:   v.RowIDs(),
		Edits:     edits,
		CreatedAt: time.Now(),
	}
}

// Change is one cell transition inside a record.
type Change struct {
	From table.Value `json:"from"`
	To   table.Value `json:"to"`
}

// Record is one edit event for a row: every column changed in the batch,
// with prior and new values, and when it happened.
type Record struct {
	Timestamp string            `json:"timestamp"`
	Changes   map[string]Change `json:"changes"`
}

// ChangeLog maps row identifiers to their ordered edit history. Records
// are only ever appended; history is never reordered or rewritten.
type ChangeLog map[table.RowID][]Record

// ReconcileResult reports what a reconcile pass did.
type ReconcileResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// reconcile writes a batch of pending edits into the canonical table and
// appends their change records to the log.
//
// Positions resolve through the batch's own view snapshot, never the
// current view. A position beyond that snapshot's bounds means the view
// shrank before the batch landed; such edits are stale and dropped
// silently rather than treated as failures.
// Edits naming a column the table does not have are skipped the same way.
// Multiple edits to one row in a batch are grouped into a single record.
func reconcile(canonical *table.Table, log ChangeLog, b Batch) ReconcileResult {
	var res ReconcileResult
	now := time.Now().Format(timestampLayout)

	// Group by view position, preserving first-seen order.
	order := make([]int, 0, len(b.Edits))
	grouped := make(map[int][]CellEdit)
	for _, e := range b.Edits {
		if _, seen := grouped[e.Pos]; !seen {
			order = append(order, e.Pos)
		}
		grouped[e.Pos] = append(grouped[e.Pos], e)
	}

	for _, pos := range order {
		edits := grouped[pos]
		if pos < 0 || pos >= len(b.ViewIDs) {
			res.Skipped += len(edits)
			continue
		}
		id := b.ViewIDs[pos]
		if !canonical.HasRow(id) {
			res.Skipped += len(edits)
			continue
		}

		changes := make(map[string]Change, len(edits))
		for _, e := range edits {
			from, ok := canonical.Value(id, e.Column)
			if !ok {
				res.Skipped++
				continue
			}
			to := editValue(e.Value)
			if err := canonical.SetValue(id, e.Column, to); err != nil {
				res.Skipped++
				continue
			}
			changes[e.Column] = Change{From: from, To: to}
			res.Applied++
		}
		if len(changes) > 0 {
			log[id] = append(log[id], Record{Timestamp: now, Changes: changes})
		}
	}
	return res
}

// editValue maps edit text to a cell value the same way the loader does:
// blank text clears the cell.
func editValue(s string) table.Value {
	if strings.TrimSpace(s) == "" {
		return table.Missing()
	}
	return table.String(s)
}
