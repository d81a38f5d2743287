package http

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
	"github.com/scrubdeck/scrubdeck/quality"
	"github.com/scrubdeck/scrubdeck/session"
	"github.com/scrubdeck/scrubdeck/table"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"server":    "scrubdeck-http",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(fiber.Map{
		"status":     "running",
		"session_id": s.sess.ID(),
		"loaded":     s.sess.Loaded(),
	})
}

// handleUpload replaces the session's dataset with an uploaded CSV.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return s.fail(c, errors.Wrap(ErrMissingUpload, err, "upload requires a 'file' form field"))
	}
	f, err := fh.Open()
	if err != nil {
		return s.fail(c, errors.Wrap(ErrMissingUpload, err, "failed to open upload"))
	}
	defer f.Close()

	opts := table.DefaultCSVOptions()
	opts.IndexColumn = s.cfg.Data.IndexColumn

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.Load(f, opts); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"rows":    s.sess.Canonical().NumRows(),
		"columns": s.sess.Canonical().Columns(),
	})
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.sess.Metrics()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(m)
}

func (s *Server) handleMissingChart(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	series, err := s.sess.MissingChart()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"series": series, "empty": series.Empty()})
}

func (s *Server) handleCaseChart(c *fiber.Ctx) error {
	var columns []string
	if q := c.Query("columns"); q != "" {
		columns = strings.Split(q, ",")
	} else if len(s.cfg.Data.CaseColumns) > 0 {
		columns = s.cfg.Data.CaseColumns
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	series, err := s.sess.CaseChart(columns)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"series": series, "empty": series.Empty()})
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// handleMode switches the filter-mode selection: "multi", "single" or
// "none".
func (s *Server) handleMode(c *fiber.Ctx) error {
	var req modeRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, errors.Wrap(ErrBadRequestBody, err, "failed to parse mode request"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch req.Mode {
	case "multi":
		s.sess.SelectMultiMode()
	case "single":
		s.sess.SelectSingleMode()
	case "none":
		s.sess.ClearSelection()
	default:
		return s.fail(c, errors.Newf(ErrBadRequestBody, "unknown mode %q", req.Mode))
	}
	return c.JSON(fiber.Map{"status": "success", "mode": req.Mode})
}

type filterRequest struct {
	Mode          string   `json:"mode"`
	Columns       []string `json:"columns"`
	Duplicates    bool     `json:"duplicates"`
	MissingValues bool     `json:"missing_values"`
	Column        string   `json:"column"`
	Search        string   `json:"search"`
	Threshold     *float64 `json:"threshold"`
}

func (r filterRequest) spec(defaultThreshold float64) (session.FilterSpec, error) {
	spec := session.FilterSpec{
		Columns:       r.Columns,
		Duplicates:    r.Duplicates,
		MissingValues: r.MissingValues,
		Column:        r.Column,
		Search:        r.Search,
		Threshold:     defaultThreshold,
	}
	if r.Threshold != nil {
		spec.Threshold = *r.Threshold
	}
	switch r.Mode {
	case "", "none":
		spec.Mode = session.FilterNone
	case "columns":
		spec.Mode = session.FilterColumns
	case "search":
		spec.Mode = session.FilterSearch
	case "similarity":
		spec.Mode = session.FilterSimilarity
	default:
		return spec, errors.Newf(ErrBadRequestBody, "unknown filter mode %q", r.Mode)
	}
	return spec, nil
}

// handleFilter applies a filter spec and returns the resulting view. The
// client keeps the returned row_ids: they are the position-to-identifier
// mapping any later edit batch against this view must echo back.
func (s *Server) handleFilter(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, errors.Wrap(ErrBadRequestBody, err, "failed to parse filter request"))
	}
	spec, err := req.spec(s.cfg.Data.SimilarityThreshold)
	if err != nil {
		return s.fail(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	view, pairs, err := s.sess.ApplyFilter(spec)
	if err != nil {
		return s.fail(c, err)
	}
	if pairs == nil {
		pairs = []quality.Pair{}
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"row_ids": view.RowIDs(),
		"columns": s.sess.Canonical().Columns(),
		"rows":    view.Materialize(s.sess.Canonical()),
		"pairs":   pairs,
	})
}

type editsRequest struct {
	ViewIDs []table.RowID      `json:"view_ids"`
	Edits   []session.CellEdit `json:"edits"`
}

// handleEdits reconciles a pending edit batch against the canonical
// table. view_ids must be the row_ids of the view the edits were made on.
func (s *Server) handleEdits(c *fiber.Ctx) error {
	var req editsRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, errors.Wrap(ErrBadRequestBody, err, "failed to parse edits request"))
	}
	batch := session.NewBatch(session.NewView(req.ViewIDs), req.Edits)

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.sess.Reconcile(batch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"batch_id": batch.ID,
		"applied":  res.Applied,
		"skipped":  res.Skipped,
	})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(fiber.Map{"edited_rows": s.sess.History()})
}

// handleExport streams the canonical table, edits included, as a CSV
// download with display column names.
func (s *Server) handleExport(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := s.sess.Export(&buf); err != nil {
		return s.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="members_data.csv"`)
	return c.Send(buf.Bytes())
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Reset()
	return c.JSON(fiber.Map{"status": "success"})
}
