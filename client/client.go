// Package client is a Go client for the scrubdeck HTTP API. It mirrors the
// dashboard's calls: upload a roster, read metrics and charts, apply
// filters, submit edit batches and download the cleaned export.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
	"github.com/scrubdeck/scrubdeck/quality"
	"github.com/scrubdeck/scrubdeck/session"
	"github.com/scrubdeck/scrubdeck/table"
)

// Config holds the connection settings for a scrubdeck server.
type Config struct {
	Address string
	Port    int
	Timeout time.Duration
}

// DefaultConfig returns settings matching a locally running server.
func DefaultConfig() *Config {
	return &Config{
		Address: "localhost",
		Port:    2852,
		Timeout: 30 * time.Second,
	}
}

// Client talks to a scrubdeck server over HTTP.
type Client struct {
	config  *Config
	client  *http.Client
	logger  zerolog.Logger
	baseURL string
}

// NewClient creates an HTTP client for the given server.
func NewClient(cfg *Config, logger zerolog.Logger) *Client {
	return &Client{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With().Str("component", "client").Logger(),
		baseURL: fmt.Sprintf("http://%s:%d", cfg.Address, cfg.Port),
	}
}

// UploadResult reports what the server loaded.
type UploadResult struct {
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// FilterRequest describes a filter to apply server-side. Mode is one of
// "none", "columns", "search" or "similarity"; a nil Threshold uses the
// server's configured default.
type FilterRequest struct {
	Mode          string   `json:"mode"`
	Columns       []string `json:"columns,omitempty"`
	Duplicates    bool     `json:"duplicates,omitempty"`
	MissingValues bool     `json:"missing_values,omitempty"`
	Column        string   `json:"column,omitempty"`
	Search        string   `json:"search,omitempty"`
	Threshold     *float64 `json:"threshold,omitempty"`
}

// FilterResult is the view a filter produced. RowIDs must be echoed back
// in SubmitEdits for any edits made against these rows.
type FilterResult struct {
	RowIDs  []table.RowID   `json:"row_ids"`
	Columns []string        `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
	Pairs   []quality.Pair  `json:"pairs"`
}

// EditResult reports a reconciled edit batch.
type EditResult struct {
	BatchID string `json:"batch_id"`
	Applied int    `json:"applied"`
	Skipped int    `json:"skipped"`
}

// Ping checks that the server is up.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Upload sends a member CSV to the server, replacing its dataset.
func (c *Client) Upload(ctx context.Context, filename string, data io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(ErrRequestFailed, err, "failed to build upload form")
	}
	if _, err := io.Copy(fw, data); err != nil {
		return nil, errors.Wrap(ErrRequestFailed, err, "failed to copy upload data")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(ErrRequestFailed, err, "failed to finish upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, errors.Wrap(ErrRequestFailed, err, "failed to create upload request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out UploadResult
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("rows", out.Rows).Msg("Uploaded roster")
	return &out, nil
}

// Metrics fetches the key-column summary of the loaded roster.
func (c *Client) Metrics(ctx context.Context) (*quality.Metrics, error) {
	var out quality.Metrics
	if err := c.do(ctx, http.MethodGet, "/api/metrics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMode switches the server's filter-mode selection: "multi", "single"
// or "none".
func (c *Client) SetMode(ctx context.Context, mode string) error {
	return c.do(ctx, http.MethodPost, "/api/mode", map[string]string{"mode": mode}, nil)
}

// Filter applies a filter and returns the resulting view.
func (c *Client) Filter(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	var out FilterResult
	if err := c.do(ctx, http.MethodPost, "/api/filter", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitEdits reconciles view-position edits against the server's table.
// viewIDs must be the row_ids of the view the edits were made on.
func (c *Client) SubmitEdits(ctx context.Context, viewIDs []table.RowID, edits []session.CellEdit) (*EditResult, error) {
	payload := map[string]interface{}{
		"view_ids": viewIDs,
		"edits":    edits,
	}
	var out EditResult
	if err := c.do(ctx, http.MethodPost, "/api/edits", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the per-row edit records.
func (c *Client) History(ctx context.Context) (session.ChangeLog, error) {
	var out struct {
		EditedRows session.ChangeLog `json:"edited_rows"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/history", nil, &out); err != nil {
		return nil, err
	}
	return out.EditedRows, nil
}

// Export downloads the cleaned CSV, edits included.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/export", nil)
	if err != nil {
		return nil, errors.Wrap(ErrRequestFailed, err, "failed to create export request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrRequestFailed, err, "export request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(ErrBadStatus, "server returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Reset drops the server's dataset and edit history.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/reset", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(ErrRequestFailed, err, "failed to marshal request body")
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(ErrRequestFailed, err, "failed to create request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(ErrRequestFailed, err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return errors.Newf(ErrBadStatus, "server returned status %d: %s (%s)", resp.StatusCode, apiErr.Error, apiErr.Code)
		}
		return errors.Newf(ErrBadStatus, "server returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(ErrDecodeFailed, err, "failed to decode response")
	}
	return nil
}
