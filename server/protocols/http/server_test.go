package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
	"github.com/scrubdeck/scrubdeck/server/config"
)

const uploadCSV = `Full Name,PUP Webmail,Campus
JOHN DOE,a@x.com,main
jane doe,a@x.com,main
Mary Jane,b@x.com,
`

func testServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(config.LoadDefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	return srv
}

func uploadRequest(t *testing.T, csv string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "members.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, csv)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func loadData(t *testing.T, srv *Server) {
	t.Helper()
	resp, err := srv.App().Test(uploadRequest(t, uploadCSV))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestStartFailsWhenAddressTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.LoadDefaultConfig()
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port

	srv, err := NewServer(cfg, zerolog.Nop())
	require.NoError(t, err)

	err = srv.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrStartFailed))
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestUploadAndMetrics(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodGet, "/api/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := decodeBody(t, resp)
	assert.Equal(t, float64(3), m["total_rows"])
	assert.Equal(t, float64(2), m["unique_keys"])
	assert.Equal(t, float64(1), m["duplicate_keys"])
	assert.Equal(t, float64(1), m["missing_keys"])
}

func TestMetricsWithoutUpload(t *testing.T) {
	srv := testServer(t)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodGet, "/api/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "session.not_loaded", body["code"])
}

func TestUploadWithoutFile(t *testing.T) {
	srv := testServer(t)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodPost, "/api/upload", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFilterDuplicates(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodPost, "/api/mode", map[string]string{"mode": "multi"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = srv.App().Test(jsonRequest(t, http.MethodPost, "/api/filter", map[string]interface{}{
		"mode":       "columns",
		"columns":    []string{"pup_webmail"},
		"duplicates": true,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, []interface{}{float64(0), float64(1)}, body["row_ids"])
}

func TestFilterModeConflict(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodPost, "/api/filter", map[string]interface{}{
		"mode":    "columns",
		"columns": []string{"pup_webmail"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "session.mode_conflict", body["code"])
}

func TestFilterSimilarityUsesConfiguredDefaultThreshold(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodPost, "/api/mode", map[string]string{"mode": "single"}))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = srv.App().Test(jsonRequest(t, http.MethodPost, "/api/filter", map[string]interface{}{
		"mode":   "similarity",
		"column": "full_name",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	// "John Doe" vs "Jane Doe" sit below the 0.8 default; no pairs.
	assert.Empty(t, body["pairs"])
	assert.Empty(t, body["row_ids"])
}

func TestEditsAndExport(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodPost, "/api/edits", map[string]interface{}{
		"view_ids": []int{0, 1, 2},
		"edits": []map[string]interface{}{
			{"pos": 2, "column": "campus", "value": "SATELLITE"},
		},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["applied"])
	assert.Equal(t, float64(0), body["skipped"])

	resp, err = srv.App().Test(jsonRequest(t, http.MethodGet, "/api/export", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "members_data.csv")

	csvBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	out := string(csvBytes)
	assert.True(t, strings.HasPrefix(out, "Full Name,Pup Webmail,Campus"))
	assert.Contains(t, out, "SATELLITE")
}

func TestHistoryAfterEdit(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodPost, "/api/edits", map[string]interface{}{
		"view_ids": []int{0, 1, 2},
		"edits": []map[string]interface{}{
			{"pos": 0, "column": "campus", "value": "NORTH"},
		},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = srv.App().Test(jsonRequest(t, http.MethodGet, "/api/history", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	edited, ok := body["edited_rows"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, edited, "0")

	records := edited["0"].([]interface{})
	require.Len(t, records, 1)
	record := records[0].(map[string]interface{})
	changes := record["changes"].(map[string]interface{})
	campus := changes["campus"].(map[string]interface{})
	assert.Equal(t, "MAIN", campus["from"])
	assert.Equal(t, "NORTH", campus["to"])
}

func TestResetClearsSession(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	resp, err := srv.App().Test(jsonRequest(t, http.MethodPost, "/api/reset", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = srv.App().Test(jsonRequest(t, http.MethodGet, "/api/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestChartsEmptyPlaceholders(t *testing.T) {
	srv := testServer(t)
	loadData(t, srv)

	// Campus column has a missing value; the missing chart is non-empty.
	resp, err := srv.App().Test(jsonRequest(t, http.MethodGet, "/api/charts/missing", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["empty"])

	// No configured case column exists in this roster except full_name.
	resp, err = srv.App().Test(jsonRequest(t, http.MethodGet, "/api/charts/case?columns=nope", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["empty"])
}
