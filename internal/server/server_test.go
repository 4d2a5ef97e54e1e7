package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/tmnguyen/postureboard/internal/config"
	"github.com/tmnguyen/postureboard/internal/export"
)

func newTestServer(t *testing.T, dir string) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Ingest.InputDir = dir
	return New(cfg, zap.NewNop(), nil)
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

func seedExports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "guardduty-x.json", `{"Findings": [
		{"Severity": 9.2, "Title": "Crypto mining"},
		{"Severity": {"Label": "HIGH"}, "Title": "Port probe"}
	]}`)
	writeFixture(t, dir, "inspector-y.json", `{"scan": "done"}`)
	return dir
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// TestHandleSummary verifies the headline counts over the freshly built
// table, with and without a severity filter.
func TestHandleSummary(t *testing.T) {
	srv := newTestServer(t, seedExports(t))

	rec := get(t, srv, "/api/v1/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var summary struct {
		Total     int `json:"total"`
		Critical  int `json:"critical"`
		High      int `json:"high"`
		MediumLow int `json:"medium_low"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Total != 3 || summary.Critical != 1 || summary.High != 1 || summary.MediumLow != 0 {
		t.Errorf("summary = %+v", summary)
	}

	rec = get(t, srv, "/api/v1/summary?severity=CRITICAL")
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Total != 1 || summary.Critical != 1 {
		t.Errorf("filtered summary = %+v", summary)
	}
}

// TestHandleFindings verifies the fixed column order and query-param filters.
func TestHandleFindings(t *testing.T) {
	srv := newTestServer(t, seedExports(t))

	rec := get(t, srv, "/api/v1/findings?service=Inspector")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
		Total   int        `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 1 || len(payload.Rows) != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Columns[0] != "Service" || payload.Columns[len(payload.Columns)-1] != "Status" {
		t.Errorf("columns = %v", payload.Columns)
	}
	row := payload.Rows[0]
	if row[0] != "Inspector" || row[1] != "INFORMATIONAL" || row[2] != "BCG Team" {
		t.Errorf("row = %v", row)
	}
}

// TestHandleFilters verifies options come from the full table even when a
// filter is active on the request.
func TestHandleFilters(t *testing.T) {
	srv := newTestServer(t, seedExports(t))

	rec := get(t, srv, "/api/v1/filters?service=Inspector")
	var opts struct {
		Services   []string `json:"services"`
		Severities []string `json:"severities"`
		Teams      []string `json:"teams"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts.Services) != 2 {
		t.Errorf("services = %v, want both services from the full table", opts.Services)
	}
}

// TestHandleExport verifies the xlsx download: MIME type, attachment name,
// and a readable workbook matching the filtered view.
func TestHandleExport(t *testing.T) {
	srv := newTestServer(t, seedExports(t))

	rec := get(t, srv, "/api/v1/export?severity=CRITICAL")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != export.ContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="AWS_Security_Findings_Enhanced.xlsx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rows, err := export.Read(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	if len(rows) != 2 { // header + one CRITICAL row
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "CRITICAL" {
		t.Errorf("exported severity = %q", rows[1][1])
	}
}

// TestNoDataState verifies the terminal empty-result behavior: report
// endpoints answer 404 and deliver no payloads.
func TestNoDataState(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	for _, path := range []string{
		"/api/v1/findings",
		"/api/v1/summary",
		"/api/v1/charts/severity",
		"/api/v1/charts/team",
		"/api/v1/filters",
		"/api/v1/export",
		"/dashboard",
	} {
		rec := get(t, srv, path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

// TestChartSeverityColors verifies the fixed per-label colors ride along with
// the severity chart payload.
func TestChartSeverityColors(t *testing.T) {
	srv := newTestServer(t, seedExports(t))

	rec := get(t, srv, "/api/v1/charts/severity")
	var payload struct {
		Buckets []struct {
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"buckets"`
		Colors []string `json:"colors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Buckets) != len(payload.Colors) {
		t.Fatalf("buckets/colors length mismatch: %d vs %d", len(payload.Buckets), len(payload.Colors))
	}
	for i, b := range payload.Buckets {
		if b.Label == "CRITICAL" && payload.Colors[i] != "#ff4d4d" {
			t.Errorf("CRITICAL color = %q", payload.Colors[i])
		}
	}
}

// TestHealth verifies liveness and readiness endpoints.
func TestHealth(t *testing.T) {
	srv := newTestServer(t, seedExports(t))

	if rec := get(t, srv, "/health"); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d", rec.Code)
	}
	if rec := get(t, srv, "/ready"); rec.Code != http.StatusOK {
		t.Errorf("/ready status = %d", rec.Code)
	}

	missing := newTestServer(t, filepath.Join(t.TempDir(), "does-not-exist"))
	if rec := get(t, missing, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready with missing dir status = %d, want 503", rec.Code)
	}
}
