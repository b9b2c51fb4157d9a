package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"resumeline/internal/export"
	"resumeline/internal/ingest"
	"resumeline/internal/repository"
)

// newTestServer stands up the full HTTP surface over a throwaway SQLite store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repository.Open(ctx, repository.Config{DSN: filepath.Join(t.TempDir(), "test.db")}, logger)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(db.Close)
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}

	roles := repository.NewRoleRepository(db, logger)
	resumes := repository.NewResumeRepository(db, roles, logger)
	jobs := repository.NewJobRepository(db, logger)
	srv := New(db, ingest.NewService(resumes, logger), jobs, resumes, export.NewService(resumes, logger), logger)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

const ingestPayload = `{
	"candidate_name": "Jordan Tester",
	"job_link": "https://example.com/posting/123",
	"roles": [
		{"ordinal": 1, "company_name": "Globex", "role_title": "Senior Engineer", "role_description": "Scaled the platform."},
		{"ordinal": 0, "company_name": "Acme", "role_title": "Engineer", "role_description": "Built things."}
	]
}`

func postIngest(t *testing.T, ts *httptest.Server, payload string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/resumes", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestIngestThenPollJob(t *testing.T) {
	ts := newTestServer(t)

	status, created := postIngest(t, ts, ingestPayload)
	if status != http.StatusCreated {
		t.Fatalf("ingest status = %d, body %v", status, created)
	}
	resumeID, _ := created["resumeId"].(string)
	jobID, _ := created["jobId"].(string)
	if resumeID == "" || jobID == "" {
		t.Fatalf("missing ids in response: %v", created)
	}

	status, job := getJSON(t, ts.URL+"/api/jobs/"+jobID)
	if status != http.StatusOK {
		t.Fatalf("job status code = %d", status)
	}
	if job["status"] != "pending" {
		t.Fatalf("job status = %v, want pending", job["status"])
	}
	if job["total_roles"] != float64(2) || job["completed_roles"] != float64(0) {
		t.Fatalf("job progress = %v/%v, want 0/2", job["completed_roles"], job["total_roles"])
	}
	if job["resumeId"] != resumeID {
		t.Fatalf("job resumeId = %v, want %s", job["resumeId"], resumeID)
	}
	if job["last_error"] != nil {
		t.Fatalf("last_error = %v, want null", job["last_error"])
	}
}

func TestIngestRejectsBadPayloads(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "this is not json"},
		{"unknown field", `{"roles":[],"surprise":true}`},
		{"no roles", `{"candidate_name":"x","roles":[]}`},
		{"missing role fields", `{"roles":[{"ordinal":0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := postIngest(t, ts, tt.payload)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", status)
			}
		})
	}
}

func TestGetJobNotFound(t *testing.T) {
	ts := newTestServer(t)

	status, _ := getJSON(t, ts.URL+"/api/jobs/job_missing")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestSnapshotReturnsRolesInOrder(t *testing.T) {
	ts := newTestServer(t)

	_, created := postIngest(t, ts, ingestPayload)
	resumeID := created["resumeId"].(string)

	status, snap := getJSON(t, ts.URL+"/api/resumes/"+resumeID+"/snapshot")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if snap["resumeId"] != resumeID {
		t.Fatalf("resumeId = %v", snap["resumeId"])
	}
	roles, ok := snap["roles"].([]any)
	if !ok || len(roles) != 2 {
		t.Fatalf("roles = %v", snap["roles"])
	}
	first := roles[0].(map[string]any)
	second := roles[1].(map[string]any)
	if first["ordinal"] != float64(0) || second["ordinal"] != float64(1) {
		t.Fatalf("roles out of order: %v then %v", first["ordinal"], second["ordinal"])
	}
	if first["role_star_1"] != nil {
		t.Fatalf("fresh role has star story: %v", first["role_star_1"])
	}
}

func TestExportReturnsWorkbook(t *testing.T) {
	ts := newTestServer(t)

	_, created := postIngest(t, ts, ingestPayload)
	resumeID := created["resumeId"].(string)

	resp, err := http.Get(ts.URL + "/api/resumes/" + resumeID + "/export")
	if err != nil {
		t.Fatalf("get export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content-type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content-disposition = %q", cd)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// XLSX is a zip container.
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Fatalf("body does not look like a workbook: % x", data[:min(len(data), 4)])
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	status, body := getJSON(t, ts.URL+"/healthz")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}
