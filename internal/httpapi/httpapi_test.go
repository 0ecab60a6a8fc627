package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/ingest"
	"techjobs-engine/internal/scrape/types"
	"techjobs-engine/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	d, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := store.Migrate(d.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	orch := ingest.New(d.Pool, []types.Fetcher{}, 0, 0)
	mux := NewMux(Deps{DB: d.Pool, Orch: orch, AdminKey: "test-admin", Version: "test"})
	srv := httptest.NewServer(Chain(mux, RequestID, AccessLog, Recover))
	t.Cleanup(srv.Close)
	return srv, d.Pool
}

func seedJob(t *testing.T, db *sql.DB, ext, title string) string {
	t.Helper()
	posted := time.Now().UTC().Add(-time.Hour)
	j := domain.Job{
		Source:          "remotive",
		ExternalID:      ext,
		Title:           title,
		Company:         "Acme",
		LocationState:   "Texas",
		WorkType:        domain.WorkRemote,
		SalaryCurrency:  "USD",
		ExperienceLevel: domain.ExpMid,
		Category:        "Software Engineering",
		Description:     "Build things with Go.",
		PostedAt:        &posted,
		ScrapedAt:       time.Now().UTC(),
		IsActive:        true,
	}
	if _, err := store.InsertJobIfNew(db, j); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var id string
	if err := db.QueryRow(`SELECT id FROM jobs WHERE external_id = ?;`, ext).Scan(&id); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RebuildSearchText(db); err != nil {
		t.Fatal(err)
	}
	return id
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestListJobs_Endpoint(t *testing.T) {
	srv, db := newTestServer(t)
	seedJob(t, db, "1", "Backend Engineer")
	seedJob(t, db, "2", "Data Scientist")

	var res struct {
		Jobs       []domain.Job `json:"jobs"`
		Total      int          `json:"total"`
		Page       int          `json:"page"`
		PerPage    int          `json:"per_page"`
		TotalPages int          `json:"total_pages"`
	}
	if code := getJSON(t, srv.URL+"/api/jobs", &res); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if res.Total != 2 || res.Page != 1 || res.PerPage != 20 || res.TotalPages != 1 {
		t.Fatalf("envelope = %+v", res)
	}

	if code := getJSON(t, srv.URL+"/api/jobs?q=backend", &res); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if res.Total != 1 || res.Jobs[0].Title != "Backend Engineer" {
		t.Fatalf("search result = %+v", res)
	}

	if code := getJSON(t, srv.URL+"/api/jobs?state=California", &res); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if res.Total != 0 || res.Jobs == nil {
		t.Fatalf("empty result must be [], got %+v", res)
	}
}

func TestGetJob_Endpoint(t *testing.T) {
	srv, db := newTestServer(t)
	id := seedJob(t, db, "1", "Backend Engineer")

	var job domain.Job
	if code := getJSON(t, srv.URL+"/api/jobs/"+id, &job); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if job.Title != "Backend Engineer" || job.ID != id {
		t.Fatalf("job = %+v", job)
	}

	if code := getJSON(t, srv.URL+"/api/jobs/0b5f9d1e-0000-0000-0000-000000000000", nil); code != 404 {
		t.Fatalf("unknown id: status = %d, want 404", code)
	}
	if code := getJSON(t, srv.URL+"/api/jobs/not-a-uuid", nil); code != 400 {
		t.Fatalf("bad id: status = %d, want 400", code)
	}
}

func TestFacetEndpoints(t *testing.T) {
	srv, db := newTestServer(t)
	seedJob(t, db, "1", "Backend Engineer")

	var cats []map[string]any
	if code := getJSON(t, srv.URL+"/api/jobs/categories", &cats); code != 200 {
		t.Fatalf("categories status = %d", code)
	}
	if len(cats) != 1 || cats[0]["category"] != "Software Engineering" {
		t.Fatalf("categories = %v", cats)
	}

	var states []map[string]any
	if code := getJSON(t, srv.URL+"/api/jobs/locations", &states); code != 200 {
		t.Fatalf("locations status = %d", code)
	}
	if len(states) != 1 || states[0]["state"] != "Texas" {
		t.Fatalf("locations = %v", states)
	}
}

func TestStats_Endpoint(t *testing.T) {
	srv, db := newTestServer(t)
	seedJob(t, db, "1", "Backend Engineer")

	var stats struct {
		TotalJobs  int            `json:"total_jobs"`
		ActiveJobs int            `json:"active_jobs"`
		Sources    map[string]int `json:"sources"`
	}
	if code := getJSON(t, srv.URL+"/api/stats", &stats); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if stats.TotalJobs != 1 || stats.Sources["remotive"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestTrack_Endpoint(t *testing.T) {
	srv, db := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/track", "application/json",
		strings.NewReader(`{"event": "page_view", "page": "jobs"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 204 {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM analytics;`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("analytics rows = %d", n)
	}

	// garbage body still answers 204 and records nothing
	resp, err = http.Post(srv.URL+"/api/track", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 204 {
		t.Fatalf("garbage body: status = %d, want 204", resp.StatusCode)
	}
}

func adminReq(t *testing.T, method, url, key string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAdmin_Auth(t *testing.T) {
	srv, _ := newTestServer(t)

	if resp := adminReq(t, http.MethodGet, srv.URL+"/api/admin/scrape/status", ""); resp.StatusCode != 403 {
		t.Fatalf("no key: status = %d", resp.StatusCode)
	}
	if resp := adminReq(t, http.MethodGet, srv.URL+"/api/admin/scrape/status", "wrong"); resp.StatusCode != 403 {
		t.Fatalf("wrong key: status = %d", resp.StatusCode)
	}
	if resp := adminReq(t, http.MethodGet, srv.URL+"/api/admin/scrape/status", "test-admin"); resp.StatusCode != 200 {
		t.Fatalf("right key: status = %d", resp.StatusCode)
	}
}

func TestAdmin_TriggerScrape(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := adminReq(t, http.MethodPost, srv.URL+"/api/admin/scrape", "test-admin")
	if resp.StatusCode != 202 {
		t.Fatalf("trigger: status = %d, want 202", resp.StatusCode)
	}

	// the run has no fetchers, so it finishes almost instantly
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp := adminReq(t, http.MethodGet, srv.URL+"/api/admin/scrape/status", "test-admin")
		var st ingest.RunStatus
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatal(err)
		}
		if st.CompletedAt != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run never completed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAdmin_Analytics(t *testing.T) {
	srv, db := newTestServer(t)
	if err := store.InsertPageEvent(db, "page_view", "index"); err != nil {
		t.Fatal(err)
	}

	resp := adminReq(t, http.MethodGet, srv.URL+"/api/admin/analytics", "test-admin")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var s store.AnalyticsSummary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatal(err)
	}
	if s.TotalEvents != 1 || s.ByEvent["page_view"] != 1 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]any
	if code := getJSON(t, srv.URL+"/health", &body); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}
