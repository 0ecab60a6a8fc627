package remotive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/scrape/util"
)

func testScraper(srv *httptest.Server, now time.Time) *Scraper {
	s := New(util.NewHostLimiter(1000, 1000))
	s.base = srv.URL
	s.now = func() time.Time { return now }
	return s
}

func TestFetch_ParsesAndFiltersByAge(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	payload := `{"jobs": [
		{
			"id": 123456,
			"url": "https://remotive.com/remote-jobs/software-dev/backend-engineer-123456",
			"title": "Backend Engineer",
			"company_name": "Acme",
			"company_logo": "https://remotive.com/logo.png",
			"tags": ["python", "django", "postgresql"],
			"publication_date": "2026-03-10T03:00:00",
			"candidate_required_location": "USA Only",
			"salary": "$120,000 - $150,000",
			"description": "<p>Build APIs with Python and Django.</p>"
		},
		{
			"id": 999,
			"url": "https://remotive.com/old",
			"title": "Old Posting",
			"company_name": "Stale Inc",
			"tags": [],
			"publication_date": "2026-03-01T00:00:00",
			"description": "too old"
		}
	]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("category") != "software-dev" {
			w.Write([]byte(`{"jobs": []}`))
			return
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	jobs, err := testScraper(srv, now).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after the 48h cutoff, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Source != domain.SourceRemotive {
		t.Errorf("source = %q", j.Source)
	}
	if j.ExternalID != "123456" {
		t.Errorf("external_id = %q, want 123456", j.ExternalID)
	}
	if j.WorkType != domain.WorkRemote {
		t.Errorf("work_type = %q, want remote", j.WorkType)
	}
	if j.Category != "Software Engineering" {
		t.Errorf("category = %q, want Software Engineering (mapped)", j.Category)
	}
	if j.SalaryMin == nil || *j.SalaryMin != 120000 {
		t.Errorf("salary_min = %v, want 120000", j.SalaryMin)
	}
	if j.SalaryMax == nil || *j.SalaryMax != 150000 {
		t.Errorf("salary_max = %v, want 150000", j.SalaryMax)
	}
	if len(j.Skills) != 3 || j.Skills[0] != "python" {
		t.Errorf("skills = %v, want provider tags", j.Skills)
	}
	if j.Description != "Build APIs with Python and Django." {
		t.Errorf("description = %q, want stripped HTML", j.Description)
	}
	if j.PostedAt == nil || !j.PostedAt.Equal(time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)) {
		t.Errorf("posted_at = %v", j.PostedAt)
	}
}

func TestFetch_RequestFailureReturnsPartial(t *testing.T) {
	now := time.Now().UTC()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"jobs": [{"id": 1, "title": "DevOps Engineer", "company_name": "Acme", "publication_date": "` + now.Format("2006-01-02T15:04:05") + `", "description": "Kubernetes"}]}`))
	}))
	defer srv.Close()

	jobs, err := testScraper(srv, now).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected the category failure to surface")
	}
	if len(jobs) == 0 {
		t.Fatal("expected jobs from the categories that succeeded")
	}
}

func TestParseJob_SkipsUntitled(t *testing.T) {
	s := New(util.NewHostLimiter(1000, 1000))
	if _, ok := s.parseJob(&apiJob{CompanyName: "Acme"}, "data"); ok {
		t.Fatal("expected untitled item to be skipped")
	}
}
