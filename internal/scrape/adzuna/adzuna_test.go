package adzuna

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/scrape/util"
)

func testScraper(srv *httptest.Server) *Scraper {
	s := New("id", "key", util.NewHostLimiter(1000, 1000))
	s.base = srv.URL
	s.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestFetch_StopsOnEmptyPage(t *testing.T) {
	page1 := `{"results": [
		{
			"id": 5001,
			"title": "Senior <strong>DevOps</strong> Engineer",
			"description": "<p>Kubernetes, Terraform, AWS.</p>",
			"redirect_url": "https://www.adzuna.com/details/5001",
			"created": "2026-03-10T08:30:00Z",
			"salary_min": 140000,
			"salary_max": 175000.5,
			"company": {"display_name": "Acme"},
			"location": {"display_name": "Seattle, WA", "area": ["US", "Washington", "King County", "Seattle"]}
		},
		{
			"id": 5002,
			"title": "IT Support Specialist",
			"description": "Help desk role.",
			"redirect_url": "https://www.adzuna.com/details/5002",
			"created": "2026-03-10T07:00:00Z",
			"company": {"display_name": "Globex"},
			"location": {"display_name": "Denver, CO", "area": []}
		}
	]}`

	var pagesHit []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		page := strings.TrimPrefix(r.URL.Path, "/")
		pagesHit = append(pagesHit, page)
		q := r.URL.Query()
		if q.Get("category") != "it-jobs" || q.Get("max_days_old") != "1" {
			t.Errorf("unexpected query params: %v", q)
		}
		if page == "1" {
			w.Write([]byte(page1))
			return
		}
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	jobs, err := testScraper(srv).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if len(pagesHit) != 2 {
		t.Fatalf("expected paging to stop after the first empty page, hit %v", pagesHit)
	}

	j := jobs[0]
	if j.Source != domain.SourceAdzuna {
		t.Errorf("source = %q", j.Source)
	}
	if j.Title != "Senior DevOps Engineer" {
		t.Errorf("title = %q, want markup stripped", j.Title)
	}
	if j.LocationState != "Washington" || j.LocationCity != "Seattle" {
		t.Errorf("location = %q/%q, want Seattle/Washington from area array", j.LocationCity, j.LocationState)
	}
	if j.SalaryMin == nil || *j.SalaryMin != 140000 {
		t.Errorf("salary_min = %v, want 140000", j.SalaryMin)
	}
	if j.SalaryMax == nil || *j.SalaryMax != 175000 {
		t.Errorf("salary_max = %v, want truncated 175000", j.SalaryMax)
	}
	if j.ExperienceLevel != domain.ExpSenior {
		t.Errorf("experience = %q, want senior", j.ExperienceLevel)
	}

	// second result has no area array, so display_name is parsed instead
	j2 := jobs[1]
	if j2.LocationCity != "Denver" || j2.LocationState != "Colorado" {
		t.Errorf("location = %q/%q, want Denver/Colorado from display_name", j2.LocationCity, j2.LocationState)
	}
	if j2.SalaryMin != nil || j2.SalaryMax != nil {
		t.Errorf("missing salary should stay nil, got %v/%v", j2.SalaryMin, j2.SalaryMax)
	}
}

func TestFetch_MissingCredentialsSkips(t *testing.T) {
	s := New("", "", util.NewHostLimiter(1000, 1000))
	jobs, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("missing creds must not be an error: %v", err)
	}
	if jobs != nil {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}

func TestFetch_FailedPageReturnsAccumulated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/1") {
			w.Write([]byte(`{"results": [{"id": 1, "title": "Cloud Engineer", "description": "AWS", "company": {"display_name": "Acme"}, "location": {"display_name": "Remote"}}]}`))
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	jobs, err := testScraper(srv).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected the page failure to surface")
	}
	if len(jobs) != 1 {
		t.Fatalf("expected the first page to be kept, got %d", len(jobs))
	}
}
