package usajobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/scrape/util"
)

const positionPayload = `{"SearchResult": {"SearchResultItems": [
	{"MatchedObjectDescriptor": {
		"PositionID": "ABC-24-123",
		"PositionTitle": "IT Specialist (Systems Administration)",
		"OrganizationName": "Department of the Interior",
		"PositionURI": "https://www.usajobs.gov/job/123",
		"PositionStartDate": "2026-03-10T00:00:00",
		"PositionEndDate": "2026-03-24T23:59:59",
		"QualificationSummary": "Experience with Linux and Bash required.",
		"PositionLocation": [{"LocationName": "Boulder, Colorado", "CityName": "Boulder", "CountrySubDivisionCode": "CO"}],
		"PositionRemuneration": [{"MinimumRange": "45.50", "MaximumRange": "60.00", "RateIntervalCode": "Per Hour"}],
		"UserArea": {"Details": {"MajorDuties": ["Administer production systems."]}}
	}}
]}}`

func testScraper(srv *httptest.Server) *Scraper {
	s := New("test-key", "dev@example.com", util.NewHostLimiter(1000, 1000))
	s.base = srv.URL
	s.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestFetch_ParsesAndDedupesAcrossKeywords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization-Key") != "test-key" {
			t.Errorf("Authorization-Key = %q", r.Header.Get("Authorization-Key"))
		}
		if r.Header.Get("User-Agent") != "dev@example.com" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		q := r.URL.Query()
		if q.Get("DatePosted") != "1" {
			t.Errorf("DatePosted = %q", q.Get("DatePosted"))
		}
		// every keyword returns the same position; Fetch must dedupe
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(positionPayload))
	}))
	defer srv.Close()

	jobs, err := testScraper(srv).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 unique job across all keyword sweeps, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Source != domain.SourceUSAJobs {
		t.Errorf("source = %q", j.Source)
	}
	if j.ExternalID != "ABC-24-123" {
		t.Errorf("external_id = %q", j.ExternalID)
	}
	if j.Company != "Department of the Interior" {
		t.Errorf("company = %q", j.Company)
	}
	if j.LocationCity != "Boulder" || j.LocationState != "Colorado" {
		t.Errorf("location = %q/%q", j.LocationCity, j.LocationState)
	}
	// hourly rates are annualized at 2080 hours
	if j.SalaryMin == nil || *j.SalaryMin != 45*2080 {
		t.Errorf("salary_min = %v, want %d", j.SalaryMin, 45*2080)
	}
	if j.SalaryMax == nil || *j.SalaryMax != 60*2080 {
		t.Errorf("salary_max = %v, want %d", j.SalaryMax, 60*2080)
	}
	if j.ExpiresAt == nil || !j.ExpiresAt.Equal(time.Date(2026, 3, 24, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("expires_at = %v, want PositionEndDate", j.ExpiresAt)
	}
	if j.Description != "Administer production systems. Experience with Linux and Bash required." {
		t.Errorf("description = %q", j.Description)
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

func TestParseJob_TeleworkMeansRemote(t *testing.T) {
	s := New("k", "e", util.NewHostLimiter(1000, 1000))
	s.now = time.Now

	pos := position{
		PositionID:           "X-1",
		PositionTitle:        "Computer Scientist",
		OrganizationName:     "NASA",
		QualificationSummary: "This position is eligible for telework.",
	}
	j, ok := s.parseJob(&pos)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if j.WorkType != domain.WorkRemote {
		t.Errorf("work_type = %q, want remote when telework is mentioned", j.WorkType)
	}
}

func TestParseJob_RequiresTitleAndOrg(t *testing.T) {
	s := New("k", "e", util.NewHostLimiter(1000, 1000))
	if _, ok := s.parseJob(&position{PositionTitle: "Engineer"}); ok {
		t.Fatal("expected missing organization to be skipped")
	}
	if _, ok := s.parseJob(&position{OrganizationName: "GSA"}); ok {
		t.Fatal("expected missing title to be skipped")
	}
}
