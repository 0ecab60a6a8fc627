// Package usajobs pulls federal tech listings from the USAJobs.gov search
// API. Requires a registered API key plus the contact email USAJobs wants in
// the User-Agent header.
package usajobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"techjobs-engine/internal/classify"
	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/scrape/util"
)

const baseURL = "https://data.usajobs.gov/api/search"

// Keyword sweeps that together cover the federal tech surface. One position
// often matches several of them, so results are deduped by PositionID within
// the run.
var searchKeywords = []string{
	"software engineer",
	"software developer",
	"data scientist",
	"data engineer",
	"cybersecurity",
	"cloud engineer",
	"devops",
	"IT specialist",
	"network engineer",
	"systems administrator",
	"database administrator",
	"web developer",
	"machine learning",
	"information security",
	"full stack developer",
}

type Scraper struct {
	hc      *http.Client
	limiter *util.HostLimiter
	now     func() time.Time
	base    string

	apiKey string
	email  string
}

func New(apiKey, email string, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		now:     time.Now,
		base:    baseURL,
		apiKey:  apiKey,
		email:   email,
	}
}

func (s *Scraper) Name() string { return domain.SourceUSAJobs }

func (s *Scraper) Close() { s.hc.CloseIdleConnections() }

type apiResponse struct {
	SearchResult struct {
		SearchResultItems []struct {
			MatchedObjectDescriptor position `json:"MatchedObjectDescriptor"`
		} `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

type position struct {
	PositionID           string   `json:"PositionID"`
	PositionTitle        string   `json:"PositionTitle"`
	OrganizationName     string   `json:"OrganizationName"`
	PositionURI          string   `json:"PositionURI"`
	ApplyURI             []string `json:"ApplyURI"`
	PositionStartDate    string   `json:"PositionStartDate"`
	PositionEndDate      string   `json:"PositionEndDate"`
	QualificationSummary string   `json:"QualificationSummary"`
	PositionLocation     []struct {
		LocationName           string `json:"LocationName"`
		CityName               string `json:"CityName"`
		CountrySubDivisionCode string `json:"CountrySubDivisionCode"`
	} `json:"PositionLocation"`
	PositionRemuneration []struct {
		MinimumRange     string `json:"MinimumRange"`
		MaximumRange     string `json:"MaximumRange"`
		RateIntervalCode string `json:"RateIntervalCode"`
	} `json:"PositionRemuneration"`
	UserArea struct {
		Details struct {
			MajorDuties []string `json:"MajorDuties"`
		} `json:"Details"`
	} `json:"UserArea"`
}

// Fetch sweeps the search keywords over the last 24 hours of postings.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Job, error) {
	if s.apiKey == "" || s.email == "" {
		log.Printf("[usajobs] missing api key or email, skipping")
		return nil, nil
	}

	var out []domain.Job
	var lastErr error
	seen := make(map[string]bool)

	for _, keyword := range searchKeywords {
		jobs, err := s.search(ctx, keyword)
		if err != nil {
			log.Printf("[usajobs] keyword %q: %v", keyword, err)
			lastErr = err
			continue
		}
		for _, job := range jobs {
			if seen[job.ExternalID] {
				continue
			}
			seen[job.ExternalID] = true
			out = append(out, job)
		}
	}

	log.Printf("[usajobs] fetched %d unique jobs", len(out))
	return out, lastErr
}

func (s *Scraper) search(ctx context.Context, keyword string) ([]domain.Job, error) {
	u := s.base + "?" + url.Values{
		"Keyword":        {keyword},
		"DatePosted":     {"1"},
		"ResultsPerPage": {"500"},
		"Fields":         {"default"},
	}.Encode()

	if err := s.limiter.WaitURL(ctx, u); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization-Key", s.apiKey)
	req.Header.Set("User-Agent", s.email)

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usajobs: status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var jobs []domain.Job
	for i := range body.SearchResult.SearchResultItems {
		job, ok := s.parseJob(&body.SearchResult.SearchResultItems[i].MatchedObjectDescriptor)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *Scraper) parseJob(pos *position) (domain.Job, bool) {
	title := util.CleanText(pos.PositionTitle)
	org := util.CleanText(pos.OrganizationName)
	if title == "" || org == "" {
		return domain.Job{}, false
	}

	var locationStr, city, state string
	if len(pos.PositionLocation) > 0 {
		loc := pos.PositionLocation[0]
		locationStr = loc.LocationName
		city = loc.CityName
		if len(loc.CountrySubDivisionCode) == 2 {
			state = classify.StateName(loc.CountrySubDivisionCode)
		}
	}
	if city == "" {
		city = classify.ExtractCity(locationStr)
	}
	if state == "" {
		state = classify.NormalizeState(locationStr)
	}

	var salMin, salMax *int
	if len(pos.PositionRemuneration) > 0 {
		rem := pos.PositionRemuneration[0]
		salMin = parseAmount(rem.MinimumRange)
		salMax = parseAmount(rem.MaximumRange)
		if rem.RateIntervalCode == "Per Hour" && salMin != nil {
			v := *salMin * 2080
			salMin = &v
			if salMax != nil {
				w := *salMax * 2080
				salMax = &w
			} else {
				salMax = &v
			}
		}
	}

	desc := ""
	if len(pos.UserArea.Details.MajorDuties) > 0 {
		desc = pos.UserArea.Details.MajorDuties[0]
	}
	if qual := pos.QualificationSummary; qual != "" {
		if desc != "" {
			desc = desc + "\n\n" + qual
		} else {
			desc = qual
		}
	}
	desc = util.CleanText(desc)

	applyURL := pos.PositionURI
	if applyURL == "" && len(pos.ApplyURI) > 0 {
		applyURL = pos.ApplyURI[0]
	}

	workType := classify.DetectWorkType(title, desc, locationStr)
	if strings.Contains(strings.ToLower(desc), "telework") ||
		strings.Contains(strings.ToLower(locationStr), "remote") {
		workType = domain.WorkRemote
	}

	externalID := pos.PositionID
	if externalID == "" {
		externalID = util.StableID(title, org, locationStr)
	}

	now := s.now().UTC()
	posted := util.ParseISOTime(pos.PositionStartDate)
	if posted == nil {
		posted = &now
	}

	return domain.Job{
		Source:          domain.SourceUSAJobs,
		ExternalID:      externalID,
		Title:           title,
		Company:         org,
		LocationCity:    city,
		LocationState:   state,
		WorkType:        workType,
		SalaryMin:       salMin,
		SalaryMax:       salMax,
		SalaryCurrency:  "USD",
		ExperienceLevel: classify.DetectExperience(title, desc),
		Category:        classify.Categorize(title, desc),
		Skills:          classify.ExtractSkills(desc, domain.MaxSkills),
		Description:     util.Truncate(desc, 5000),
		ApplyURL:        applyURL,
		PostedAt:        posted,
		ScrapedAt:       now,
		ExpiresAt:       util.ParseISOTime(pos.PositionEndDate),
		IsActive:        true,
	}, true
}

func parseAmount(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return nil
	}
	v := int(f)
	return &v
}
