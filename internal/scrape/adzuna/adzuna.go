// Package adzuna pulls US IT listings from the Adzuna search API. Requires
// an app id and key; the free tier allows 500 requests a month, so runs are
// capped at five pages.
package adzuna

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

const baseURL = "https://api.adzuna.com/v1/api/jobs/us/search"

const (
	maxPages       = 5
	resultsPerPage = 50
)

type Scraper struct {
	hc      *http.Client
	limiter *util.HostLimiter
	now     func() time.Time
	base    string

	appID  string
	appKey string
}

func New(appID, appKey string, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		now:     time.Now,
		base:    baseURL,
		appID:   appID,
		appKey:  appKey,
	}
}

func (s *Scraper) Name() string { return domain.SourceAdzuna }

func (s *Scraper) Close() { s.hc.CloseIdleConnections() }

type apiResponse struct {
	Results []apiJob `json:"results"`
}

type apiJob struct {
	// sometimes a number, sometimes a string
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	RedirectURL string          `json:"redirect_url"`
	Created     string          `json:"created"`
	SalaryMin   float64         `json:"salary_min"`
	SalaryMax   float64         `json:"salary_max"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string   `json:"display_name"`
		Area        []string `json:"area"`
	} `json:"location"`
}

// Fetch pages through yesterday's it-jobs postings, newest first. An empty
// page or a failed request ends the run; whatever was accumulated is kept.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Job, error) {
	if s.appID == "" || s.appKey == "" {
		log.Printf("[adzuna] missing app_id or app_key, skipping")
		return nil, nil
	}

	var out []domain.Job
	for page := 1; page <= maxPages; page++ {
		jobs, err := s.fetchPage(ctx, page)
		if err != nil {
			log.Printf("[adzuna] page %d: %v", page, err)
			return out, err
		}
		if len(jobs) == 0 {
			break
		}
		out = append(out, jobs...)
	}

	log.Printf("[adzuna] fetched %d jobs", len(out))
	return out, nil
}

func (s *Scraper) fetchPage(ctx context.Context, page int) ([]domain.Job, error) {
	u := fmt.Sprintf("%s/%d?%s", s.base, page, url.Values{
		"app_id":           {s.appID},
		"app_key":          {s.appKey},
		"results_per_page": {strconv.Itoa(resultsPerPage)},
		"category":         {"it-jobs"},
		"max_days_old":     {"1"},
		"content-type":     {"application/json"},
		"sort_by":          {"date"},
	}.Encode())

	if err := s.limiter.WaitURL(ctx, u); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna: status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var jobs []domain.Job
	for i := range body.Results {
		job, ok := s.parseJob(&body.Results[i])
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *Scraper) parseJob(item *apiJob) (domain.Job, bool) {
	// Adzuna wraps matched terms in <strong> tags
	title := util.StripHTML(item.Title)
	if title == "" {
		return domain.Job{}, false
	}
	company := util.CleanText(item.Company.DisplayName)
	if company == "" {
		company = "Unknown"
	}

	desc := util.StripHTML(item.Description)

	// The area array runs country, state, county, city when fully populated.
	locationStr := item.Location.DisplayName
	var city, state string
	if areas := item.Location.Area; len(areas) >= 3 {
		if areas[1] != "US" {
			state = areas[1]
		}
		city = areas[len(areas)-1]
	} else if locationStr != "" {
		city = classify.ExtractCity(locationStr)
		state = classify.NormalizeState(locationStr)
	}

	var salMin, salMax *int
	if item.SalaryMin > 0 {
		v := int(item.SalaryMin)
		salMin = &v
	}
	if item.SalaryMax > 0 {
		v := int(item.SalaryMax)
		salMax = &v
	}

	externalID := strings.Trim(string(item.ID), `"`)
	if externalID == "" || externalID == "null" {
		externalID = util.StableID(title, company, locationStr)
	}

	now := s.now().UTC()
	posted := util.ParseISOTime(item.Created)
	if posted == nil {
		posted = &now
	}

	return domain.Job{
		Source:          domain.SourceAdzuna,
		ExternalID:      externalID,
		Title:           title,
		Company:         company,
		LocationCity:    city,
		LocationState:   state,
		WorkType:        classify.DetectWorkType(title, desc, locationStr),
		SalaryMin:       salMin,
		SalaryMax:       salMax,
		SalaryCurrency:  "USD",
		ExperienceLevel: classify.DetectExperience(title, desc),
		Category:        classify.Categorize(title, desc),
		Skills:          classify.ExtractSkills(desc, domain.MaxSkills),
		Description:     util.Truncate(desc, 5000),
		ApplyURL:        item.RedirectURL,
		PostedAt:        posted,
		ScrapedAt:       now,
		IsActive:        true,
	}, true
}
