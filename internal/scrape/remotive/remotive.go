// Package remotive pulls remote tech listings from the Remotive public API.
// No key required.
package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"techjobs-engine/internal/classify"
	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/scrape/util"
)

const baseURL = "https://remotive.com/api/remote-jobs"

// Categories on Remotive that carry tech roles. customer-support is included
// because technical support postings land there.
var techCategories = []string{
	"software-dev",
	"data",
	"devops",
	"qa",
	"product",
	"design",
	"customer-support",
}

var categoryMap = map[string]string{
	"software-dev":     "Software Engineering",
	"data":             "Data Science & Analytics",
	"devops":           "DevOps & Infrastructure",
	"qa":               "Quality Assurance",
	"product":          "Product & Project Management",
	"design":           "UI/UX Design",
	"customer-support": "IT Operations & Support",
}

const maxTagSkills = 10

type Scraper struct {
	hc      *http.Client
	limiter *util.HostLimiter
	now     func() time.Time
	base    string
}

func New(limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		now:     time.Now,
		base:    baseURL,
	}
}

func (s *Scraper) Name() string { return domain.SourceRemotive }

func (s *Scraper) Close() { s.hc.CloseIdleConnections() }

type apiResponse struct {
	Jobs []apiJob `json:"jobs"`
}

type apiJob struct {
	ID                int64    `json:"id"`
	URL               string   `json:"url"`
	Title             string   `json:"title"`
	CompanyName       string   `json:"company_name"`
	CompanyLogo       string   `json:"company_logo"`
	Tags              []string `json:"tags"`
	PublicationDate   string   `json:"publication_date"`
	CandidateLocation string   `json:"candidate_required_location"`
	Salary            string   `json:"salary"`
	Description       string   `json:"description"`
}

// Fetch walks the tech categories and keeps postings from the last 48 hours.
// Remotive timestamps are not always exact, so the window is generous and
// the store's natural key absorbs the repeats.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Job, error) {
	var out []domain.Job
	var lastErr error

	for _, cat := range techCategories {
		jobs, err := s.fetchCategory(ctx, cat)
		if err != nil {
			log.Printf("[remotive] category %q: %v", cat, err)
			lastErr = err
			continue
		}
		out = append(out, jobs...)
	}

	log.Printf("[remotive] fetched %d jobs", len(out))
	return out, lastErr
}

func (s *Scraper) fetchCategory(ctx context.Context, category string) ([]domain.Job, error) {
	u := s.base + "?" + url.Values{"category": {category}}.Encode()
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
		return nil, fmt.Errorf("remotive: status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	cutoff := s.now().UTC().Add(-48 * time.Hour)
	var jobs []domain.Job
	for i := range body.Jobs {
		item := &body.Jobs[i]
		if t := util.ParseISOTime(item.PublicationDate); t != nil && t.Before(cutoff) {
			continue
		}
		job, ok := s.parseJob(item, category)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *Scraper) parseJob(item *apiJob, category string) (domain.Job, bool) {
	title := util.CleanText(item.Title)
	if title == "" {
		return domain.Job{}, false
	}
	company := util.CleanText(item.CompanyName)
	if company == "" {
		company = "Unknown"
	}

	desc := util.Truncate(util.StripHTML(item.Description), 5000)

	var city, state string
	if item.CandidateLocation != "" {
		state = classify.NormalizeState(item.CandidateLocation)
		city = classify.ExtractCity(item.CandidateLocation)
	}

	var salMin, salMax *int
	if item.Salary != "" {
		salMin, salMax = classify.ParseSalary(item.Salary)
	}

	cat, ok := categoryMap[category]
	if !ok {
		cat = classify.Categorize(title, desc)
	}

	skills := item.Tags
	if len(skills) > maxTagSkills {
		skills = skills[:maxTagSkills]
	}
	if len(skills) == 0 {
		skills = classify.ExtractSkills(desc, domain.MaxSkills)
	}

	externalID := strconv.FormatInt(item.ID, 10)
	if item.ID == 0 {
		externalID = util.StableID(title, company, item.CandidateLocation)
	}

	now := s.now().UTC()
	posted := util.ParseISOTime(item.PublicationDate)
	if posted == nil {
		posted = &now
	}

	return domain.Job{
		Source:          domain.SourceRemotive,
		ExternalID:      externalID,
		Title:           title,
		Company:         company,
		LocationCity:    city,
		LocationState:   state,
		WorkType:        domain.WorkRemote,
		SalaryMin:       salMin,
		SalaryMax:       salMax,
		SalaryCurrency:  "USD",
		ExperienceLevel: classify.DetectExperience(title, desc),
		Category:        cat,
		Skills:          skills,
		Description:     desc,
		ApplyURL:        item.URL,
		CompanyLogo:     item.CompanyLogo,
		PostedAt:        posted,
		ScrapedAt:       now,
		IsActive:        true,
	}, true
}
