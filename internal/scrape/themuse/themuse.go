// Package themuse pulls US tech listings from The Muse public jobs API.
// No key required.
package themuse

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

const baseURL = "https://www.themuse.com/api/public/jobs"

const maxPages = 5

var techCategories = []string{
	"Software Engineering",
	"Data Science",
	"Data and Analytics",
	"IT",
	"Design and UX",
	"Product",
	"Project Management",
}

var categoryMap = map[string]string{
	"Software Engineering": "Software Engineering",
	"Data Science":         "Data Science & Analytics",
	"Data and Analytics":   "Data Science & Analytics",
	"IT":                   "IT Operations & Support",
	"Design and UX":        "UI/UX Design",
	"Product":              "Product & Project Management",
	"Project Management":   "Product & Project Management",
}

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

func (s *Scraper) Name() string { return domain.SourceTheMuse }

func (s *Scraper) Close() { s.hc.CloseIdleConnections() }

type apiResponse struct {
	Results []apiJob `json:"results"`
}

type apiJob struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Contents        string `json:"contents"`
	PublicationDate string `json:"publication_date"`
	Company         struct {
		Name string `json:"name"`
	} `json:"company"`
	Locations []struct {
		Name string `json:"name"`
	} `json:"locations"`
	Refs struct {
		LandingPage string `json:"landing_page"`
		LogoImage   string `json:"logo_image"`
	} `json:"refs"`
}

// Fetch pages through each tech category, keeping postings from the last
// 48 hours. A category's page loop stops on its first failed request.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Job, error) {
	var out []domain.Job
	var lastErr error

	for _, cat := range techCategories {
		jobs, err := s.fetchCategory(ctx, cat)
		out = append(out, jobs...)
		if err != nil {
			log.Printf("[themuse] category %q: %v", cat, err)
			lastErr = err
		}
	}

	log.Printf("[themuse] fetched %d jobs", len(out))
	return out, lastErr
}

func (s *Scraper) fetchCategory(ctx context.Context, category string) ([]domain.Job, error) {
	var jobs []domain.Job
	cutoff := s.now().UTC().Add(-48 * time.Hour)

	for page := 0; page < maxPages; page++ {
		u := s.base + "?" + url.Values{
			"category": {category},
			"location": {"United States"},
			"page":     {strconv.Itoa(page)},
		}.Encode()

		results, err := s.fetchPage(ctx, u)
		if err != nil {
			return jobs, fmt.Errorf("page %d: %w", page, err)
		}
		if len(results) == 0 {
			break
		}

		for i := range results {
			item := &results[i]
			if t := util.ParseISOTime(item.PublicationDate); t != nil && t.Before(cutoff) {
				continue
			}
			job, ok := s.parseJob(item, category)
			if !ok {
				continue
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (s *Scraper) fetchPage(ctx context.Context, u string) ([]apiJob, error) {
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
		return nil, fmt.Errorf("themuse: status %d", resp.StatusCode)
	}
	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return body.Results, nil
}

func (s *Scraper) parseJob(item *apiJob, category string) (domain.Job, bool) {
	title := util.CleanText(item.Name)
	if title == "" {
		return domain.Job{}, false
	}
	company := util.CleanText(item.Company.Name)
	if company == "" {
		company = "Unknown"
	}

	desc := util.Truncate(util.StripHTML(item.Contents), 5000)

	var city, state, locationStr string
	workType := ""
	if len(item.Locations) > 0 {
		locationStr = item.Locations[0].Name
		low := strings.ToLower(locationStr)
		if strings.Contains(low, "flexible") || strings.Contains(low, "remote") {
			workType = domain.WorkRemote
		} else {
			city = classify.ExtractCity(locationStr)
			state = classify.NormalizeState(locationStr)
		}
	}
	if workType == "" {
		workType = classify.DetectWorkType(title, desc, locationStr)
	}

	cat, ok := categoryMap[category]
	if !ok {
		cat = classify.Categorize(title, desc)
	}

	externalID := strconv.FormatInt(item.ID, 10)
	if item.ID == 0 {
		externalID = util.StableID(title, company, locationStr)
	}

	now := s.now().UTC()
	posted := util.ParseISOTime(item.PublicationDate)
	if posted == nil {
		posted = &now
	}

	return domain.Job{
		Source:          domain.SourceTheMuse,
		ExternalID:      externalID,
		Title:           title,
		Company:         company,
		LocationCity:    city,
		LocationState:   state,
		WorkType:        workType,
		SalaryCurrency:  "USD",
		ExperienceLevel: classify.DetectExperience(title, desc),
		Category:        cat,
		Skills:          classify.ExtractSkills(desc, domain.MaxSkills),
		Description:     desc,
		ApplyURL:        item.Refs.LandingPage,
		CompanyLogo:     item.Refs.LogoImage,
		PostedAt:        posted,
		ScrapedAt:       now,
		IsActive:        true,
	}, true
}
