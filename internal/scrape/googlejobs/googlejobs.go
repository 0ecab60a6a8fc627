// Package googlejobs pulls Google Jobs search results through an Apify
// actor. Google Jobs aggregates LinkedIn, Indeed, Glassdoor and a couple of
// dozen other boards, so this is the widest net of the configured sources.
// Requires an Apify API token.
package googlejobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"techjobs-engine/internal/classify"
	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/scrape/util"
)

const (
	apifyBase = "https://api.apify.com/v2"
	actorID   = "orgupdate~google-jobs-scraper"

	// one actor run costs about a dollar, so all queries go in one batch
	runTimeout = 300 * time.Second
	runMemory  = 512
)

var searchQueries = []string{
	"software engineer United States",
	"data scientist jobs USA",
	"devops engineer remote USA",
	"cybersecurity analyst United States",
	"cloud engineer AWS Azure",
	"full stack developer",
	"machine learning engineer",
	"frontend developer React",
	"backend developer Python Java",
	"QA engineer",
	"IT support specialist",
	"network engineer",
	"systems administrator",
	"data engineer",
	"product manager tech",
}

type Scraper struct {
	hc      *http.Client
	limiter *util.HostLimiter
	now     func() time.Time
	base    string

	apiToken string
}

func New(apiToken string, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		// run-sync blocks until the actor finishes, so the client timeout
		// has to outlast the actor timeout
		hc:       &http.Client{Timeout: runTimeout + 60*time.Second},
		limiter:  limiter,
		now:      time.Now,
		base:     apifyBase,
		apiToken: apiToken,
	}
}

func (s *Scraper) Name() string { return domain.SourceGoogleJobs }

func (s *Scraper) Close() { s.hc.CloseIdleConnections() }

// item is decoded loosely because different actor versions emit different
// field names for the same thing.
type item map[string]json.RawMessage

func (it item) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := it[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

type applyOption struct {
	Link string `json:"link"`
	URL  string `json:"url"`
}

func (it item) applyOptions() []applyOption {
	for _, k := range []string{"apply_options", "applyOptions"} {
		raw, ok := it[k]
		if !ok {
			continue
		}
		var opts []applyOption
		if err := json.Unmarshal(raw, &opts); err == nil && len(opts) > 0 {
			return opts
		}
	}
	return nil
}

// Fetch starts one batched actor run for all queries and drains the run's
// dataset. Apify quota exhaustion is treated as a skip, not a failure.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Job, error) {
	if s.apiToken == "" {
		log.Printf("[googlejobs] missing apify token, skipping")
		return nil, nil
	}

	log.Printf("[googlejobs] running batch of %d queries", len(searchQueries))
	items, err := s.runActor(ctx)
	if err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "usage") || strings.Contains(low, "limit") {
			log.Printf("[googlejobs] monthly credits exhausted, skipping until next cycle")
			return nil, nil
		}
		log.Printf("[googlejobs] actor run: %v", err)
		return nil, err
	}

	var out []domain.Job
	seen := make(map[string]bool)
	for _, it := range items {
		job, ok := s.parseJob(it)
		if !ok || seen[job.ExternalID] {
			continue
		}
		seen[job.ExternalID] = true
		out = append(out, job)
	}

	log.Printf("[googlejobs] actor returned %d items, parsed %d unique jobs", len(items), len(out))
	return out, nil
}

// runActor uses the run-sync endpoint, which holds the request open until
// the actor finishes and answers with the default dataset's items.
func (s *Scraper) runActor(ctx context.Context) ([]item, error) {
	input, err := json.Marshal(map[string]any{
		"queries":           searchQueries,
		"maxPagesPerQuery":  2,
		"csvFriendlyOutput": false,
		"languageCode":      "en",
		"countryCode":       "us",
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?%s", s.base, actorID, url.Values{
		"token":   {s.apiToken},
		"timeout": {strconv.Itoa(int(runTimeout.Seconds()))},
		"memory":  {strconv.Itoa(runMemory)},
	}.Encode())

	if err := s.limiter.WaitURL(ctx, u); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("apify: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var items []item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return items, nil
}

func (s *Scraper) parseJob(it item) (domain.Job, bool) {
	title := util.CleanText(it.str("title", "job_title", "positionName"))
	if title == "" {
		return domain.Job{}, false
	}
	company := util.CleanText(it.str("companyName", "company_name", "company"))
	if company == "" {
		company = "Unknown"
	}

	locationStr := it.str("location", "jobLocation")
	city := classify.ExtractCity(locationStr)
	state := classify.NormalizeState(locationStr)

	salMin, salMax := classify.ParseSalary(it.str("salary", "salaryRange"))

	desc := util.Truncate(util.StripHTML(it.str("description", "job_description", "jobDescription")), 5000)

	workType := classify.DetectWorkType(title, desc, locationStr)
	if jt := it.str("jobType", "job_type", "employment_type", "employmentType"); strings.Contains(strings.ToLower(jt), "remote") {
		workType = domain.WorkRemote
	}

	applyURL := it.str("applyLink", "url", "apply_link", "link")
	if opts := it.applyOptions(); len(opts) > 0 {
		if opts[0].Link != "" {
			applyURL = opts[0].Link
		} else if opts[0].URL != "" {
			applyURL = opts[0].URL
		}
	}

	externalID := it.str("id", "jobId", "job_id")
	if externalID == "" {
		externalID = util.StableID(title, company, locationStr)
	}

	now := s.now().UTC()
	posted := s.parseDate(it.str("datePosted", "date", "date_posted", "postedAt"))
	if posted == nil {
		posted = &now
	}

	return domain.Job{
		Source:          domain.SourceGoogleJobs,
		ExternalID:      externalID,
		Title:           title,
		Company:         company,
		LocationCity:    city,
		LocationState:   state,
		WorkType:        workType,
		SalaryMin:       salMin,
		SalaryMax:       salMax,
		SalaryCurrency:  "USD",
		ExperienceLevel: classify.DetectExperience(title, desc),
		Category:        classify.Categorize(title, desc),
		Skills:          classify.ExtractSkills(desc, domain.MaxSkills),
		Description:     desc,
		ApplyURL:        applyURL,
		CompanyLogo:     it.str("companyLogo", "company_logo", "thumbnail"),
		PostedAt:        posted,
		ScrapedAt:       now,
		IsActive:        true,
	}, true
}

var (
	hoursAgoRe = regexp.MustCompile(`(\d+)\s*hour`)
	daysAgoRe  = regexp.MustCompile(`(\d+)\s*day`)
)

// parseDate handles the relative forms Google Jobs emits ("3 days ago",
// "2 hours ago", "just now") plus plain ISO dates.
func (s *Scraper) parseDate(raw string) *time.Time {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}

	now := s.now().UTC()
	if strings.Contains(raw, "just now") || strings.Contains(raw, "today") {
		return &now
	}
	if m := hoursAgoRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		t := now.Add(-time.Duration(n) * time.Hour)
		return &t
	}
	if m := daysAgoRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		t := now.Add(-time.Duration(n) * 24 * time.Hour)
		return &t
	}
	return util.ParseISOTime(raw)
}
