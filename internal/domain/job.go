package domain

import "time"

// Source identifiers for the configured providers.
const (
	SourceUSAJobs    = "usajobs"
	SourceAdzuna     = "adzuna"
	SourceTheMuse    = "themuse"
	SourceRemotive   = "remotive"
	SourceGoogleJobs = "google_jobs"
)

// Work arrangement values.
const (
	WorkRemote = "remote"
	WorkHybrid = "hybrid"
	WorkOnsite = "onsite"
)

// Experience levels, least to most senior.
const (
	ExpIntern    = "intern"
	ExpEntry     = "entry"
	ExpMid       = "mid"
	ExpSenior    = "senior"
	ExpExecutive = "executive"
)

// CategoryOther is assigned when no classification rule matches.
const CategoryOther = "Other Tech"

// MaxSkills caps the recognized technology tokens per job.
const MaxSkills = 15

// Job is the canonical normalized listing every adapter produces.
// (Source, ExternalID) is the natural key; ID is assigned at insert time.
type Job struct {
	ID              string     `json:"id"`
	Source          string     `json:"source"`
	ExternalID      string     `json:"external_id"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	LocationCity    string     `json:"location_city,omitempty"`
	LocationState   string     `json:"location_state,omitempty"`
	WorkType        string     `json:"work_type"`
	SalaryMin       *int       `json:"salary_min"`
	SalaryMax       *int       `json:"salary_max"`
	SalaryCurrency  string     `json:"salary_currency"`
	ExperienceLevel string     `json:"experience_level"`
	Category        string     `json:"category"`
	Skills          []string   `json:"skills"`
	Description     string     `json:"description,omitempty"`
	ApplyURL        string     `json:"apply_url,omitempty"`
	CompanyLogo     string     `json:"company_logo,omitempty"`
	PostedAt        *time.Time `json:"posted_at"`
	ScrapedAt       time.Time  `json:"scraped_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PageEvent is a lightweight append-only analytics fact. It has no
// relationship to Job and is never touched by the ingest or query paths.
type PageEvent struct {
	ID        int64     `json:"id"`
	Event     string    `json:"event"`
	Page      string    `json:"page"`
	CreatedAt time.Time `json:"created_at"`
}
