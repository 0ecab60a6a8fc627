package query

import (
	"database/sql"
	"time"

	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/store"
)

// Params carries everything the jobs listing endpoint accepts. Zero values
// mean "no constraint"; Page and PerPage are normalized by Run.
type Params struct {
	Q            string
	Category     string
	State        string
	WorkType     string
	Experience   string
	SalaryMin    int
	PostedWithin string
	Source       string
	Page         int
	PerPage      int
	Sort         string
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// postedWithinDays maps the wire tokens to day windows. Unknown non-empty
// values fall back to the widest window rather than erroring.
var postedWithinDays = map[string]int{
	"1d":  1,
	"3d":  3,
	"7d":  7,
	"14d": 14,
	"30d": 30,
}

type Result struct {
	Jobs       []domain.Job `json:"jobs"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
}

// Run resolves the search phase, applies filters, and returns one page.
func Run(db *sql.DB, p Params) (Result, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}

	match, err := ResolveSearch(db, p.Q)
	if err != nil {
		return Result{}, err
	}

	f := store.ListFilters{
		Match:      match,
		Category:   p.Category,
		State:      p.State,
		WorkType:   p.WorkType,
		Experience: p.Experience,
		Source:     p.Source,
		SalaryMin:  p.SalaryMin,
	}
	if p.PostedWithin != "" {
		days, ok := postedWithinDays[p.PostedWithin]
		if !ok {
			days = 30
		}
		f.PostedWithin = time.Duration(days) * 24 * time.Hour
	}

	sort := store.SortPostedAt
	if p.Sort == store.SortSalaryMax {
		sort = store.SortSalaryMax
	}

	offset := (p.Page - 1) * p.PerPage
	jobs, total, err := store.ListJobs(db, f, sort, p.PerPage, offset)
	if err != nil {
		return Result{}, err
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + p.PerPage - 1) / p.PerPage
	}

	return Result{
		Jobs:       jobs,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
	}, nil
}
