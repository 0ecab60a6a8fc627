package store

import (
	"database/sql"
	"fmt"
	"time"
)

type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func facetQuery(db *sql.DB, column string) ([]FacetCount, error) {
	rows, err := db.Query(`
SELECT ` + column + `, COUNT(*) AS n FROM jobs
WHERE is_active = 1 AND ` + column + ` != ''
GROUP BY ` + column + ` ORDER BY n DESC;`)
	if err != nil {
		return nil, fmt.Errorf("facet %s: %w", column, err)
	}
	defer rows.Close()

	var out []FacetCount
	for rows.Next() {
		var f FacetCount
		if err := rows.Scan(&f.Value, &f.Count); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CategoriesWithCounts returns active-job counts per category, busiest first.
func CategoriesWithCounts(db *sql.DB) ([]FacetCount, error) {
	return facetQuery(db, "category")
}

// StatesWithCounts returns active-job counts per state, busiest first.
func StatesWithCounts(db *sql.DB) ([]FacetCount, error) {
	return facetQuery(db, "location_state")
}

type Stats struct {
	TotalJobs      int            `json:"total_jobs"`
	ActiveJobs     int            `json:"active_jobs"`
	TotalCompanies int            `json:"total_companies"`
	Sources        map[string]int `json:"sources"`
	LastScraped    *time.Time     `json:"last_scraped"`
}

func GetStats(db *sql.DB) (Stats, error) {
	var s Stats
	if err := db.QueryRow(`SELECT COUNT(*) FROM jobs;`).Scan(&s.TotalJobs); err != nil {
		return s, fmt.Errorf("stats: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM jobs WHERE is_active = 1;`).Scan(&s.ActiveJobs); err != nil {
		return s, fmt.Errorf("stats: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(DISTINCT company) FROM jobs WHERE is_active = 1;`).Scan(&s.TotalCompanies); err != nil {
		return s, fmt.Errorf("stats: %w", err)
	}

	s.Sources = map[string]int{}
	rows, err := db.Query(`SELECT source, COUNT(*) FROM jobs WHERE is_active = 1 GROUP BY source;`)
	if err != nil {
		return s, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return s, err
		}
		s.Sources[src] = n
	}
	if err := rows.Err(); err != nil {
		return s, err
	}

	var last sql.NullString
	if err := db.QueryRow(`SELECT MAX(scraped_at) FROM jobs;`).Scan(&last); err != nil {
		return s, fmt.Errorf("stats: %w", err)
	}
	s.LastScraped = parseTimePtr(last)

	return s, nil
}
