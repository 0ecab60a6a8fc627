package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"techjobs-engine/internal/domain"
)

// InsertJobIfNew inserts j unless a row with the same (source, external_id)
// already exists. Existing rows are never touched, including inactive ones.
// Returns whether a row was added.
func InsertJobIfNew(db *sql.DB, j domain.Job) (added bool, err error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	if j.ScrapedAt.IsZero() {
		j.ScrapedAt = j.CreatedAt
	}

	skills, err := json.Marshal(j.Skills)
	if err != nil {
		return false, fmt.Errorf("marshal skills: %w", err)
	}
	if j.Skills == nil {
		skills = []byte("[]")
	}

	_, err = db.Exec(`
INSERT OR IGNORE INTO jobs (
  id, source, external_id, title, company, location_city, location_state,
  work_type, salary_min, salary_max, salary_currency, experience_level,
  category, skills, description, apply_url, company_logo,
  posted_at, scraped_at, expires_at, is_active, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		j.ID, j.Source, j.ExternalID, j.Title, j.Company, j.LocationCity, j.LocationState,
		j.WorkType, j.SalaryMin, j.SalaryMax, j.SalaryCurrency, j.ExperienceLevel,
		j.Category, string(skills), j.Description, j.ApplyURL, j.CompanyLogo,
		fmtTimePtr(j.PostedAt), fmtTime(j.ScrapedAt), fmtTimePtr(j.ExpiresAt),
		boolToInt(j.IsActive), fmtTime(j.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	var changes int
	if e := db.QueryRow(`SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// RebuildSearchText fills search_text and the FTS index for rows that do not
// have it yet. New rows always arrive with search_text NULL, so this is a
// cheap incremental pass after each ingest run.
func RebuildSearchText(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO jobs_fts (job_id, body)
SELECT id, title || ' ' || company || ' ' || description || ' ' || location_city || ' ' || location_state
FROM jobs WHERE search_text IS NULL;`); err != nil {
		return 0, fmt.Errorf("index search text: %w", err)
	}

	res, err := tx.Exec(`
UPDATE jobs
SET search_text = title || ' ' || company || ' ' || description || ' ' || location_city || ' ' || location_state
WHERE search_text IS NULL;`)
	if err != nil {
		return 0, fmt.Errorf("update search text: %w", err)
	}
	n, _ := res.RowsAffected()

	return int(n), tx.Commit()
}

// ExpireOldJobs deactivates active jobs whose posted_at is older than the
// cutoff. Jobs with no posted_at are left alone.
func ExpireOldJobs(db *sql.DB, olderThan time.Duration) (int, error) {
	cutoff := fmtTime(time.Now().UTC().Add(-olderThan))
	res, err := db.Exec(`
UPDATE jobs SET is_active = 0
WHERE is_active = 1 AND posted_at IS NOT NULL AND posted_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ListFilters narrows ListJobs. Zero values mean "no constraint". Match, when
// set, is a ready-made fts5 MATCH expression.
type ListFilters struct {
	Match        string
	Category     string
	State        string
	WorkType     string
	Experience   string
	Source       string
	SalaryMin    int
	PostedWithin time.Duration
}

const (
	SortPostedAt  = "posted_at"
	SortSalaryMax = "salary_max"
)

func buildWhere(f ListFilters) (string, []any) {
	where := []string{"is_active = 1"}
	var args []any

	if f.Match != "" {
		where = append(where, "id IN (SELECT job_id FROM jobs_fts WHERE jobs_fts MATCH ?)")
		args = append(args, f.Match)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.State != "" {
		where = append(where, "location_state = ?")
		args = append(args, f.State)
	}
	if f.WorkType != "" {
		where = append(where, "work_type = ?")
		args = append(args, f.WorkType)
	}
	if f.Experience != "" {
		where = append(where, "experience_level = ?")
		args = append(args, f.Experience)
	}
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, f.Source)
	}
	if f.SalaryMin > 0 {
		where = append(where, "(salary_min >= ? OR salary_max >= ?)")
		args = append(args, f.SalaryMin, f.SalaryMin)
	}
	if f.PostedWithin > 0 {
		where = append(where, "posted_at >= ?")
		args = append(args, fmtTime(time.Now().UTC().Add(-f.PostedWithin)))
	}

	return strings.Join(where, " AND "), args
}

// CountActiveMatching is the probe the search widening logic runs before
// committing to a MATCH expression. Only is_active constrains it; the other
// filters are applied after the phase is chosen.
func CountActiveMatching(db *sql.DB, match string) (int, error) {
	var n int
	err := db.QueryRow(`
SELECT COUNT(*) FROM jobs
WHERE is_active = 1 AND id IN (SELECT job_id FROM jobs_fts WHERE jobs_fts MATCH ?);`, match).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count match: %w", err)
	}
	return n, nil
}

// ListJobs returns one page of active jobs plus the total count across all
// pages. Sorting pushes NULL values last regardless of direction.
func ListJobs(db *sql.DB, f ListFilters, sort string, limit, offset int) ([]domain.Job, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM jobs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	orderBy := "(posted_at IS NULL), posted_at DESC"
	if sort == SortSalaryMax {
		orderBy = "(salary_max IS NULL), salary_max DESC"
	}

	q := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + where +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	rows, err := db.Query(q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

// GetActiveJob looks up one active job by id. Inactive and unknown ids both
// come back as sql.ErrNoRows.
func GetActiveJob(db *sql.DB, id string) (domain.Job, error) {
	row := db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ? AND is_active = 1`, id)
	return scanJob(row)
}

const jobColumns = `id, source, external_id, title, company, location_city, location_state,
  work_type, salary_min, salary_max, salary_currency, experience_level,
  category, skills, description, apply_url, company_logo,
  posted_at, scraped_at, expires_at, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (domain.Job, error) {
	var (
		j                             domain.Job
		salMin, salMax                sql.NullInt64
		skills                        string
		postedAt, scrapedAt, expires  sql.NullString
		createdAt                     sql.NullString
		active                        int
	)
	err := r.Scan(
		&j.ID, &j.Source, &j.ExternalID, &j.Title, &j.Company, &j.LocationCity, &j.LocationState,
		&j.WorkType, &salMin, &salMax, &j.SalaryCurrency, &j.ExperienceLevel,
		&j.Category, &skills, &j.Description, &j.ApplyURL, &j.CompanyLogo,
		&postedAt, &scrapedAt, &expires, &active, &createdAt,
	)
	if err != nil {
		return domain.Job{}, err
	}

	if salMin.Valid {
		v := int(salMin.Int64)
		j.SalaryMin = &v
	}
	if salMax.Valid {
		v := int(salMax.Int64)
		j.SalaryMax = &v
	}
	j.Skills = []string{}
	_ = json.Unmarshal([]byte(skills), &j.Skills)
	j.PostedAt = parseTimePtr(postedAt)
	if t := parseTimePtr(scrapedAt); t != nil {
		j.ScrapedAt = *t
	}
	j.ExpiresAt = parseTimePtr(expires)
	j.IsActive = active != 0
	if t := parseTimePtr(createdAt); t != nil {
		j.CreatedAt = *t
	}
	return j, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
