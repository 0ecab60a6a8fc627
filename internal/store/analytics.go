package store

import (
	"database/sql"
	"fmt"
	"time"
)

// InsertPageEvent appends one analytics fact. Events and pages are capped so
// a misbehaving client cannot bloat the table.
func InsertPageEvent(db *sql.DB, event, page string) error {
	if len(event) > 50 {
		event = event[:50]
	}
	if len(page) > 100 {
		page = page[:100]
	}
	_, err := db.Exec(`INSERT INTO analytics (event, page, created_at) VALUES (?, ?, ?);`,
		event, page, fmtTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

type AnalyticsSummary struct {
	TotalEvents int            `json:"total_events"`
	Today       int            `json:"today"`
	Last7Days   int            `json:"last_7_days"`
	Last30Days  int            `json:"last_30_days"`
	ByEvent     map[string]int `json:"by_event"`
	ByPage      map[string]int `json:"by_page"`
}

func GetAnalyticsSummary(db *sql.DB) (AnalyticsSummary, error) {
	s := AnalyticsSummary{ByEvent: map[string]int{}, ByPage: map[string]int{}}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int
		since *time.Time
	}{
		{&s.TotalEvents, nil},
		{&s.Today, &midnight},
		{&s.Last7Days, ptrTime(now.AddDate(0, 0, -7))},
		{&s.Last30Days, ptrTime(now.AddDate(0, 0, -30))},
	}
	for _, c := range counts {
		q := `SELECT COUNT(*) FROM analytics`
		var args []any
		if c.since != nil {
			q += ` WHERE created_at >= ?`
			args = append(args, fmtTime(*c.since))
		}
		if err := db.QueryRow(q, args...).Scan(c.dst); err != nil {
			return s, fmt.Errorf("analytics summary: %w", err)
		}
	}

	for column, dst := range map[string]map[string]int{"event": s.ByEvent, "page": s.ByPage} {
		rows, err := db.Query(`SELECT ` + column + `, COUNT(*) FROM analytics GROUP BY ` + column + `;`)
		if err != nil {
			return s, fmt.Errorf("analytics summary: %w", err)
		}
		for rows.Next() {
			var k string
			var n int
			if err := rows.Scan(&k, &n); err != nil {
				rows.Close()
				return s, err
			}
			dst[k] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return s, err
		}
		rows.Close()
	}

	return s, nil
}

func ptrTime(t time.Time) *time.Time { return &t }
