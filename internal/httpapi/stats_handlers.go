package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"techjobs-engine/internal/store"
)

type StatsHandler struct {
	DB *sql.DB
}

type statsResponse struct {
	TotalJobs      int              `json:"total_jobs"`
	ActiveJobs     int              `json:"active_jobs"`
	TotalCompanies int              `json:"total_companies"`
	Sources        map[string]int   `json:"sources"`
	Categories     []map[string]any `json:"categories"`
	LastScraped    *time.Time       `json:"last_scraped"`
}

func (h StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	cats, err := store.CategoriesWithCounts(h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}

	out := statsResponse{
		TotalJobs:      stats.TotalJobs,
		ActiveJobs:     stats.ActiveJobs,
		TotalCompanies: stats.TotalCompanies,
		Sources:        stats.Sources,
		Categories:     make([]map[string]any, 0, len(cats)),
		LastScraped:    stats.LastScraped,
	}
	for _, c := range cats {
		out.Categories = append(out.Categories, map[string]any{"category": c.Value, "count": c.Count})
	}
	writeJSON(w, out)
}
