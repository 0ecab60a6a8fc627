package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"techjobs-engine/internal/query"
	"techjobs-engine/internal/store"
)

type JobsHandler struct {
	DB *sql.DB
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := query.Run(h.DB, query.Params{
		Q:            q.Get("q"),
		Category:     q.Get("category"),
		State:        q.Get("state"),
		WorkType:     q.Get("work_type"),
		Experience:   q.Get("experience"),
		SalaryMin:    queryInt(r, "salary_min", 0),
		PostedWithin: q.Get("posted_within"),
		Source:       q.Get("source"),
		Page:         queryInt(r, "page", 1),
		PerPage:      queryInt(r, "per_page", 20),
		Sort:         q.Get("sort"),
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	writeJSON(w, res)
}

// GetByPath serves /api/jobs/{id} and also dispatches the two fixed
// sub-resources that share the prefix.
func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	switch rest {
	case "categories":
		h.Categories(w, r)
		return
	case "locations":
		h.Locations(w, r)
		return
	}

	id, err := uuid.Parse(rest)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid job id")
		return
	}

	job, err := store.GetActiveJob(h.DB, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	writeJSON(w, job)
}

func (h JobsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := store.CategoriesWithCounts(h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	out := make([]map[string]any, 0, len(counts))
	for _, c := range counts {
		out = append(out, map[string]any{"category": c.Value, "count": c.Count})
	}
	writeJSON(w, out)
}

func (h JobsHandler) Locations(w http.ResponseWriter, r *http.Request) {
	counts, err := store.StatesWithCounts(h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	out := make([]map[string]any, 0, len(counts))
	for _, c := range counts {
		out = append(out, map[string]any{"state": c.Value, "count": c.Count})
	}
	writeJSON(w, out)
}
