package httpapi

import (
	"crypto/subtle"
	"database/sql"
	"net/http"

	"techjobs-engine/internal/ingest"
	"techjobs-engine/internal/store"
)

type AdminHandler struct {
	DB       *sql.DB
	Orch     *ingest.Orchestrator
	AdminKey string
}

func (h AdminHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	key := r.Header.Get("X-Admin-Key")
	if h.AdminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.AdminKey)) != 1 {
		WriteError(w, r, http.StatusForbidden, "forbidden", "invalid admin key")
		return false
	}
	return true
}

// TriggerScrape kicks off an ingest run on a detached goroutine and returns
// immediately. An in-flight run is not interrupted or doubled.
func (h AdminHandler) TriggerScrape(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	if !h.Orch.TriggerAsync() {
		WriteError(w, r, http.StatusConflict, "scrape_running", "a scrape is already in progress")
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{
		"status":  "started",
		"message": "check /api/admin/scrape/status for results",
	})
}

func (h AdminHandler) ScrapeStatus(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	writeJSON(w, h.Orch.Status())
}

func (h AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	s, err := store.GetAnalyticsSummary(h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	writeJSON(w, s)
}
