package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/api/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.GetByPath, // /api/jobs/{id}, /categories, /locations
	}))

	sh := StatsHandler{DB: d.DB}
	mux.HandleFunc("/api/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Get,
	}))

	th := TrackHandler{DB: d.DB}
	mux.HandleFunc("/api/track", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: th.Track,
	}))

	ah := AdminHandler{DB: d.DB, Orch: d.Orch, AdminKey: d.AdminKey}
	mux.HandleFunc("/api/admin/scrape", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.TriggerScrape,
	}))
	mux.HandleFunc("/api/admin/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.ScrapeStatus,
	}))
	mux.HandleFunc("/api/admin/analytics", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Analytics,
	}))

	hh := HealthHandler{Version: d.Version}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
