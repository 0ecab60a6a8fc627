package httpapi

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"techjobs-engine/internal/store"
)

type TrackHandler struct {
	DB *sql.DB
}

// Track records a frontend analytics event. It always answers 204: a
// broken tracker must never surface errors to visitors.
func (h TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	var body struct {
		Event string `json:"event"`
		Page  string `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Event == "" {
		return
	}
	if err := store.InsertPageEvent(h.DB, body.Event, body.Page); err != nil {
		log.Printf("[httpapi] track event: %v", err)
	}
}
