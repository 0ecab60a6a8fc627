package httpapi

import (
	"database/sql"

	"techjobs-engine/internal/ingest"
)

type Deps struct {
	DB *sql.DB

	Orch *ingest.Orchestrator

	// Shared secret for the /api/admin endpoints (X-Admin-Key header).
	// Empty means admin access is disabled entirely.
	AdminKey string

	Version string
}
