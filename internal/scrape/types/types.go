// Package types defines the contract between the ingest orchestrator and the
// per-provider scrapers.
package types

import (
	"context"

	"techjobs-engine/internal/domain"
)

// Fetcher is the capability every job source implements. Fetch re-queries
// the provider from scratch on each call and returns whatever it managed to
// accumulate; a non-nil error means a request-level failure was hit and the
// returned slice is partial. Items that fail to parse are skipped inside
// Fetch, never surfaced. Close releases held connections.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Job, error)
	Close()
}
