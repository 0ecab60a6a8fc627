// Package ingest runs the configured sources in sequence and lands their
// jobs in the store. One run is the unit the scheduler and the admin trigger
// both invoke.
package ingest

import (
	"context"
	"database/sql"
	"log"
	"math"
	"sync/atomic"
	"time"

	"techjobs-engine/internal/scrape/types"
	"techjobs-engine/internal/store"
)

type SourceResult struct {
	Source          string  `json:"source"`
	JobsAdded       int     `json:"jobs_added"`
	JobsSkipped     int     `json:"jobs_skipped"`
	Errors          int     `json:"errors"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type RunStatus struct {
	Running     bool           `json:"running"`
	Results     []SourceResult `json:"results"`
	StartedAt   *time.Time     `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	Expired     int            `json:"expired_jobs"`
}

type Orchestrator struct {
	db          *sql.DB
	fetchers    []types.Fetcher
	pause       time.Duration
	expireAfter time.Duration

	status  atomic.Value // RunStatus
	running atomic.Bool
}

func New(db *sql.DB, fetchers []types.Fetcher, pause, expireAfter time.Duration) *Orchestrator {
	o := &Orchestrator{
		db:          db,
		fetchers:    fetchers,
		pause:       pause,
		expireAfter: expireAfter,
	}
	o.status.Store(RunStatus{})
	return o
}

// Status returns a snapshot of the last (or in-flight) run.
func (o *Orchestrator) Status() RunStatus {
	return o.status.Load().(RunStatus)
}

// TriggerAsync starts a run on a detached goroutine. Returns false when a
// run is already in flight.
func (o *Orchestrator) TriggerAsync() bool {
	if !o.running.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer o.running.Store(false)
		o.run(context.Background())
	}()
	return true
}

// Run executes one full ingest cycle, refusing to overlap a run already in
// flight.
func (o *Orchestrator) Run(ctx context.Context) (RunStatus, bool) {
	if !o.running.CompareAndSwap(false, true) {
		return o.Status(), false
	}
	defer o.running.Store(false)
	return o.run(ctx), true
}

func (o *Orchestrator) run(ctx context.Context) RunStatus {
	started := time.Now().UTC()
	log.Printf("[ingest] run started, %d sources", len(o.fetchers))

	st := RunStatus{Running: true, StartedAt: &started, Results: []SourceResult{}}
	o.status.Store(st)

	for i, f := range o.fetchers {
		res := o.runSource(ctx, f)
		st.Results = append(st.Results, res)
		o.status.Store(st)

		if i < len(o.fetchers)-1 && o.pause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(o.pause):
			}
		}
	}

	if n, err := store.RebuildSearchText(o.db); err != nil {
		log.Printf("[ingest] rebuild search text: %v", err)
	} else if n > 0 {
		log.Printf("[ingest] indexed %d new jobs for search", n)
	}

	if o.expireAfter > 0 {
		n, err := store.ExpireOldJobs(o.db, o.expireAfter)
		if err != nil {
			log.Printf("[ingest] expire old jobs: %v", err)
		} else if n > 0 {
			log.Printf("[ingest] expired %d old jobs", n)
		}
		st.Expired = n
	}

	completed := time.Now().UTC()
	st.Running = false
	st.CompletedAt = &completed
	o.status.Store(st)

	var added, skipped, errs int
	for _, r := range st.Results {
		added += r.JobsAdded
		skipped += r.JobsSkipped
		errs += r.Errors
	}
	log.Printf("[ingest] run complete: +%d new, %d dupes, %d errors, %.1fs",
		added, skipped, errs, completed.Sub(started).Seconds())

	return st
}

// runSource fetches one provider and inserts what it returned. A fetch
// error still lands the partial batch; a bad row is logged and skipped
// without aborting the rest of the batch.
func (o *Orchestrator) runSource(ctx context.Context, f types.Fetcher) SourceResult {
	start := time.Now()
	res := SourceResult{Source: f.Name()}
	defer f.Close()

	jobs, err := f.Fetch(ctx)
	if err != nil {
		log.Printf("[ingest] %s: fetch failed: %v", f.Name(), err)
		res.Errors++
	}

	for _, j := range jobs {
		added, err := store.InsertJobIfNew(o.db, j)
		if err != nil {
			log.Printf("[ingest] %s: insert %s: %v", f.Name(), j.ExternalID, err)
			res.Errors++
			continue
		}
		if added {
			res.JobsAdded++
		} else {
			res.JobsSkipped++
		}
	}

	res.DurationSeconds = math.Round(time.Since(start).Seconds()*10) / 10
	log.Printf("[ingest] %s: +%d new, %d dupes, %d errors, %.1fs",
		f.Name(), res.JobsAdded, res.JobsSkipped, res.Errors, res.DurationSeconds)
	return res
}
