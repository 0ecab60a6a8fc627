// Package sched wires up the cron job that runs the daily ingest cycle.
package sched

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"techjobs-engine/internal/ingest"
)

// Scheduler wraps robfig/cron around the ingest orchestrator.
type Scheduler struct {
	cron *cron.Cron
	orch *ingest.Orchestrator
	spec string // cron spec, e.g. "0 2 * * *"
}

func New(orch *ingest.Orchestrator, spec string) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		orch: orch,
		spec: spec,
	}
}

// Start registers the ingest job and starts the cron loop. A tick that
// lands while a manual run is in flight is dropped, not queued.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, ran := s.orch.Run(ctx); !ran {
			log.Printf("[sched] tick skipped, a run is already in progress")
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[sched] cron started, spec %q", s.spec)
	return nil
}

// Stop shuts the scheduler down, waiting for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Printf("[sched] cron stopped")
}
