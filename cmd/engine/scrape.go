package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one ingest cycle and exit",
	RunE:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	defer eng.db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, ran := eng.orch.Run(ctx)
	if !ran {
		return fmt.Errorf("a run is already in progress")
	}

	var errs int
	for _, r := range st.Results {
		errs += r.Errors
	}
	if errs > 0 && len(st.Results) > 0 {
		allFailed := true
		for _, r := range st.Results {
			if r.Errors == 0 {
				allFailed = false
				break
			}
		}
		if allFailed {
			return fmt.Errorf("every source reported errors")
		}
	}
	return nil
}
