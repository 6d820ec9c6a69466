package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitedeploy/internal/config"
	"git.home.luguber.info/inful/sitedeploy/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to show"`
	RunID string `short:"r" name:"run" help:"Show the event log for a specific run ID"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.HistoryEnabled() {
		return fmt.Errorf("run history is disabled in configuration")
	}

	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close run store", "error", err)
		}
	}()

	ctx := context.Background()
	if h.RunID != "" {
		return printRunEvents(ctx, store, h.RunID)
	}
	return printRecentRuns(ctx, store, h.Limit)
}

func printRecentRuns(ctx context.Context, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No deploy runs recorded")
		return nil
	}

	for _, r := range runs {
		outcome := r.Outcome
		if outcome == "" {
			outcome = "running"
		}
		line := fmt.Sprintf("%s  %s  %-8s  entries=%d",
			r.Started.Format("2006-01-02 15:04:05"), r.ID, outcome, r.Entries)
		if r.Error != "" {
			line += "  error=" + r.Error
		}
		fmt.Println(line)
	}
	return nil
}

func printRunEvents(ctx context.Context, store *history.Store, runID string) error {
	events, err := store.Events(ctx, runID)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		fmt.Printf("No events recorded for run %s\n", runID)
		return nil
	}

	for _, e := range events {
		fmt.Printf("%s  %-16s  %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Detail)
	}
	return nil
}
