package pipeline

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitedeploy/internal/history"
)

// historyObserver persists run lifecycle events to the run store.
// All writes are best-effort: a history failure must never fail a deploy.
type historyObserver struct {
	store *history.Store
	runID string
}

// NewHistoryObserver wraps a run store as a DeployObserver.
func NewHistoryObserver(store *history.Store) DeployObserver {
	return &historyObserver{store: store}
}

func (h *historyObserver) OnDeployStart(report *DeployReport) {
	h.runID = report.RunID
	if err := h.store.RecordStart(context.Background(), report.RunID, report.Start); err != nil {
		slog.Warn("Failed to record run start", "run_id", report.RunID, "error", err)
	}
}

func (h *historyObserver) OnStageStart(stage StageName) {
	if err := h.store.AppendEvent(context.Background(), h.runID, "stage_started", string(stage)); err != nil {
		slog.Warn("Failed to record stage start", "stage", stage, "error", err)
	}
}

func (h *historyObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	detail := string(stage) + " " + string(result) + " in " + d.String()
	if err := h.store.AppendEvent(context.Background(), h.runID, "stage_completed", detail); err != nil {
		slog.Warn("Failed to record stage completion", "stage", stage, "error", err)
	}
}

func (h *historyObserver) OnDeployComplete(report *DeployReport) {
	errMsg := ""
	if err := report.FirstError(); err != nil {
		errMsg = err.Error()
	}
	err := h.store.RecordFinish(context.Background(), report.RunID, report.End,
		string(report.Outcome), report.EntriesRelocated, errMsg)
	if err != nil {
		slog.Warn("Failed to record run finish", "run_id", report.RunID, "error", err)
	}
}
