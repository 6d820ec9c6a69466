package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRecordAndRetrieve(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	started := time.Now().Add(-time.Minute)

	if err := store.RecordStart(ctx, "run-1", started); err != nil {
		t.Fatalf("failed to record start: %v", err)
	}
	if err := store.AppendEvent(ctx, "run-1", "stage_started", "install"); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}
	if err := store.AppendEvent(ctx, "run-1", "stage_completed", "install success in 1s"); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}
	if err := store.RecordFinish(ctx, "run-1", time.Now(), "success", 3, ""); err != nil {
		t.Fatalf("failed to record finish: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != "run-1" || run.Outcome != "success" || run.Entries != 3 {
		t.Errorf("unexpected run: %+v", run)
	}
	if run.Started.Unix() != started.Unix() {
		t.Errorf("start time not preserved: got %v want %v", run.Started, started)
	}

	events, err := store.Events(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "stage_started" || events[0].Detail != "install" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
}

func TestStoreRecentRunsOrderAndLimit(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := store.RecordStart(ctx, id, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("failed to record start: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
	// Unfinished runs have no outcome yet.
	if runs[0].Outcome != "" {
		t.Errorf("expected empty outcome for running run, got %q", runs[0].Outcome)
	}
}

func TestStoreCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store at %s: %v", dbPath, err)
	}
	defer func() { _ = store.Close() }()

	if err := store.RecordStart(context.Background(), "run-1", time.Now()); err != nil {
		t.Fatalf("failed to record start: %v", err)
	}
}
