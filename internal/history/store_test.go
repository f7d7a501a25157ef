package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.BeginRun(ctx, RunInfo{
		ToolVersion:    "kty 0.4.1",
		ReleaseVersion: "2026-08-29",
		DictType:       "ipa",
		Workers:        4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	outcomes := []Outcome{
		{DictType: "ipa", Source: "el", Target: "ja", Class: "success", ExitCode: 0},
		{DictType: "ipa", Source: "el", Target: "ku", Class: "no-entries", ExitCode: 1},
		{DictType: "ipa", Source: "en", Target: "ku", Class: "skipped", ExitCode: 7},
	}
	for _, outcome := range outcomes {
		if err := store.RecordOutcome(ctx, id, outcome); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.FinishRun(ctx, id, StatusSucceeded, 2, 4096, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != id || run.Status != StatusSucceeded || run.DictCount != 2 || run.TotalBytes != 4096 {
		t.Errorf("run = %+v", run)
	}
	if run.FinishedAt == nil || run.Elapsed() < 0 {
		t.Errorf("finish time not recorded: %+v", run)
	}
	if run.DictType != "ipa" || run.Workers != 4 {
		t.Errorf("run metadata = %+v", run)
	}

	counts, err := store.OutcomeCounts(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if counts["success"] != 1 || counts["no-entries"] != 1 || counts["skipped"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestFinishRunRecordsError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.BeginRun(ctx, RunInfo{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.FinishRun(ctx, id, StatusFailed, 0, 0, errors.New("tool exited 9")); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Status != StatusFailed || runs[0].Error != "tool exited 9" || !runs[0].DryRun {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.BeginRun(ctx, RunInfo{})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2 (limit)", len(runs))
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := store.BeginRun(context.Background(), RunInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Errorf("runs after reopen = %+v", runs)
	}
}
