package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := NewArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("NewArchive() error: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestRecordAndListRuns(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	started := time.Now().Add(-time.Minute)

	runs := []Run{
		{Kind: "export", Status: "completed", Expenses: 10, Budgets: 2, Savings: 1, StartedAt: started, FinishedAt: time.Now()},
		{Kind: "import", Status: "failed", Error: "restore budgets: boom", StartedAt: started, FinishedAt: time.Now()},
	}
	for _, r := range runs {
		if err := a.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}
	}

	got, err := a.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRuns() returned %d runs, want 2", len(got))
	}
	// Newest first.
	if got[0].Kind != "import" || got[0].Status != "failed" {
		t.Errorf("runs[0] = %+v, want the import run first", got[0])
	}
	if got[0].Error != "restore budgets: boom" {
		t.Errorf("runs[0].Error = %q", got[0].Error)
	}
	if got[1].Expenses != 10 || got[1].Budgets != 2 || got[1].Savings != 1 {
		t.Errorf("runs[1] counts = %d/%d/%d", got[1].Expenses, got[1].Budgets, got[1].Savings)
	}
}

func TestListRunsLimit(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := a.RecordRun(ctx, Run{Kind: "export", Status: "completed", StartedAt: time.Now(), FinishedAt: time.Now()}); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}
	}

	got, err := a.ListRuns(ctx, 3)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListRuns(3) returned %d runs", len(got))
	}
}

func TestListRunsEmpty(t *testing.T) {
	a := newTestArchive(t)
	got, err := a.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListRuns() on a fresh archive returned %d runs", len(got))
	}
}
