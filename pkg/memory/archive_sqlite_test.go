package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestArchiveRecordAndList(t *testing.T) {
	archive, err := OpenSessionArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer archive.Close()
	ctx := context.Background()

	first := NewSession("cand-1", "Data Analyst")
	first.StartedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	first.SetFinalEvaluation(&FinalEvaluation{FinalScore: 6.08, Decision: "candidate"})

	second := NewSession("cand-1", "Data Analyst")
	second.StartedAt = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	other := NewSession("cand-2", "Data Analyst")
	other.StartedAt = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	for i, s := range []*SessionMemory{second, first, other} {
		if err := archive.Record(ctx, s, "sessions/"+s.ID+".json"); err != nil {
			t.Fatalf("record %d failed: %v", i, err)
		}
	}

	refs, err := archive.List(ctx, "cand-1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(refs))
	}
	if !refs[0].StartedAt.Before(refs[1].StartedAt) {
		t.Error("rows must be ordered oldest first")
	}
	if refs[0].FinalScore != 6.08 || refs[0].Decision != "candidate" {
		t.Errorf("final evaluation lost: %+v", refs[0])
	}
	if refs[1].FinalScore != 0 || refs[1].Decision != "" {
		t.Errorf("unfinished session must have empty outcome: %+v", refs[1])
	}
}

func TestArchiveRecordIsIdempotent(t *testing.T) {
	archive, err := OpenSessionArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer archive.Close()
	ctx := context.Background()

	s := NewSession("cand-1", "Data Analyst")
	if err := archive.Record(ctx, s, "a.json"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	s.SetFinalEvaluation(&FinalEvaluation{FinalScore: 8, Decision: "hire"})
	if err := archive.Record(ctx, s, "a.json"); err != nil {
		t.Fatalf("re-record failed: %v", err)
	}

	refs, err := archive.List(ctx, "cand-1", 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(refs))
	}
	if refs[0].Decision != "hire" {
		t.Errorf("replace must keep the latest outcome, got %+v", refs[0])
	}
}

func TestArchiveListLimit(t *testing.T) {
	archive, err := OpenSessionArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer archive.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s := NewSession("cand-1", "Data Analyst")
		s.StartedAt = time.Date(2026, 3, 1+i, 10, 0, 0, 0, time.UTC)
		if err := archive.Record(ctx, s, s.ID+".json"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	refs, err := archive.List(ctx, "cand-1", 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(refs) != 3 {
		t.Errorf("expected limit applied, got %d rows", len(refs))
	}
}
