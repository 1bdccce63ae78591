package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	return store
}

func TestLoadCandidateCreatesDefaults(t *testing.T) {
	store := newTestStore(t)
	mem, err := store.LoadCandidate(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if mem.CandidateID != "unknown" {
		t.Errorf("expected id to be set, got %q", mem.CandidateID)
	}
	if mem.WeaknessTags == nil || mem.StrengthTags == nil {
		t.Error("tag maps must be initialized")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mem, _ := store.LoadCandidate(ctx, "cand-1")
	mem.AddWeaknessTags([]string{"sql_gaps"})
	mem.AddInterviewSummary(historyEntry(7))
	if err := store.SaveCandidate(ctx, mem); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.LoadCandidate(ctx, "cand-1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.WeaknessTags["sql_gaps"] != 1 {
		t.Errorf("tags lost on round trip: %v", loaded.WeaknessTags)
	}
	if loaded.Statistics.TotalInterviews != 1 {
		t.Errorf("statistics not persisted: %+v", loaded.Statistics)
	}
}

func TestLoadSaveIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mem, _ := store.LoadCandidate(ctx, "cand-1")
	mem.AddWeaknessTags([]string{"sql_gaps", "rambling"})
	mem.AddInterviewSummary(historyEntry(6))
	if err := store.SaveCandidate(ctx, mem); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	first, _ := store.LoadCandidate(ctx, "cand-1")
	if err := store.SaveCandidate(ctx, first); err != nil {
		t.Fatalf("resave failed: %v", err)
	}
	second, _ := store.LoadCandidate(ctx, "cand-1")

	if !reflect.DeepEqual(first.Statistics, second.Statistics) {
		t.Errorf("statistics changed across idle load/save: %+v vs %+v", first.Statistics, second.Statistics)
	}
	if !reflect.DeepEqual(first.WeaknessTags, second.WeaknessTags) {
		t.Errorf("tag map changed across idle load/save")
	}
}

func TestLoadMergesDefaultsIntoOldRecords(t *testing.T) {
	store := newTestStore(t)

	// A record written by an older version with missing fields.
	old := map[string]any{"candidate_id": "cand-1", "position": "Data Analyst"}
	data, _ := json.Marshal(old)
	if err := os.WriteFile(store.candidateFile("cand-1"), data, 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	mem, err := store.LoadCandidate(context.Background(), "cand-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if mem.WeaknessTags == nil || mem.StrengthTags == nil {
		t.Error("missing maps must be filled from defaults")
	}
	if mem.Position != "Data Analyst" {
		t.Errorf("stored fields must survive the merge, got %q", mem.Position)
	}
	if mem.CreatedAt.IsZero() {
		t.Error("missing created_at must be defaulted")
	}
}

func TestLoadCorruptRecordFallsBackToDefaults(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.candidateFile("cand-1"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	mem, err := store.LoadCandidate(context.Background(), "cand-1")
	if err != nil {
		t.Fatalf("corrupt record should not error: %v", err)
	}
	if len(mem.InterviewHistory) != 0 {
		t.Error("expected fresh defaults")
	}
}

func TestSaveSessionAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := NewSession("cand-1", "Data Analyst")
	older.StartedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older.AddRound(RoundResult{Role: "hr", Score: 5})
	older.SetFinalEvaluation(&FinalEvaluation{FinalScore: 5, Decision: "candidate"})

	newer := NewSession("cand-1", "Data Analyst")
	newer.StartedAt = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	newer.SetFinalEvaluation(&FinalEvaluation{FinalScore: 8, Decision: "hire"})

	other := NewSession("cand-2", "Data Analyst")
	other.StartedAt = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	for _, s := range []*SessionMemory{newer, older, other} {
		if _, err := store.SaveSession(ctx, s); err != nil {
			t.Fatalf("save session failed: %v", err)
		}
	}

	refs, err := store.ListSessions(ctx, "cand-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 sessions for cand-1, got %d", len(refs))
	}
	if !refs[0].StartedAt.Before(refs[1].StartedAt) {
		t.Error("sessions must be ordered oldest first")
	}
	if refs[0].Decision != "candidate" || refs[1].FinalScore != 8 {
		t.Errorf("refs missing final evaluation data: %+v", refs)
	}
	if filepath.Ext(refs[0].Path) != ".json" {
		t.Errorf("unexpected session path %q", refs[0].Path)
	}
}
