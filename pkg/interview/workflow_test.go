package interview

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/parley-sim/parley/pkg/errors"
	"github.com/parley-sim/parley/pkg/llm"
	"github.com/parley-sim/parley/pkg/memory"
)

const panelJSON = `{
	"final_score": 8,
	"decision": "hire",
	"decision_reason": "consistent performance across rounds",
	"overall_feedback": "Strong structured answers in every round.",
	"dimension_scores": {"technical": 8, "business": 7},
	"key_strengths": ["clear_structure"],
	"key_weaknesses": [],
	"improvement_suggestions": ["Add more quantified results."],
	"practice_focus": ["experiment design"],
	"next_steps": "Proceed to a real interview."
}`

// routedProvider answers by inspecting the system prompt: evaluations
// and the panel get JSON, everything else gets plain question text.
func routedProvider(panelFails bool) *llm.MockProvider {
	return &llm.MockProvider{
		ChatFunc: func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
			system := req.Messages[0].Content
			switch {
			case strings.Contains(system, "chair the interview panel"):
				if panelFails {
					return nil, fmt.Errorf("panel backend unavailable")
				}
				return &llm.ChatResponse{Content: panelJSON}, nil
			case strings.Contains(system, "comparing a candidate's interview performance"):
				return &llm.ChatResponse{Content: "Scores are trending upward."}, nil
			case strings.Contains(system, "Return the assessment strictly"):
				return &llm.ChatResponse{Content: evalJSON(8)}, nil
			default:
				return &llm.ChatResponse{Content: "Tell me about your recent analysis work."}, nil
			}
		},
	}
}

func testEngine(t *testing.T, provider llm.Provider) (*Engine, *memory.FileStore) {
	t.Helper()
	store, err := memory.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	client := llm.NewClient(provider, "test-model")
	return NewEngine(client, store), store
}

func TestRunFullInterview(t *testing.T) {
	engine, store := testEngine(t, routedProvider(false))
	ctx := context.Background()

	var started []string
	var final *memory.FinalEvaluation
	cb := Callbacks{
		OnRoundStart:      func(key, name string) { started = append(started, key) },
		OnFinalEvaluation: func(e *memory.FinalEvaluation) { final = e },
	}

	path, err := engine.RunFullInterview(ctx, "cand-1", fixedAnswers(longAnswer, longAnswer, longAnswer, longAnswer), cb)
	if err != nil {
		t.Fatalf("interview failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("session file missing at %s: %v", path, err)
	}

	wantOrder := []string{RoleHR, RoleHiringManager, RoleTechnical, RoleCultureFit, RolePanel}
	if len(started) != len(wantOrder) {
		t.Fatalf("round starts = %v, want %v", started, wantOrder)
	}
	for i, key := range wantOrder {
		if started[i] != key {
			t.Errorf("round %d = %q, want %q", i, started[i], key)
		}
	}

	if final == nil || final.Decision != "hire" || final.FinalScore != 8 {
		t.Fatalf("unexpected final evaluation %+v", final)
	}
	// No prior history, so the comparative narrative must be absent.
	if final.ComparativeAnalysis != "" {
		t.Errorf("first interview must not carry a comparative analysis: %q", final.ComparativeAnalysis)
	}

	candidate, err := store.LoadCandidate(ctx, "cand-1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(candidate.InterviewHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(candidate.InterviewHistory))
	}
	if candidate.InterviewHistory[0].Decision != "hire" {
		t.Errorf("history decision = %q", candidate.InterviewHistory[0].Decision)
	}

	refs, err := store.ListSessions(ctx, "cand-1")
	if err != nil || len(refs) != 1 {
		t.Fatalf("expected 1 persisted session, got %d (%v)", len(refs), err)
	}
	if refs[0].Decision != "hire" {
		t.Errorf("persisted decision = %q", refs[0].Decision)
	}
}

func TestRunFullInterviewComparativeAnalysisWithHistory(t *testing.T) {
	engine, store := testEngine(t, routedProvider(false))
	ctx := context.Background()

	seed, _ := store.LoadCandidate(ctx, "cand-1")
	seed.AddInterviewSummary(memory.InterviewSummary{FinalScore: 5, Decision: DecisionCandidate})
	if err := store.SaveCandidate(ctx, seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var final *memory.FinalEvaluation
	cb := Callbacks{OnFinalEvaluation: func(e *memory.FinalEvaluation) { final = e }}

	if _, err := engine.RunFullInterview(ctx, "cand-1", fixedAnswers(longAnswer, longAnswer, longAnswer, longAnswer), cb); err != nil {
		t.Fatalf("interview failed: %v", err)
	}
	if final.ComparativeAnalysis != "Scores are trending upward." {
		t.Errorf("expected the trend narrative, got %q", final.ComparativeAnalysis)
	}
}

func TestRunFullInterviewPanelSentinelFallback(t *testing.T) {
	engine, store := testEngine(t, routedProvider(true))
	ctx := context.Background()

	var final *memory.FinalEvaluation
	cb := Callbacks{OnFinalEvaluation: func(e *memory.FinalEvaluation) { final = e }}

	path, err := engine.RunFullInterview(ctx, "cand-1", fixedAnswers(longAnswer, longAnswer, longAnswer, longAnswer), cb)
	if err != nil {
		t.Fatalf("panel failure must not abort the interview: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("session must still be persisted: %v", err)
	}

	if final.Decision != DecisionCandidate {
		t.Errorf("fallback decision = %q, want %q", final.Decision, DecisionCandidate)
	}
	// All four rounds scored 8, so the fallback score is the simple average.
	if final.FinalScore != 8 {
		t.Errorf("fallback score = %v, want the simple average 8", final.FinalScore)
	}
	if final.RawError == "" {
		t.Error("fallback must preserve the failure for diagnostics")
	}
	if final.ComparativeAnalysis != "" {
		t.Error("failed panel must not carry a comparative analysis")
	}

	candidate, err := store.LoadCandidate(ctx, "cand-1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(candidate.InterviewHistory) != 1 {
		t.Error("candidate memory must still be updated after a panel failure")
	}
}

func TestRunPractice(t *testing.T) {
	engine, store := testEngine(t, routedProvider(false))
	ctx := context.Background()

	outcome, err := engine.RunPractice(ctx, "cand-1", RoleTechnical, fixedAnswers(longAnswer), Callbacks{})
	if err != nil {
		t.Fatalf("practice failed: %v", err)
	}
	if outcome.RoleKey != RoleTechnical || outcome.FinalScore != 8 {
		t.Errorf("unexpected outcome %+v", outcome)
	}

	refs, err := store.ListSessions(ctx, "cand-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("practice mode must not persist sessions, found %d", len(refs))
	}
}

func TestRunPracticeRejectsUnknownRole(t *testing.T) {
	engine, _ := testEngine(t, routedProvider(false))

	for _, role := range []string{"wizard", RolePanel} {
		_, err := engine.RunPractice(context.Background(), "cand-1", role, fixedAnswers(), Callbacks{})
		if !errors.IsCode(err, errors.CodeConfigError) {
			t.Errorf("role %q: expected config error, got %v", role, err)
		}
	}
}
