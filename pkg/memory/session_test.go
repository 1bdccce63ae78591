package memory

import (
	"strings"
	"testing"
)

func TestAddRoundStampsTimestamp(t *testing.T) {
	s := NewSession("cand-1", "Data Analyst")
	s.AddRound(RoundResult{Role: "hr", Score: 7})
	if s.Rounds[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be stamped")
	}
}

func TestAverageScore(t *testing.T) {
	s := NewSession("cand-1", "Data Analyst")
	if s.AverageScore() != 0 {
		t.Errorf("empty session average should be 0, got %v", s.AverageScore())
	}
	s.AddRound(RoundResult{Role: "hr", Score: 8})
	s.AddRound(RoundResult{Role: "technical", Score: 5})
	if got := s.AverageScore(); got != 6.5 {
		t.Errorf("expected 6.5, got %v", got)
	}
}

func TestTagDeduplication(t *testing.T) {
	s := NewSession("cand-1", "Data Analyst")
	s.AddRound(RoundResult{Role: "hr", WeaknessTags: []string{"rambling", "sql_gaps"}})
	s.AddRound(RoundResult{Role: "technical", WeaknessTags: []string{"sql_gaps"}, StrengthTags: []string{"clear_structure"}})

	weak := s.AllWeaknessTags()
	if len(weak) != 2 {
		t.Fatalf("expected 2 deduplicated tags, got %v", weak)
	}
	if strong := s.AllStrengthTags(); len(strong) != 1 || strong[0] != "clear_structure" {
		t.Errorf("unexpected strength tags %v", strong)
	}
}

func TestFinalEvaluationIsTerminal(t *testing.T) {
	s := NewSession("cand-1", "Data Analyst")
	s.SetFinalEvaluation(&FinalEvaluation{FinalScore: 7, Decision: "hire"})
	s.SetFinalEvaluation(&FinalEvaluation{FinalScore: 2, Decision: "reject"})

	if s.FinalEvaluation.Decision != "hire" {
		t.Errorf("second write must not take effect, got %s", s.FinalEvaluation.Decision)
	}
}

func TestContextForNextRound(t *testing.T) {
	s := NewSession("cand-1", "Data Analyst")
	if !strings.Contains(s.ContextForNextRound(), "first round") {
		t.Error("empty session should say it is the first round")
	}

	for i, role := range []string{"hr", "hiring_manager", "technical", "culture_fit"} {
		s.AddRound(RoundResult{Role: role, Score: 5 + i})
	}
	s.AddRound(RoundResult{Role: "technical_followup", Score: 9, IsFollowUp: true})

	ctx := s.ContextForNextRound()
	if strings.Contains(ctx, "hr round") {
		t.Error("only the three most recent main rounds should appear")
	}
	if strings.Contains(ctx, "followup") {
		t.Error("follow-up rounds should not appear in round context")
	}
	if !strings.Contains(ctx, "culture_fit round: scored 8/10") {
		t.Errorf("missing latest round, got:\n%s", ctx)
	}
}

func TestRecordSummaryCountsFollowUps(t *testing.T) {
	s := NewSession("cand-1", "Data Analyst")
	s.AddRound(RoundResult{Role: "hr", Score: 4})
	s.AddRound(RoundResult{Role: "hr_followup", Score: 6, IsFollowUp: true})

	rec := s.record()
	if rec.Summary.TotalRounds != 2 || rec.Summary.MainRounds != 1 || rec.Summary.FollowUpRounds != 1 {
		t.Errorf("unexpected summary %+v", rec.Summary)
	}
	if rec.EndedAt.IsZero() {
		t.Error("record should carry an end timestamp")
	}
}
