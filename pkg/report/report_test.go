package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/parley-sim/parley/pkg/interview"
	"github.com/parley-sim/parley/pkg/memory"
)

func sampleSession() *memory.SessionMemory {
	s := memory.NewSession("cand-1", "Data Analyst")
	s.StartedAt = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	s.AddRound(memory.RoundResult{
		Role:     interview.RoleTechnical,
		Question: "Explain window functions.",
		Answer:   "They compute values over row frames.",
		Score:    4,
		Feedback: "Too shallow.",
	})
	s.AddRound(memory.RoundResult{
		Role:       interview.FollowUpRole(interview.RoleTechnical),
		Question:   "Can you give a concrete query?",
		Answer:     "SELECT ... OVER (PARTITION BY user_id ORDER BY day)",
		Score:      7,
		IsFollowUp: true,
	})
	s.SetFinalEvaluation(&memory.FinalEvaluation{
		FinalScore:      7,
		Decision:        "hire",
		DimensionScores: map[string]int{"technical": 7},
		KeyStrengths:    []string{"recovers well under follow-up"},
		NextSteps:       "Keep practicing.",
	})
	return s
}

func TestMarkdownContent(t *testing.T) {
	r := NewRenderer(t.TempDir(), interview.DefaultRoundTable())
	md := r.Markdown(sampleSession())

	for _, want := range []string{
		"# Mock Interview Report",
		"**Decision**: hire",
		"Technical Interview",
		"**Follow-up**",
		"| technical | 7/10 | good |",
		"Score: 7.0/10",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
	// Follow-up rounds fold into their main round's section.
	if strings.Count(md, "### 1.") != 1 || strings.Contains(md, "### 2.") {
		t.Error("expected exactly one main round section")
	}
}

func TestMarkdownWithoutFinalEvaluation(t *testing.T) {
	s := memory.NewSession("cand-1", "Data Analyst")
	s.AddRound(memory.RoundResult{Role: interview.RoleHR, Score: 6, Question: "q", Answer: "a"})

	r := NewRenderer(t.TempDir(), interview.DefaultRoundTable())
	md := r.Markdown(s)
	if !strings.Contains(md, "Score: 6.0/10") {
		t.Errorf("unfinished session must fall back to the average:\n%s", md)
	}
	if strings.Contains(md, "**Decision**") {
		t.Error("no decision section without a final evaluation")
	}
}

func TestWriteSessionReport(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, interview.DefaultRoundTable())

	path, err := r.WriteSessionReport(sampleSession())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.Contains(string(data), "Mock Interview Report") {
		t.Error("report file content missing")
	}
	if !strings.Contains(path, "cand-1_20260504_093000.md") {
		t.Errorf("unexpected report filename %q", path)
	}
}
