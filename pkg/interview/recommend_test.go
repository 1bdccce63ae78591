package interview

import (
	"strings"
	"testing"

	"github.com/parley-sim/parley/pkg/memory"
)

func TestPracticeRecommendations(t *testing.T) {
	candidate := memory.NewCandidateMemory("cand-1")
	candidate.AddWeaknessTags([]string{"sql_gaps", "sql_gaps", "unclear_structure", "low_self_awareness"})

	recs := PracticeRecommendations(candidate)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	// Most frequent weakness first.
	if !strings.Contains(recs[0], "sql_gaps") {
		t.Errorf("first recommendation should target the top weakness: %q", recs[0])
	}
	// Tags without dedicated advice still get a generic nudge.
	found := false
	for _, r := range recs {
		if strings.Contains(r, "low_self_awareness") {
			found = true
			if !strings.Contains(r, "focused practice") {
				t.Errorf("generic advice expected for unmapped tag: %q", r)
			}
		}
	}
	if !found {
		t.Error("unmapped tag missing from recommendations")
	}
}

func TestPracticeRecommendationsEmpty(t *testing.T) {
	if recs := PracticeRecommendations(memory.NewCandidateMemory("cand-1")); len(recs) != 0 {
		t.Errorf("no weaknesses should produce no recommendations, got %v", recs)
	}
}
