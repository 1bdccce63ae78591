// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/parley-sim/parley/pkg/llm"
)

func testPanel(table RoundTable) *Panel {
	return NewPanel(llm.NewClient(nil, "test-model"), table, slog.Default())
}

func TestPanelNormalizeMistypedFieldDegradesAlone(t *testing.T) {
	raw := `{
		"final_score": 8,
		"decision": 42,
		"overall_feedback": "consistent performance",
		"dimension_scores": {"technical": 7, "communication": "high"},
		"key_strengths": "strong_sql"
	}`
	p := testPanel(DefaultRoundTable())
	final := p.normalize(llm.StructuredResult{Payload: json.RawMessage(raw), Raw: raw}, SessionSummary{})

	if final.FinalScore != 8 {
		t.Errorf("final score must survive mistyped sibling fields, got %v", final.FinalScore)
	}
	if final.Decision != DecisionHire {
		t.Errorf("a non-string decision must fall back to the score band, got %q", final.Decision)
	}
	if final.OverallFeedback != "consistent performance" {
		t.Errorf("feedback must pass through, got %q", final.OverallFeedback)
	}
	if final.DimensionScores["technical"] != 7 {
		t.Errorf("numeric dimension must pass through: %v", final.DimensionScores)
	}
	if final.DimensionScores["communication"] != 5 {
		t.Errorf("non-numeric dimension must coerce to the midpoint: %v", final.DimensionScores)
	}
	if len(final.KeyStrengths) != 1 || final.KeyStrengths[0] != "strong_sql" {
		t.Errorf("a bare-string list must be lifted: %v", final.KeyStrengths)
	}
	if final.RawError != "" {
		t.Error("field-level coercion must not mark the evaluation degraded")
	}
}

func TestPanelNormalizeNonObjectPayloadFallsBack(t *testing.T) {
	p := testPanel(DefaultRoundTable())
	summary := SessionSummary{AverageScore: 6.5}
	final := p.normalize(llm.StructuredResult{Payload: json.RawMessage(`"not an object"`), Raw: `"not an object"`}, summary)

	if final.Decision != DecisionCandidate || final.FinalScore != 6.5 {
		t.Errorf("non-object payload must degrade to the mid-tier fallback: %+v", final)
	}
	if final.RawError == "" {
		t.Error("fallback must preserve the raw payload")
	}
}

func TestFormatWeightsLeavesOrderIntact(t *testing.T) {
	backing := make([]string, 0, 8)
	backing = append(backing, RoleHR, RoleHiringManager, RoleTechnical, RoleCultureFit)

	table := DefaultRoundTable()
	table.Order = backing
	p := testPanel(table)

	out := p.formatWeights()
	if !strings.Contains(out, "10%") {
		t.Errorf("panel weight missing from the listing:\n%s", out)
	}

	spare := backing[:cap(backing)]
	for _, slot := range spare[len(backing):] {
		if slot == RolePanel {
			t.Fatal("formatWeights wrote into the shared order's backing array")
		}
	}
}
