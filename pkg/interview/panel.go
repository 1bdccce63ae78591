// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parley-sim/parley/pkg/llm"
	"github.com/parley-sim/parley/pkg/memory"
)

// Panel is the final synthesis stage. It asks no questions; it turns
// the aggregated session plus the candidate's history digest into one
// final evaluation and decision.
type Panel struct {
	client *llm.Client
	table  RoundTable
	logger *slog.Logger
}

// NewPanel creates the panel stage.
func NewPanel(client *llm.Client, table RoundTable, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Panel{client: client, table: table, logger: logger}
}

const panelOutputShape = `
Task: produce the final evaluation report from all interview rounds.

Return the report strictly in this JSON shape:
{
    "final_score": <integer 0-10, the weighted overall score>,
    "decision": "<one of: strong hire / hire / candidate / not recommended / reject>",
    "decision_reason": "<one sentence explaining the decision>",
    "overall_feedback": "<3-5 sentences of overall assessment citing concrete round performance>",
    "dimension_scores": {
        "technical": <0-10>,
        "business": <0-10>,
        "communication": <0-10>,
        "culture": <0-10>
    },
    "key_strengths": ["<specific strength 1>", "<strength 2>", "<strength 3>"],
    "key_weaknesses": ["<specific weakness 1>", "<weakness 2>"],
    "improvement_suggestions": [
        "<concrete suggestion, e.g. structure project stories with STAR: situation first, then your actions>",
        "<concrete suggestion 2>",
        "<concrete suggestion 3>"
    ],
    "practice_focus": ["<practice area 1>", "<practice area 2>"],
    "next_steps": "<recommended next action for the candidate>"
}`

// GenerateFinalEvaluation runs panel synthesis over the aggregated
// session and history digest. The result is always usable: a failed or
// malformed generation degrades to the mid-tier decision with the
// session's simple average as the score.
func (p *Panel) GenerateFinalEvaluation(ctx context.Context, summary SessionSummary, historyDigest string) *memory.FinalEvaluation {
	persona := personas[RolePanel]
	system := persona.SystemPrompt + "\n" + panelOutputShape

	user := fmt.Sprintf(`Round results:
%s

Score weights:
%s

Session statistics:
- total rounds: %d
- simple average: %.2f/10
- weighted score: %.2f/10
- accumulated weakness tags: %s
- accumulated strength tags: %s

Candidate history:
%s

Produce the final evaluation report:`,
		p.formatRounds(summary.Rounds),
		p.formatWeights(),
		len(summary.Rounds),
		summary.AverageScore,
		summary.WeightedScore,
		orNone(strings.Join(summary.AllWeaknessTags, ", ")),
		orNone(strings.Join(summary.AllStrengthTags, ", ")),
		historyDigest)

	result := p.client.GenerateStructured(ctx, system, user, 0.5)
	return p.normalize(result, summary)
}

func (p *Panel) normalize(result llm.StructuredResult, summary SessionSummary) *memory.FinalEvaluation {
	if result.Failed() {
		return p.fallback(result, summary)
	}

	// Field-wise coercion, like Normalize: a mistyped field degrades
	// alone instead of discarding a usable synthesis.
	fields, err := decodeFields(result.Payload)
	if err != nil {
		return p.fallback(result, summary)
	}

	score := coerceScore(fields["final_score"])
	decision := coerceString(fields["decision"])
	if !KnownDecision(decision) {
		decision = DecisionForScore(float64(score))
	}

	var rawDims map[string]json.RawMessage
	if fields["dimension_scores"] != nil {
		_ = json.Unmarshal(fields["dimension_scores"], &rawDims)
	}
	dims := make(map[string]int, len(rawDims))
	for dim, v := range rawDims {
		dims[dim] = coerceScore(v)
	}

	return &memory.FinalEvaluation{
		FinalScore:             float64(score),
		Decision:               decision,
		DecisionReason:         coerceString(fields["decision_reason"]),
		OverallFeedback:        coerceString(fields["overall_feedback"]),
		DimensionScores:        dims,
		KeyStrengths:           coerceStrings(fields["key_strengths"]),
		KeyWeaknesses:          coerceStrings(fields["key_weaknesses"]),
		ImprovementSuggestions: coerceStrings(fields["improvement_suggestions"]),
		PracticeFocus:          coerceStrings(fields["practice_focus"]),
		NextSteps:              coerceString(fields["next_steps"]),
	}
}

// fallback is the degraded final evaluation: mid-tier decision, simple
// average as the score, tag unions standing in for the analysis.
func (p *Panel) fallback(result llm.StructuredResult, summary SessionSummary) *memory.FinalEvaluation {
	rawErr := result.Raw
	if rawErr == "" && result.Err != nil {
		rawErr = result.Err.Error()
	}
	return &memory.FinalEvaluation{
		FinalScore:             summary.AverageScore,
		Decision:               DecisionCandidate,
		DecisionReason:         "The evaluation could not be generated; refer to the per-round feedback.",
		OverallFeedback:        "A complete panel evaluation is unavailable for this session. The per-round feedback still applies.",
		KeyStrengths:           capN(summary.AllStrengthTags, 3),
		KeyWeaknesses:          capN(summary.AllWeaknessTags, 3),
		ImprovementSuggestions: []string{"Run another full interview to obtain a complete evaluation."},
		NextSteps:              "Retry the interview simulation.",
		RawError:               rawErr,
	}
}

// GenerateComparativeAnalysis produces the trend narrative comparing
// this session with prior history. Only called when history exists;
// failures propagate so the caller can leave the field absent.
func (p *Panel) GenerateComparativeAnalysis(ctx context.Context, current *memory.FinalEvaluation, history []memory.InterviewSummary) (string, error) {
	system := `You are a data analysis expert comparing a candidate's interview performance over time.

Analyze:
1. The score trend (improving, declining or stable).
2. Which areas clearly improved.
3. Which problems keep recurring.
4. One targeted recommendation for the next step.

Output two or three short paragraphs of plain English.`

	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	var lines []string
	for i, h := range recent {
		lines = append(lines, fmt.Sprintf("attempt %d: scored %.1f/10, decision: %s, main weaknesses: %s",
			i+1, h.FinalScore, h.Decision, orNone(strings.Join(capN(h.KeyWeaknesses, 2), ", "))))
	}

	user := fmt.Sprintf(`Current interview:
- score: %.1f/10
- decision: %s
- main weaknesses: %s
- main strengths: %s

Prior interviews (oldest first):
%s

Analyze the trend and advise:`,
		current.FinalScore, current.Decision,
		orNone(strings.Join(current.KeyWeaknesses, ", ")),
		orNone(strings.Join(current.KeyStrengths, ", ")),
		strings.Join(lines, "\n"))

	return p.client.GenerateText(ctx, system, user, 0.6)
}

func (p *Panel) formatRounds(rounds []memory.RoundResult) string {
	var out []string
	for _, r := range rounds {
		name := p.table.Name(r.Role)
		if r.IsFollowUp {
			name += " (follow-up)"
		}
		out = append(out, fmt.Sprintf(`[%s] (weight %.0f%%)
- question: %s
- answer: %s
- score: %d/10
- feedback: %s
- weaknesses: %s
- strengths: %s
- key points: %s`,
			name, p.table.Weight(r.Role)*100,
			truncate(r.Question, 150),
			truncate(r.Answer, 200),
			r.Score,
			r.Feedback,
			orNone(strings.Join(r.WeaknessTags, ", ")),
			orNone(strings.Join(r.StrengthTags, ", ")),
			orNone(strings.Join(r.KeyPoints, ", "))))
	}
	return strings.Join(out, "\n\n")
}

func (p *Panel) formatWeights() string {
	// Copy before appending: a loaded Order may have spare capacity,
	// and the table is shared.
	keys := append(append([]string{}, p.table.Order...), RolePanel)

	var out []string
	for _, key := range keys {
		rc, ok := p.table.Rounds[key]
		if !ok || rc.Weight == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("- %s: %.0f%%", rc.Name, rc.Weight*100))
	}
	return strings.Join(out, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func capN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
