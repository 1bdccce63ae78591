// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parley-sim/parley/pkg/llm"
)

// Canned questions used when question generation is unavailable. They
// keep the interview moving; the transcript marks them as fallbacks.
var fallbackQuestions = map[string]string{
	RoleHR:            "Please introduce yourself in two or three minutes, focusing on your data analysis background and why this position interests you.",
	RoleHiringManager: "Walk me through a data analysis project you drove end to end. What was the business question, what did you do, and what measurably changed?",
	RoleTechnical:     "You are asked to evaluate an A/B test where the treatment group shows a 2% lift. How do you decide whether to ship? Cover significance, sample size and possible pitfalls.",
	RoleCultureFit:    "Tell me about a time you disagreed with a teammate or stakeholder about an analysis. How did you handle it and what happened?",
}

// Interviewer binds one persona to the generation client. It owns the
// prompt assembly for questions, evaluations and follow-ups; the round
// controller owns sequencing.
type Interviewer struct {
	persona Persona
	client  *llm.Client
	logger  *slog.Logger
}

// NewInterviewer creates an interviewer for a base role key. Unknown
// roles return false.
func NewInterviewer(roleKey string, client *llm.Client, logger *slog.Logger) (*Interviewer, bool) {
	persona, ok := PersonaForRole(roleKey)
	if !ok {
		return nil, false
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Interviewer{persona: persona, client: client, logger: logger}, true
}

// Role returns the interviewer's base role key.
func (iv *Interviewer) Role() string { return iv.persona.Key }

// RoleName returns the persona display name.
func (iv *Interviewer) RoleName() string { return iv.persona.Name }

// GenerateQuestion produces the round's main question from candidate
// and session context. Generation failure degrades to a canned
// question; it never returns an error.
func (iv *Interviewer) GenerateQuestion(ctx context.Context, candidateContext, sessionContext string) string {
	system := iv.persona.SystemPrompt + "\n\nTask:\n" + iv.persona.QuestionFocus +
		"\nOutput only the question itself, nothing else."

	if candidateContext == "" {
		candidateContext = "First interview, no prior information."
	}
	if sessionContext == "" {
		sessionContext = "This is the first round."
	}
	user := fmt.Sprintf("Candidate information: %s\n\nInterview progress: %s\n\nAsk your question:",
		candidateContext, sessionContext)

	question, err := iv.client.GenerateText(ctx, system, user, iv.persona.QuestionTemperature)
	if err != nil || strings.TrimSpace(question) == "" {
		iv.logger.WarnContext(ctx, "question generation degraded to fallback",
			"role", iv.persona.Key, "error", err)
		return fallbackQuestions[iv.persona.Key]
	}
	return question
}

// EvaluateAnswer scores one answer. The result is always usable; see
// Normalize for the degraded path.
func (iv *Interviewer) EvaluateAnswer(ctx context.Context, question, answer, candidateContext string, history []llm.Message) Evaluation {
	system := iv.persona.SystemPrompt + "\n\n" + iv.evaluationInstructions()

	var parts []string
	parts = append(parts, "Interview question: "+question)
	parts = append(parts, "Candidate answer: "+answer)
	if candidateContext != "" {
		parts = append(parts, "Candidate background: "+candidateContext)
	}
	if len(history) > 0 {
		var lines []string
		for _, m := range history {
			lines = append(lines, fmt.Sprintf("- %s: %s", m.Role, truncate(m.Content, 100)))
		}
		parts = append(parts, "Conversation so far:\n"+strings.Join(lines, "\n"))
	}
	parts = append(parts, "Evaluate this answer.")

	result := iv.client.GenerateStructured(ctx, system, strings.Join(parts, "\n\n"), 0.3)
	eval := Normalize(result)
	if eval.Degraded() {
		iv.logger.WarnContext(ctx, "evaluation degraded to fallback", "role", iv.persona.Key)
	}
	return eval
}

// GenerateFollowUp produces one clarifying question seeded with the
// original exchange and the trigger reason. Degrades to a generic
// probe on failure.
func (iv *Interviewer) GenerateFollowUp(ctx context.Context, question, answer string, eval Evaluation, reason string) string {
	system := iv.persona.SystemPrompt + `

Based on the candidate's answer, ask one follow-up question. The follow-up should:
1. Target the part of the answer that was vague or shallow.
2. Give the candidate a chance to show more depth.
3. Stay natural and friendly; do not make the candidate feel interrogated.

Output only the follow-up question itself.`

	weaknesses := strings.Join(eval.WeaknessTags, ", ")
	if weaknesses == "" {
		weaknesses = "no specific issues"
	}
	user := fmt.Sprintf(`Original question: %s

Candidate answer: %s

Answer assessment:
- score: %d/10
- needs work: %s

Follow-up trigger: %s

Ask a natural follow-up question:`, question, answer, eval.Score, weaknesses, reason)

	followUp, err := iv.client.GenerateText(ctx, system, user, 0.7)
	if err != nil || strings.TrimSpace(followUp) == "" {
		iv.logger.WarnContext(ctx, "follow-up generation degraded to fallback",
			"role", iv.persona.Key, "error", err)
		return "Could you expand on that with a concrete example, including what you did and what the result was?"
	}
	return followUp
}

func (iv *Interviewer) evaluationInstructions() string {
	return fmt.Sprintf(`You must assess the quality of the candidate's answer.
%s

Scoring scale (%d-%d):
- 9-10: excellent, thorough, deep, insightful
- 7-8: good, complete, with concrete examples
- 5-6: adequate, answers the question but lacks depth
- 3-4: needs improvement, incomplete or flawed
- 0-2: insufficient, fails to answer the question

Return the assessment strictly in this JSON shape:
{
    "score": <integer %d-%d>,
    "feedback": "<2-4 sentences of targeted feedback, strengths first, then what to improve>",
    "weakness_tags": ["<0-3 most relevant tags from the weakness list below>"],
    "strength_tags": ["<0-3 most relevant tags from the strength list below>"],
    "key_points": ["<2-3 key points from the answer>"],
    "improvement_hint": "<one concrete improvement suggestion>"
}

Allowed weakness tags:
%s
Allowed strength tags:
%s`,
		iv.persona.Criteria(),
		ScoreMin, ScoreMax, ScoreMin, ScoreMax,
		vocabForPrompt(weaknessTagsByCategory),
		vocabForPrompt(strengthTagsByCategory))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
