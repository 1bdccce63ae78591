// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"context"
	"log/slog"

	"github.com/parley-sim/parley/pkg/llm"
	"github.com/parley-sim/parley/pkg/memory"
)

// AnswerProvider supplies the candidate's answer to a question. It is
// the round's only suspension point; the core imposes no timeout, the
// surrounding transport may cancel the context instead.
type AnswerProvider func(ctx context.Context, question, roundName string) (string, error)

// Exchange is one question/answer/evaluation within a round.
type Exchange struct {
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Evaluation     Evaluation `json:"evaluation"`
	IsFollowUp     bool       `json:"is_follow_up"`
	FollowUpReason string     `json:"follow_up_reason,omitempty"`
}

// RoundOutcome is a completed round: the main exchange plus at most one
// follow-up. FinalScore is the last evaluation produced in the round.
type RoundOutcome struct {
	RoleKey    string     `json:"role"`
	RoleName   string     `json:"role_name"`
	Exchanges  []Exchange `json:"exchanges"`
	FinalScore int        `json:"final_score"`
}

// Controller runs single interview rounds. It owns the per-round state
// machine; the engine owns round sequencing.
type Controller struct {
	client   *llm.Client
	table    RoundTable
	policy   FollowUpPolicy
	logger   *slog.Logger
	recorder RoundRecorder
}

// NewController creates a round controller.
func NewController(client *llm.Client, table RoundTable, policy FollowUpPolicy, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{client: client, table: table, policy: policy, logger: logger}
}

// WithRecorder attaches an observability recorder. Nil is allowed.
func (c *Controller) WithRecorder(r RoundRecorder) *Controller {
	c.recorder = r
	return c
}

// RunRound executes one round for the given role: question, answer,
// evaluation, then at most one follow-up when the role's config, the
// global policy and the per-answer rules all allow it.
//
// Generation failures degrade locally (canned question, fallback
// evaluation). The only returned errors are an unknown role and a
// failed answer provider; in both cases no partial state is appended
// to the session.
func (c *Controller) RunRound(ctx context.Context, roleKey string, candidate *memory.CandidateMemory, session *memory.SessionMemory, provider AnswerProvider, cb Callbacks) (RoundOutcome, error) {
	interviewer, ok := NewInterviewer(roleKey, c.client, c.logger)
	if !ok {
		return RoundOutcome{}, unknownRoleError(roleKey)
	}
	roundName := c.table.Name(roleKey)

	candidateContext := candidate.ContextForPrompt()
	sessionContext := session.ContextForNextRound()

	question := interviewer.GenerateQuestion(ctx, candidateContext, sessionContext)
	cb.question(question, roundName)

	answer, err := provider(ctx, question, roundName)
	if err != nil {
		// Cancellation or transport failure: the asked question is
		// discarded, nothing reaches the session.
		return RoundOutcome{}, err
	}

	eval := interviewer.EvaluateAnswer(ctx, question, answer, candidateContext, nil)
	cb.evaluation(eval)
	c.recordRecovery(ctx, eval)

	session.AddRound(roundResult(roleKey, question, answer, eval, false))

	outcome := RoundOutcome{
		RoleKey:  roleKey,
		RoleName: roundName,
		Exchanges: []Exchange{{
			Question:   question,
			Answer:     answer,
			Evaluation: eval,
		}},
		FinalScore: eval.Score,
	}

	rc := c.table.Rounds[roleKey]
	if rc.FollowUpEnabled && c.policy.Enabled {
		if should, reason := c.policy.ShouldFollowUp(answer, eval); should {
			exchange, err := c.runFollowUp(ctx, interviewer, question, answer, eval, reason, candidateContext, session, provider, cb)
			if err != nil {
				return RoundOutcome{}, err
			}
			outcome.Exchanges = append(outcome.Exchanges, exchange)
			// The round slot reports the follow-up's score.
			outcome.FinalScore = exchange.Evaluation.Score
		}
	}

	if c.recorder != nil {
		c.recorder.RoundCompleted(ctx, roleKey, len(outcome.Exchanges) > 1)
	}
	return outcome, nil
}

func (c *Controller) runFollowUp(ctx context.Context, interviewer *Interviewer, question, answer string, eval Evaluation, reason, candidateContext string, session *memory.SessionMemory, provider AnswerProvider, cb Callbacks) (Exchange, error) {
	cb.followUp(reason)

	followUpQuestion := interviewer.GenerateFollowUp(ctx, question, answer, eval, reason)
	roundName := c.table.Name(interviewer.Role()) + " (follow-up)"
	cb.question(followUpQuestion, roundName)

	followUpAnswer, err := provider(ctx, followUpQuestion, roundName)
	if err != nil {
		return Exchange{}, err
	}

	// Two-turn window so the evaluator sees the original exchange.
	history := []llm.Message{
		{Role: llm.RoleAssistant, Content: question},
		{Role: llm.RoleUser, Content: answer},
	}
	followUpEval := interviewer.EvaluateAnswer(ctx, followUpQuestion, followUpAnswer, candidateContext, history)
	cb.evaluation(followUpEval)
	c.recordRecovery(ctx, followUpEval)

	session.AddRound(roundResult(FollowUpRole(interviewer.Role()), followUpQuestion, followUpAnswer, followUpEval, true))

	return Exchange{
		Question:       followUpQuestion,
		Answer:         followUpAnswer,
		Evaluation:     followUpEval,
		IsFollowUp:     true,
		FollowUpReason: reason,
	}, nil
}

func (c *Controller) recordRecovery(ctx context.Context, eval Evaluation) {
	if c.recorder != nil && eval.Degraded() {
		c.recorder.GenerationRecovered(ctx)
	}
}

func roundResult(roleKey, question, answer string, eval Evaluation, followUp bool) memory.RoundResult {
	return memory.RoundResult{
		Role:            roleKey,
		Question:        question,
		Answer:          answer,
		Score:           eval.Score,
		Feedback:        eval.Feedback,
		WeaknessTags:    eval.WeaknessTags,
		StrengthTags:    eval.StrengthTags,
		KeyPoints:       eval.KeyPoints,
		ImprovementHint: eval.ImprovementHint,
		IsFollowUp:      followUp,
	}
}
