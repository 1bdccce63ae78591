// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/parley-sim/parley/pkg/errors"
	"github.com/parley-sim/parley/pkg/llm"
	"github.com/parley-sim/parley/pkg/memory"
)

var tracer = otel.Tracer("github.com/parley-sim/parley/pkg/interview")

// RoundRecorder receives observability events from the core. It is a
// side channel next to the lifecycle callbacks; implementations must
// not block or fail.
type RoundRecorder interface {
	RoundCompleted(ctx context.Context, roleKey string, hadFollowUp bool)
	GenerationRecovered(ctx context.Context)
	InterviewCompleted(ctx context.Context, decision string)
}

// Engine sequences a full interview: the fixed round order, panel
// synthesis, candidate memory update and persistence. It holds no
// per-session state; concurrent sessions for distinct candidates are
// independent. Callers must serialize sessions per candidate id.
type Engine struct {
	client   *llm.Client
	store    memory.Store
	archive  *memory.SessionArchive
	table    RoundTable
	policy   FollowUpPolicy
	position string
	logger   *slog.Logger
	recorder RoundRecorder

	controller *Controller
	panel      *Panel
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRoundTable overrides the built-in round table.
func WithRoundTable(table RoundTable) EngineOption {
	return func(e *Engine) { e.table = table }
}

// WithFollowUpPolicy overrides the default follow-up policy.
func WithFollowUpPolicy(policy FollowUpPolicy) EngineOption {
	return func(e *Engine) { e.policy = policy }
}

// WithPosition sets the position sessions are created for.
func WithPosition(position string) EngineOption {
	return func(e *Engine) { e.position = position }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithArchive attaches the session archive index. Archive failures are
// logged, never fatal; the session file remains the durable record.
func WithArchive(archive *memory.SessionArchive) EngineOption {
	return func(e *Engine) { e.archive = archive }
}

// WithRoundRecorder attaches an observability recorder.
func WithRoundRecorder(r RoundRecorder) EngineOption {
	return func(e *Engine) { e.recorder = r }
}

// NewEngine creates the workflow engine.
func NewEngine(client *llm.Client, store memory.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		client:   client,
		store:    store,
		table:    DefaultRoundTable(),
		policy:   DefaultFollowUpPolicy(),
		position: "Data Analyst",
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.controller = NewController(client, e.table, e.policy, e.logger).WithRecorder(e.recorder)
	e.panel = NewPanel(client, e.table, e.logger)
	return e
}

// RunFullInterview runs every round in order, the panel synthesis, and
// persists both memory levels. It returns the durable session path.
//
// Generation failures inside rounds degrade locally and never abort
// the interview; only answer-provider failures, configuration errors
// and persistence failures do.
func (e *Engine) RunFullInterview(ctx context.Context, candidateID string, provider AnswerProvider, cb Callbacks) (string, error) {
	ctx, span := tracer.Start(ctx, "interview.full",
		trace.WithAttributes(attribute.String("candidate.id", candidateID)))
	defer span.End()

	candidate, err := e.store.LoadCandidate(ctx, candidateID)
	if err != nil {
		return "", errors.New(errors.CodePersistence, "load candidate memory", err)
	}
	session := memory.NewSession(candidateID, e.position)

	for _, roleKey := range e.table.Order {
		cb.roundStart(roleKey, e.table.Name(roleKey))

		outcome, err := e.runRoundSpan(ctx, roleKey, candidate, session, provider, cb)
		if err != nil {
			return "", err
		}
		cb.roundComplete(outcome)
		e.logger.InfoContext(ctx, "round complete",
			"role", roleKey, "score", outcome.FinalScore, "exchanges", len(outcome.Exchanges))
	}

	cb.roundStart(RolePanel, e.table.Name(RolePanel))
	final := e.runPanel(ctx, candidate, session)
	session.SetFinalEvaluation(final)
	cb.finalEvaluation(final)

	e.updateCandidate(candidate, session, final)
	if err := e.store.SaveCandidate(ctx, candidate); err != nil {
		return "", errors.New(errors.CodePersistence, "save candidate memory", err)
	}

	path, err := e.store.SaveSession(ctx, session)
	if err != nil {
		return "", errors.New(errors.CodePersistence, "save session", err)
	}
	e.recordInArchive(ctx, session, path)

	if e.recorder != nil {
		e.recorder.InterviewCompleted(ctx, final.Decision)
	}
	e.logger.InfoContext(ctx, "interview complete",
		"candidate", candidateID, "decision", final.Decision, "score", final.FinalScore, "path", path)
	return path, nil
}

func (e *Engine) runRoundSpan(ctx context.Context, roleKey string, candidate *memory.CandidateMemory, session *memory.SessionMemory, provider AnswerProvider, cb Callbacks) (RoundOutcome, error) {
	ctx, span := tracer.Start(ctx, "interview.round",
		trace.WithAttributes(attribute.String("round.role", roleKey)))
	defer span.End()
	return e.controller.RunRound(ctx, roleKey, candidate, session, provider, cb)
}

// runPanel synthesizes the final evaluation and, when the candidate
// has prior history, appends the comparative trend narrative. The
// narrative is best-effort: a failure leaves the field absent.
func (e *Engine) runPanel(ctx context.Context, candidate *memory.CandidateMemory, session *memory.SessionMemory) *memory.FinalEvaluation {
	ctx, span := tracer.Start(ctx, "interview.panel")
	defer span.End()

	summary := Summarize(session, e.table)
	final := e.panel.GenerateFinalEvaluation(ctx, summary, candidate.HistorySummary())

	if len(candidate.InterviewHistory) > 0 {
		narrative, err := e.panel.GenerateComparativeAnalysis(ctx, final, candidate.InterviewHistory)
		if err != nil {
			e.logger.WarnContext(ctx, "comparative analysis unavailable", "error", err)
		} else {
			final.ComparativeAnalysis = narrative
		}
	}
	return final
}

func (e *Engine) updateCandidate(candidate *memory.CandidateMemory, session *memory.SessionMemory, final *memory.FinalEvaluation) {
	candidate.AddWeaknessTags(session.AllWeaknessTags())
	candidate.AddStrengthTags(session.AllStrengthTags())
	candidate.AddInterviewSummary(memory.InterviewSummary{
		Timestamp:     session.StartedAt,
		FinalScore:    final.FinalScore,
		WeightedScore: WeightedComposite(session.Rounds, e.table),
		Decision:      final.Decision,
		RoundsCount:   len(session.Rounds),
		KeyStrengths:  final.KeyStrengths,
		KeyWeaknesses: final.KeyWeaknesses,
	})
}

func (e *Engine) recordInArchive(ctx context.Context, session *memory.SessionMemory, path string) {
	if e.archive == nil {
		return
	}
	if err := e.archive.Record(ctx, session, path); err != nil {
		e.logger.WarnContext(ctx, "session archive update failed", "error", err)
	}
}

// RunPractice runs exactly one round for rapid single-skill practice.
// Nothing is persisted; the caller owns the outcome. Unknown role keys
// are rejected before any round starts.
func (e *Engine) RunPractice(ctx context.Context, candidateID, roleKey string, provider AnswerProvider, cb Callbacks) (RoundOutcome, error) {
	if _, ok := personas[roleKey]; !ok || roleKey == RolePanel {
		return RoundOutcome{}, unknownRoleError(roleKey)
	}

	ctx, span := tracer.Start(ctx, "interview.practice",
		trace.WithAttributes(attribute.String("round.role", roleKey)))
	defer span.End()

	candidate, err := e.store.LoadCandidate(ctx, candidateID)
	if err != nil {
		return RoundOutcome{}, errors.New(errors.CodePersistence, "load candidate memory", err)
	}
	session := memory.NewSession(candidateID, "practice: "+e.table.Name(roleKey))

	cb.roundStart(roleKey, e.table.Name(roleKey))
	outcome, err := e.controller.RunRound(ctx, roleKey, candidate, session, provider, cb)
	if err != nil {
		return RoundOutcome{}, err
	}
	cb.roundComplete(outcome)
	return outcome, nil
}

func unknownRoleError(roleKey string) error {
	return errors.New(errors.CodeConfigError, fmt.Sprintf("unknown interview role %q", roleKey), nil)
}
