// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InterviewMetrics counts interview activity. It satisfies the engine's
// RoundRecorder interface; a nil receiver is a no-op so wiring stays
// optional.
type InterviewMetrics struct {
	rounds     metric.Int64Counter
	recovered  metric.Int64Counter
	interviews metric.Int64Counter
}

// NewInterviewMetrics registers the interview counters on the global
// meter provider.
func NewInterviewMetrics() (*InterviewMetrics, error) {
	meter := otel.Meter("parley/interview")

	rounds, err := meter.Int64Counter(
		"parley.rounds.total",
		metric.WithDescription("Completed interview rounds by role"),
	)
	if err != nil {
		return nil, err
	}

	recovered, err := meter.Int64Counter(
		"parley.generation.recovered",
		metric.WithDescription("Generation failures recovered with a degraded evaluation"),
	)
	if err != nil {
		return nil, err
	}

	interviews, err := meter.Int64Counter(
		"parley.interviews.total",
		metric.WithDescription("Completed full interviews by decision"),
	)
	if err != nil {
		return nil, err
	}

	return &InterviewMetrics{rounds: rounds, recovered: recovered, interviews: interviews}, nil
}

// RoundCompleted counts one finished round.
func (m *InterviewMetrics) RoundCompleted(ctx context.Context, roleKey string, hadFollowUp bool) {
	if m == nil {
		return
	}
	m.rounds.Add(ctx, 1, metric.WithAttributes(
		attribute.String("round.role", roleKey),
		attribute.Bool("round.follow_up", hadFollowUp),
	))
}

// GenerationRecovered counts one locally recovered generation failure.
func (m *InterviewMetrics) GenerationRecovered(ctx context.Context) {
	if m == nil {
		return
	}
	m.recovered.Add(ctx, 1)
}

// InterviewCompleted counts one finished full interview.
func (m *InterviewMetrics) InterviewCompleted(ctx context.Context, decision string) {
	if m == nil {
		return
	}
	m.interviews.Add(ctx, 1, metric.WithAttributes(
		attribute.String("interview.decision", decision),
	))
}
