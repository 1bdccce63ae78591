// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"math"

	"github.com/parley-sim/parley/pkg/memory"
)

// WeightedComposite computes the weight-normalized session score.
// Follow-up entries are re-attributed to their base role's weight, and
// the sum is divided by the total weight actually encountered, so a
// session covering only part of the round table still normalizes
// correctly. Invariant to the order rounds were appended.
func WeightedComposite(rounds []memory.RoundResult, table RoundTable) float64 {
	totalWeight := 0.0
	weightedSum := 0.0
	for _, r := range rounds {
		weight := table.Weight(BaseRole(r.Role))
		weightedSum += float64(r.Score) * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return math.Round(weightedSum/totalWeight*100) / 100
}

// SessionSummary is the aggregated view handed to panel synthesis.
type SessionSummary struct {
	Rounds          []memory.RoundResult
	AverageScore    float64
	WeightedScore   float64
	AllWeaknessTags []string
	AllStrengthTags []string
}

// Summarize aggregates a session for the panel stage.
func Summarize(session *memory.SessionMemory, table RoundTable) SessionSummary {
	return SessionSummary{
		Rounds:          session.Rounds,
		AverageScore:    session.AverageScore(),
		WeightedScore:   WeightedComposite(session.Rounds, table),
		AllWeaknessTags: session.AllWeaknessTags(),
		AllStrengthTags: session.AllStrengthTags(),
	}
}
