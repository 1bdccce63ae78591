// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"fmt"
	"strings"

	"github.com/parley-sim/parley/pkg/config"
)

// Follow-up reasons for the rule-based triggers. Keyword triggers embed
// the matched keyword instead.
const (
	ReasonNeedsDetail = "needs more detail"
	ReasonTooBrief    = "answer too brief"
)

// FollowUpPolicy decides whether an answer warrants one clarifying
// question. It is a pure function of its inputs and this static config.
type FollowUpPolicy struct {
	Enabled         bool
	MaxFollowUps    int
	ScoreThreshold  int
	TriggerKeywords []string
	MinAnswerLength int
}

// DefaultFollowUpPolicy mirrors the built-in configuration defaults.
func DefaultFollowUpPolicy() FollowUpPolicy {
	return FollowUpPolicy{
		Enabled:         true,
		MaxFollowUps:    1,
		ScoreThreshold:  6,
		TriggerKeywords: []string{"not sure", "i think", "maybe", "probably"},
		MinAnswerLength: 50,
	}
}

// PolicyFromConfig builds the policy from loaded configuration.
func PolicyFromConfig(fc config.FollowUpConfig) FollowUpPolicy {
	return FollowUpPolicy{
		Enabled:         fc.Enabled,
		MaxFollowUps:    fc.MaxFollowUps,
		ScoreThreshold:  fc.ScoreThreshold,
		TriggerKeywords: fc.TriggerKeywords,
		MinAnswerLength: fc.MinAnswerLength,
	}
}

// ShouldFollowUp applies the ordered trigger rules; the first match
// wins. Keyword matching is a case-insensitive substring check.
func (p FollowUpPolicy) ShouldFollowUp(answer string, eval Evaluation) (bool, string) {
	if !p.Enabled {
		return false, ""
	}

	if eval.Score < p.ScoreThreshold {
		return true, ReasonNeedsDetail
	}

	lowered := strings.ToLower(answer)
	for _, keyword := range p.TriggerKeywords {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			return true, fmt.Sprintf("answer hedges with %q, needs clarification", keyword)
		}
	}

	if len(strings.TrimSpace(answer)) < p.MinAnswerLength {
		return true, ReasonTooBrief
	}

	return false, ""
}
