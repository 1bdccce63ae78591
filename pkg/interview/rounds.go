// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parley-sim/parley/pkg/errors"
)

// Score bounds for every evaluation in the system.
const (
	ScoreMin = 0
	ScoreMax = 10
)

// Role keys for the fixed interviewer set. Follow-up results carry the
// base key with FollowUpSuffix appended.
const (
	RoleHR            = "hr"
	RoleHiringManager = "hiring_manager"
	RoleTechnical     = "technical"
	RoleCultureFit    = "culture_fit"
	RolePanel         = "panel"

	FollowUpSuffix = "_followup"
)

// RoundConfig is the static per-role round table entry.
type RoundConfig struct {
	Name            string  `yaml:"name"`
	Weight          float64 `yaml:"weight"`
	MinQuestions    int     `yaml:"min_questions"`
	MaxQuestions    int     `yaml:"max_questions"`
	FollowUpEnabled bool    `yaml:"follow_up_enabled"`
}

// RoundTable maps role keys to their configuration plus the order the
// engine walks them in. The panel role carries weight but asks no
// questions and is excluded from the round order.
type RoundTable struct {
	Rounds map[string]RoundConfig `yaml:"rounds"`
	Order  []string               `yaml:"order"`
}

// DefaultRoundTable returns the built-in round table. Weights need not
// sum to 1; the aggregator normalizes by weights actually used.
func DefaultRoundTable() RoundTable {
	return RoundTable{
		Rounds: map[string]RoundConfig{
			RoleHR:            {Name: "HR Screening", Weight: 0.15, MinQuestions: 1, MaxQuestions: 2, FollowUpEnabled: true},
			RoleHiringManager: {Name: "Hiring Manager Interview", Weight: 0.25, MinQuestions: 1, MaxQuestions: 2, FollowUpEnabled: true},
			RoleTechnical:     {Name: "Technical Interview", Weight: 0.35, MinQuestions: 1, MaxQuestions: 2, FollowUpEnabled: true},
			RoleCultureFit:    {Name: "Culture Fit Interview", Weight: 0.15, MinQuestions: 1, MaxQuestions: 1, FollowUpEnabled: true},
			RolePanel:         {Name: "Final Panel Review", Weight: 0.10, FollowUpEnabled: false},
		},
		Order: []string{RoleHR, RoleHiringManager, RoleTechnical, RoleCultureFit},
	}
}

// LoadRoundTable reads a YAML override for the built-in table. Roles
// present in the file replace the defaults; absent roles keep theirs.
func LoadRoundTable(path string) (RoundTable, error) {
	table := DefaultRoundTable()

	data, err := os.ReadFile(path)
	if err != nil {
		return table, errors.New(errors.CodeConfigError, fmt.Sprintf("read round table %s", path), err)
	}

	var override RoundTable
	if err := yaml.Unmarshal(data, &override); err != nil {
		return table, errors.New(errors.CodeConfigError, fmt.Sprintf("parse round table %s", path), err)
	}

	for key, rc := range override.Rounds {
		if _, ok := table.Rounds[key]; !ok {
			return table, errors.New(errors.CodeConfigError, fmt.Sprintf("unknown role %q in round table", key), nil)
		}
		table.Rounds[key] = rc
	}
	if len(override.Order) > 0 {
		for _, key := range override.Order {
			if _, ok := table.Rounds[key]; !ok || key == RolePanel {
				return table, errors.New(errors.CodeConfigError, fmt.Sprintf("invalid role %q in round order", key), nil)
			}
		}
		table.Order = override.Order
	}
	return table, nil
}

// Name returns the display name for a role key, falling back to the
// key itself.
func (t RoundTable) Name(roleKey string) string {
	if rc, ok := t.Rounds[BaseRole(roleKey)]; ok {
		return rc.Name
	}
	return roleKey
}

// Weight returns the composite weight for a role key. Follow-up keys
// resolve to their base role.
func (t RoundTable) Weight(roleKey string) float64 {
	if rc, ok := t.Rounds[BaseRole(roleKey)]; ok {
		return rc.Weight
	}
	return 0
}

// BaseRole strips the follow-up suffix so aggregation re-attributes
// follow-up entries to their base role.
func BaseRole(roleKey string) string {
	return strings.TrimSuffix(roleKey, FollowUpSuffix)
}

// FollowUpRole returns the suffixed role key for a follow-up entry.
func FollowUpRole(roleKey string) string {
	return roleKey + FollowUpSuffix
}

// IsFollowUpRole reports whether the key carries the follow-up suffix.
func IsFollowUpRole(roleKey string) bool {
	return strings.HasSuffix(roleKey, FollowUpSuffix)
}

// scoreBand maps an inclusive score range onto a hiring decision.
type scoreBand struct {
	low, high int
	decision  string
}

// Decision strings, ordered from best to worst band.
const (
	DecisionStrongHire     = "strong hire"
	DecisionHire           = "hire"
	DecisionCandidate      = "candidate"
	DecisionNotRecommended = "not recommended"
	DecisionReject         = "reject"
)

var scoreBands = []scoreBand{
	{9, 10, DecisionStrongHire},
	{7, 8, DecisionHire},
	{5, 6, DecisionCandidate},
	{3, 4, DecisionNotRecommended},
	{0, 2, DecisionReject},
}

// DecisionForScore is the deterministic score-to-decision lookup used
// when panel output omits or garbles the decision. Fractional scores
// fall into the band of their integer part; out-of-range values resolve
// to the mid tier.
func DecisionForScore(score float64) string {
	for _, b := range scoreBands {
		if score >= float64(b.low) && score < float64(b.high)+1 {
			return b.decision
		}
	}
	return DecisionCandidate
}

// KnownDecision reports whether s is one of the decision strings.
func KnownDecision(s string) bool {
	for _, b := range scoreBands {
		if b.decision == s {
			return true
		}
	}
	return false
}
