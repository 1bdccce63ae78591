// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import "github.com/parley-sim/parley/pkg/memory"

// Callbacks are side-effect-only lifecycle hooks for transports and
// observability. Every field is optional; none may alter control flow.
type Callbacks struct {
	OnRoundStart      func(roleKey, roleName string)
	OnQuestion        func(question, roleName string)
	OnEvaluation      func(eval Evaluation)
	OnFollowUp        func(reason string)
	OnRoundComplete   func(outcome RoundOutcome)
	OnFinalEvaluation func(eval *memory.FinalEvaluation)
}

func (c Callbacks) roundStart(roleKey, roleName string) {
	if c.OnRoundStart != nil {
		c.OnRoundStart(roleKey, roleName)
	}
}

func (c Callbacks) question(question, roleName string) {
	if c.OnQuestion != nil {
		c.OnQuestion(question, roleName)
	}
}

func (c Callbacks) evaluation(eval Evaluation) {
	if c.OnEvaluation != nil {
		c.OnEvaluation(eval)
	}
}

func (c Callbacks) followUp(reason string) {
	if c.OnFollowUp != nil {
		c.OnFollowUp(reason)
	}
}

func (c Callbacks) roundComplete(outcome RoundOutcome) {
	if c.OnRoundComplete != nil {
		c.OnRoundComplete(outcome)
	}
}

func (c Callbacks) finalEvaluation(eval *memory.FinalEvaluation) {
	if c.OnFinalEvaluation != nil {
		c.OnFinalEvaluation(eval)
	}
}
