// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"encoding/json"

	"github.com/parley-sim/parley/pkg/llm"
)

// Evaluation is the canonical record produced for every answer. It is
// always usable: generation failures surface as a fallback record with
// RawError set, never as an error the round loop must handle.
type Evaluation struct {
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	WeaknessTags    []string `json:"weakness_tags"`
	StrengthTags    []string `json:"strength_tags"`
	KeyPoints       []string `json:"key_points"`
	ImprovementHint string   `json:"improvement_hint"`
	RawError        string   `json:"raw_error,omitempty"`
}

// Degraded reports whether this evaluation is a fallback produced from
// a failed or malformed generation result.
func (e Evaluation) Degraded() bool { return e.RawError != "" }

const fallbackFeedback = "The evaluation could not be generated for this answer. Please retry or consult the other rounds' feedback."

// Normalize coerces a structured generation result into a canonical
// evaluation. This is a local recovery point: error sentinels and
// payloads that are not JSON objects become a neutral midpoint record
// with the raw payload preserved for diagnostics. Within an object,
// each field is coerced on its own, so one mistyped field never drags
// a usable score down with it.
func Normalize(result llm.StructuredResult) Evaluation {
	if result.Failed() {
		return fallbackEvaluation(result)
	}

	fields, err := decodeFields(result.Payload)
	if err != nil {
		return fallbackEvaluation(result)
	}

	return Evaluation{
		Score:           coerceScore(fields["score"]),
		Feedback:        coerceString(fields["feedback"]),
		WeaknessTags:    FilterWeaknessTags(coerceStrings(fields["weakness_tags"])),
		StrengthTags:    FilterStrengthTags(coerceStrings(fields["strength_tags"])),
		KeyPoints:       coerceStrings(fields["key_points"]),
		ImprovementHint: coerceString(fields["improvement_hint"]),
	}
}

func fallbackEvaluation(result llm.StructuredResult) Evaluation {
	rawErr := result.Raw
	if rawErr == "" && result.Err != nil {
		rawErr = result.Err.Error()
	}
	return Evaluation{
		Score:           (ScoreMin + ScoreMax) / 2,
		Feedback:        fallbackFeedback,
		WeaknessTags:    []string{},
		StrengthTags:    []string{},
		KeyPoints:       []string{},
		ImprovementHint: "",
		RawError:        rawErr,
	}
}

// decodeFields splits a JSON object into its raw fields so each one can
// be coerced independently. Only a payload that is not an object at all
// is an error; callers fall back wholesale for those.
func decodeFields(payload json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// coerceScore clamps a numeric score into bounds, truncating to int.
// A missing or non-numeric field defaults to the midpoint.
func coerceScore(raw json.RawMessage) int {
	var f float64
	if raw == nil || json.Unmarshal(raw, &f) != nil {
		return (ScoreMin + ScoreMax) / 2
	}

	score := int(f)
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

func coerceString(raw json.RawMessage) string {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// coerceStrings tolerates a missing or mistyped list. Models sometimes
// emit a single tag as a bare string; that is lifted into a one-element
// list rather than dropped.
func coerceStrings(raw json.RawMessage) []string {
	if raw == nil {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err == nil {
		if items == nil {
			return []string{}
		}
		return items
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return []string{}
}
