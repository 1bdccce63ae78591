// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"fmt"

	"github.com/parley-sim/parley/pkg/memory"
)

// adviceByWeakness maps cumulative weakness tags to concrete practice
// advice. Tags without an entry get a generic nudge.
var adviceByWeakness = map[string]string{
	"unclear_structure":            "Practice the STAR structure (situation, task, action, result) for every answer.",
	"weak_statistics":              "Review hypothesis testing, confidence intervals and regression fundamentals.",
	"sql_gaps":                     "Drill SQL exercises, focusing on window functions and multi-step queries.",
	"weak_python":                  "Work through pandas-centric analysis exercises until the idioms are automatic.",
	"missing_business_view":        "Before answering, ask yourself what the business impact of the work was.",
	"no_delivered_impact":          "Prepare project stories that end with a quantified business result.",
	"weak_communication":           "Practice concise delivery: lead with the point, cut filler.",
	"unprepared_cases":             "Prepare three to five deep project cases, each structured with STAR.",
	"shallow_projects":             "Pick one or two projects and learn every detail well enough to defend them.",
	"weak_data_mindset":            "Build the habit of arguing with numbers; add figures to every example.",
	"incomplete_experiment_design": "Review the full A/B test workflow, including sample size calculation and result interpretation.",
	"rambling":                     "Time your answers; aim for two minutes with a clear opening point.",
}

// PracticeRecommendations derives up to five practice suggestions from
// the candidate's most frequent weaknesses.
func PracticeRecommendations(candidate *memory.CandidateMemory) []string {
	var out []string
	for _, tc := range candidate.TopWeaknesses(5) {
		advice, ok := adviceByWeakness[tc.Tag]
		if !ok {
			advice = "Target this area with focused practice."
		}
		out = append(out, fmt.Sprintf("[%s] %s", tc.Tag, advice))
	}
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
