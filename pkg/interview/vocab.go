// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package interview contains the orchestration core: the round state
// machine, follow-up policy, evaluation normalization, score
// aggregation and the workflow engine that sequences a full interview.
package interview

import "sort"

// The controlled tag vocabularies. Evaluations may only carry tags from
// these sets; anything else is dropped during normalization. Grouped by
// category because the groups are echoed into evaluation prompts.
var weaknessTagsByCategory = map[string][]string{
	"expression and structure": {
		"unclear_structure",
		"rambling",
		"incoherent_logic",
		"missing_examples",
	},
	"technical skills": {
		"weak_statistics",
		"sql_gaps",
		"weak_python",
		"incomplete_experiment_design",
		"shallow_metric_understanding",
	},
	"business understanding": {
		"missing_business_view",
		"off_topic",
		"no_delivered_impact",
		"weak_data_mindset",
		"low_business_sense",
	},
	"soft skills": {
		"weak_communication",
		"shallow_projects",
		"unprepared_cases",
		"low_self_awareness",
		"little_teamwork",
	},
}

var strengthTagsByCategory = map[string][]string{
	"expression and structure": {
		"clear_structure",
		"concise_delivery",
		"rigorous_logic",
		"vivid_examples",
	},
	"technical skills": {
		"solid_statistics",
		"strong_sql",
		"fluent_python",
		"sound_experiment_design",
		"clear_metric_system",
	},
	"business understanding": {
		"deep_business_understanding",
		"data_driven_mindset",
		"delivered_impact",
		"high_data_sense",
		"produces_insights",
	},
	"soft skills": {
		"strong_communication",
		"rich_project_experience",
		"fast_learner",
		"growth_mindset",
		"good_teamwork",
	},
}

var (
	weaknessTagSet = flatten(weaknessTagsByCategory)
	strengthTagSet = flatten(strengthTagsByCategory)
)

func flatten(byCategory map[string][]string) map[string]bool {
	set := make(map[string]bool)
	for _, tags := range byCategory {
		for _, t := range tags {
			set[t] = true
		}
	}
	return set
}

// ValidWeaknessTag reports whether t is in the weakness vocabulary.
func ValidWeaknessTag(t string) bool { return weaknessTagSet[t] }

// ValidStrengthTag reports whether t is in the strength vocabulary.
func ValidStrengthTag(t string) bool { return strengthTagSet[t] }

// FilterWeaknessTags keeps only vocabulary tags, preserving order.
func FilterWeaknessTags(tags []string) []string { return filterTags(tags, weaknessTagSet) }

// FilterStrengthTags keeps only vocabulary tags, preserving order.
func FilterStrengthTags(tags []string) []string { return filterTags(tags, strengthTagSet) }

func filterTags(tags []string, set map[string]bool) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if set[t] {
			out = append(out, t)
		}
	}
	return out
}

// vocabForPrompt renders a category-grouped tag listing for evaluation
// prompts, with deterministic category order.
func vocabForPrompt(byCategory map[string][]string) string {
	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	out := ""
	for _, cat := range cats {
		out += "  - " + cat + ": "
		for i, t := range byCategory[cat] {
			if i > 0 {
				out += ", "
			}
			out += t
		}
		out += "\n"
	}
	return out
}
