// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory provides the two memory levels of an interview: the
// per-attempt session record and the longitudinal candidate profile,
// plus their persistence backends.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RoundResult is one completed question/answer exchange. Follow-up
// exchanges are separate results with IsFollowUp set and the role key
// suffixed, so aggregation can re-attribute them to the base role.
type RoundResult struct {
	Role            string    `json:"role"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Score           int       `json:"score"`
	Feedback        string    `json:"feedback"`
	WeaknessTags    []string  `json:"weakness_tags"`
	StrengthTags    []string  `json:"strength_tags"`
	KeyPoints       []string  `json:"key_points"`
	ImprovementHint string    `json:"improvement_hint"`
	IsFollowUp      bool      `json:"is_follow_up"`
	Timestamp       time.Time `json:"timestamp"`
}

// FinalEvaluation is the panel synthesis outcome stored on a session.
type FinalEvaluation struct {
	FinalScore             float64        `json:"final_score"`
	Decision               string         `json:"decision"`
	DecisionReason         string         `json:"decision_reason,omitempty"`
	OverallFeedback        string         `json:"overall_feedback,omitempty"`
	DimensionScores        map[string]int `json:"dimension_scores,omitempty"`
	KeyStrengths           []string       `json:"key_strengths,omitempty"`
	KeyWeaknesses          []string       `json:"key_weaknesses,omitempty"`
	ImprovementSuggestions []string       `json:"improvement_suggestions,omitempty"`
	PracticeFocus          []string       `json:"practice_focus,omitempty"`
	NextSteps              string         `json:"next_steps,omitempty"`
	// ComparativeAnalysis is only present when the candidate had prior
	// history and the trend narrative succeeded. Never an empty string.
	ComparativeAnalysis string `json:"comparative_analysis,omitempty"`
	// RawError preserves the generation failure payload for diagnostics
	// when the evaluation is a degraded fallback.
	RawError string `json:"raw_error,omitempty"`
}

// SessionMemory records a single interview attempt for one candidate.
// It is mutated only by appending rounds and by one terminal write of
// the final evaluation, then persisted write-once.
type SessionMemory struct {
	ID              string           `json:"id"`
	CandidateID     string           `json:"candidate_id"`
	Position        string           `json:"position"`
	StartedAt       time.Time        `json:"started_at"`
	Rounds          []RoundResult    `json:"rounds"`
	FinalEvaluation *FinalEvaluation `json:"final_evaluation,omitempty"`
}

// NewSession creates a fresh session for the candidate.
func NewSession(candidateID, position string) *SessionMemory {
	return &SessionMemory{
		ID:          uuid.New().String(),
		CandidateID: candidateID,
		Position:    position,
		StartedAt:   time.Now().UTC(),
	}
}

// AddRound appends a round result, stamping it if needed.
func (s *SessionMemory) AddRound(r RoundResult) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	s.Rounds = append(s.Rounds, r)
}

// SetFinalEvaluation stores the panel outcome. Only the first write
// takes effect; the evaluation is terminal.
func (s *SessionMemory) SetFinalEvaluation(eval *FinalEvaluation) {
	if s.FinalEvaluation != nil {
		return
	}
	s.FinalEvaluation = eval
}

// AverageScore is the simple mean over every round, follow-ups included.
func (s *SessionMemory) AverageScore() float64 {
	if len(s.Rounds) == 0 {
		return 0
	}
	sum := 0
	for _, r := range s.Rounds {
		sum += r.Score
	}
	return round2(float64(sum) / float64(len(s.Rounds)))
}

// AllWeaknessTags returns the deduplicated weakness tags across rounds.
func (s *SessionMemory) AllWeaknessTags() []string {
	return dedupTags(s.Rounds, func(r RoundResult) []string { return r.WeaknessTags })
}

// AllStrengthTags returns the deduplicated strength tags across rounds.
func (s *SessionMemory) AllStrengthTags() []string {
	return dedupTags(s.Rounds, func(r RoundResult) []string { return r.StrengthTags })
}

func dedupTags(rounds []RoundResult, pick func(RoundResult) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rounds {
		for _, tag := range pick(r) {
			if tag != "" && !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ContextForNextRound summarizes the most recent main rounds for the
// next interviewer's question generation.
func (s *SessionMemory) ContextForNextRound() string {
	if len(s.Rounds) == 0 {
		return "This is the first round of the interview."
	}

	var mains []RoundResult
	for _, r := range s.Rounds {
		if !r.IsFollowUp {
			mains = append(mains, r)
		}
	}
	if len(mains) > 3 {
		mains = mains[len(mains)-3:]
	}

	var b strings.Builder
	b.WriteString("Summary of earlier rounds:\n")
	for _, r := range mains {
		fmt.Fprintf(&b, "- %s round: scored %d/10\n", r.Role, r.Score)
		if len(r.WeaknessTags) > 0 {
			fmt.Fprintf(&b, "  needs work: %s\n", strings.Join(capped(r.WeaknessTags, 2), ", "))
		}
		if len(r.KeyPoints) > 0 {
			fmt.Fprintf(&b, "  key points: %s\n", strings.Join(capped(r.KeyPoints, 2), ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// sessionSummary is the derived block written alongside the rounds.
type sessionSummary struct {
	TotalRounds     int      `json:"total_rounds"`
	MainRounds      int      `json:"main_rounds"`
	FollowUpRounds  int      `json:"follow_up_rounds"`
	AverageScore    float64  `json:"average_score"`
	AllWeaknessTags []string `json:"all_weakness_tags"`
	AllStrengthTags []string `json:"all_strength_tags"`
}

// sessionRecord is the persisted, write-once form of a session.
type sessionRecord struct {
	ID              string           `json:"id"`
	CandidateID     string           `json:"candidate_id"`
	Position        string           `json:"position"`
	StartedAt       time.Time        `json:"started_at"`
	EndedAt         time.Time        `json:"ended_at"`
	Rounds          []RoundResult    `json:"rounds"`
	FinalEvaluation *FinalEvaluation `json:"final_evaluation,omitempty"`
	Summary         sessionSummary   `json:"summary"`
}

func (s *SessionMemory) record() sessionRecord {
	followUps := 0
	for _, r := range s.Rounds {
		if r.IsFollowUp {
			followUps++
		}
	}
	return sessionRecord{
		ID:              s.ID,
		CandidateID:     s.CandidateID,
		Position:        s.Position,
		StartedAt:       s.StartedAt,
		EndedAt:         time.Now().UTC(),
		Rounds:          s.Rounds,
		FinalEvaluation: s.FinalEvaluation,
		Summary: sessionSummary{
			TotalRounds:     len(s.Rounds),
			MainRounds:      len(s.Rounds) - followUps,
			FollowUpRounds:  followUps,
			AverageScore:    s.AverageScore(),
			AllWeaknessTags: s.AllWeaknessTags(),
			AllStrengthTags: s.AllStrengthTags(),
		},
	}
}

func capped(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
