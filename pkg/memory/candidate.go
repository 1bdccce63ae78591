// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NoHistorySentinel is the digest returned for candidates with no prior
// interviews. Collaborators rely on the literal value.
const NoHistorySentinel = "This is the candidate's first mock interview; no prior history."

// Trend values derived from interview history.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Profile holds externally supplied candidate attributes. The core never
// infers these.
type Profile struct {
	Name            string   `json:"name"`
	ExperienceYears int      `json:"experience_years"`
	Skills          []string `json:"skills"`
	TargetCompanies []string `json:"target_companies"`
	Notes           string   `json:"notes"`
}

// InterviewSummary is one append-only history entry per completed session.
type InterviewSummary struct {
	Timestamp     time.Time `json:"timestamp"`
	FinalScore    float64   `json:"final_score"`
	WeightedScore float64   `json:"weighted_score"`
	Decision      string    `json:"decision"`
	RoundsCount   int       `json:"rounds_count"`
	KeyStrengths  []string  `json:"key_strengths"`
	KeyWeaknesses []string  `json:"key_weaknesses"`
	AddedAt       time.Time `json:"added_at"`
}

// Statistics are derived from history and tag maps. They are recomputed
// exactly once, immediately before every persist, and never mutated
// independently.
type Statistics struct {
	TotalInterviews    int     `json:"total_interviews"`
	AverageScore       float64 `json:"average_score"`
	BestScore          float64 `json:"best_score"`
	RecentTrend        string  `json:"recent_trend"`
	MostCommonWeakness string  `json:"most_common_weakness"`
	MostCommonStrength string  `json:"most_common_strength"`
}

// TagCount pairs a tag with its cumulative occurrence count.
type TagCount struct {
	Tag   string
	Count int
}

// CandidateMemory is the longitudinal profile for one candidate id.
// Tag counts only ever grow; history is append-only.
type CandidateMemory struct {
	CandidateID      string             `json:"candidate_id"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Position         string             `json:"position"`
	Profile          Profile            `json:"profile"`
	WeaknessTags     map[string]int     `json:"weakness_tags"`
	StrengthTags     map[string]int     `json:"strength_tags"`
	InterviewHistory []InterviewSummary `json:"interview_history"`
	Statistics       Statistics         `json:"statistics"`
}

// NewCandidateMemory creates a default profile for an id.
func NewCandidateMemory(id string) *CandidateMemory {
	now := time.Now().UTC()
	return &CandidateMemory{
		CandidateID:  id,
		CreatedAt:    now,
		UpdatedAt:    now,
		WeaknessTags: make(map[string]int),
		StrengthTags: make(map[string]int),
	}
}

// mergeDefaults fills fields absent in stored data so old records keep
// loading as the schema evolves. One level deep for the nested maps.
func (c *CandidateMemory) mergeDefaults(id string) {
	if c.CandidateID == "" {
		c.CandidateID = id
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.WeaknessTags == nil {
		c.WeaknessTags = make(map[string]int)
	}
	if c.StrengthTags == nil {
		c.StrengthTags = make(map[string]int)
	}
}

// AddWeaknessTags increments the cumulative count for each tag.
func (c *CandidateMemory) AddWeaknessTags(tags []string) {
	for _, tag := range tags {
		if tag != "" {
			c.WeaknessTags[tag]++
		}
	}
}

// AddStrengthTags increments the cumulative count for each tag.
func (c *CandidateMemory) AddStrengthTags(tags []string) {
	for _, tag := range tags {
		if tag != "" {
			c.StrengthTags[tag]++
		}
	}
}

// AddInterviewSummary appends one history entry.
func (c *CandidateMemory) AddInterviewSummary(summary InterviewSummary) {
	if summary.AddedAt.IsZero() {
		summary.AddedAt = time.Now().UTC()
	}
	c.InterviewHistory = append(c.InterviewHistory, summary)
}

// TopWeaknesses returns the n most frequent weakness tags.
func (c *CandidateMemory) TopWeaknesses(n int) []TagCount {
	return topTags(c.WeaknessTags, n)
}

// TopStrengths returns the n most frequent strength tags.
func (c *CandidateMemory) TopStrengths(n int) []TagCount {
	return topTags(c.StrengthTags, n)
}

func topTags(tags map[string]int, n int) []TagCount {
	out := make([]TagCount, 0, len(tags))
	for tag, count := range tags {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	// Ties broken by name so output is deterministic.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RecomputeStatistics derives statistics from history and tag maps.
// The store calls it once per save; callers should not need to.
func (c *CandidateMemory) RecomputeStatistics() {
	stats := Statistics{TotalInterviews: len(c.InterviewHistory)}

	var scores []float64
	for _, h := range c.InterviewHistory {
		if h.FinalScore > 0 {
			scores = append(scores, h.FinalScore)
		}
	}
	if len(scores) > 0 {
		sum, best := 0.0, 0.0
		for _, s := range scores {
			sum += s
			if s > best {
				best = s
			}
		}
		stats.AverageScore = round2(sum / float64(len(scores)))
		stats.BestScore = best

		// Trend compares the last three interviews with everything before.
		if len(scores) >= 4 {
			recent := (scores[len(scores)-3] + scores[len(scores)-2] + scores[len(scores)-1]) / 3
			earlierSum := 0.0
			for _, s := range scores[:len(scores)-3] {
				earlierSum += s
			}
			earlier := earlierSum / float64(len(scores)-3)
			switch {
			case recent > earlier+0.5:
				stats.RecentTrend = TrendImproving
			case recent < earlier-0.5:
				stats.RecentTrend = TrendDeclining
			default:
				stats.RecentTrend = TrendStable
			}
		}
	}

	if top := c.TopWeaknesses(1); len(top) > 0 {
		stats.MostCommonWeakness = top[0].Tag
	}
	if top := c.TopStrengths(1); len(top) > 0 {
		stats.MostCommonStrength = top[0].Tag
	}

	c.Statistics = stats
}

// HistorySummary renders the digest handed to the panel stage.
func (c *CandidateMemory) HistorySummary() string {
	if len(c.InterviewHistory) == 0 {
		return NoHistorySentinel
	}

	stats := c.Statistics
	lines := []string{
		"Historical statistics:",
		fmt.Sprintf("  - total interviews: %d", len(c.InterviewHistory)),
		fmt.Sprintf("  - average score: %.2f/10", stats.AverageScore),
		fmt.Sprintf("  - best score: %.1f/10", stats.BestScore),
	}
	if stats.RecentTrend != "" {
		lines = append(lines, fmt.Sprintf("  - recent trend: %s", stats.RecentTrend))
	}

	recent := c.InterviewHistory
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	lines = append(lines, fmt.Sprintf("Last %d interview(s):", len(recent)))
	for i, h := range recent {
		lines = append(lines, fmt.Sprintf("  %d. scored %.1f/10 - %s", i+1, h.FinalScore, h.Decision))
		if len(h.KeyWeaknesses) > 0 {
			lines = append(lines, fmt.Sprintf("     main issues: %s", strings.Join(capped(h.KeyWeaknesses, 2), ", ")))
		}
	}

	if top := c.TopWeaknesses(3); len(top) > 0 {
		lines = append(lines, "Cumulative weaknesses: "+formatTagCounts(top))
	}
	if top := c.TopStrengths(3); len(top) > 0 {
		lines = append(lines, "Cumulative strengths: "+formatTagCounts(top))
	}

	return strings.Join(lines, "\n")
}

// ContextForPrompt renders the candidate context used for question
// generation. Historical weaknesses are surfaced so interviewers can
// probe them deliberately.
func (c *CandidateMemory) ContextForPrompt() string {
	var lines []string

	if c.Profile.Name != "" {
		lines = append(lines, "Candidate: "+c.Profile.Name)
	}
	if c.Profile.ExperienceYears > 0 {
		lines = append(lines, fmt.Sprintf("Experience: %d years", c.Profile.ExperienceYears))
	}
	if len(c.Profile.Skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(capped(c.Profile.Skills, 5), ", "))
	}

	if len(c.InterviewHistory) > 0 {
		lines = append(lines, fmt.Sprintf("Prior interviews: %d", len(c.InterviewHistory)))
		if c.Statistics.AverageScore > 0 {
			lines = append(lines, fmt.Sprintf("Average score: %.2f/10", c.Statistics.AverageScore))
		}
		if c.Statistics.RecentTrend != "" {
			lines = append(lines, "Recent trend: "+c.Statistics.RecentTrend)
		}
	}

	if top := c.TopWeaknesses(3); len(top) > 0 {
		tags := make([]string, len(top))
		for i, t := range top {
			tags[i] = t.Tag
		}
		lines = append(lines, "Known weaknesses (worth probing): "+strings.Join(tags, ", "))
	}
	if top := c.TopStrengths(3); len(top) > 0 {
		tags := make([]string, len(top))
		for i, t := range top {
			tags[i] = t.Tag
		}
		lines = append(lines, "Known strengths: "+strings.Join(tags, ", "))
	}

	if len(lines) == 0 {
		return "New candidate, no history yet."
	}
	return strings.Join(lines, "\n")
}

func formatTagCounts(tags []TagCount) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = fmt.Sprintf("%s(%d)", t.Tag, t.Count)
	}
	return strings.Join(parts, ", ")
}
