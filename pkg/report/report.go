// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders finished interview sessions as markdown
// documents. Rendering is presentation only; a rendering failure never
// affects the interview outcome.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parley-sim/parley/pkg/interview"
	"github.com/parley-sim/parley/pkg/memory"
)

// Renderer writes session reports into a directory.
type Renderer struct {
	dir   string
	table interview.RoundTable
}

// NewRenderer creates a renderer. The directory is created on demand.
func NewRenderer(dir string, table interview.RoundTable) *Renderer {
	return &Renderer{dir: dir, table: table}
}

// WriteSessionReport renders the session and writes it next to the
// session files, returning the report path.
func (r *Renderer) WriteSessionReport(session *memory.SessionMemory) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.md", filepath.Base(session.CandidateID), session.StartedAt.Format("20060102_150405"))
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, []byte(r.Markdown(session)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Markdown renders the full session report.
func (r *Renderer) Markdown(session *memory.SessionMemory) string {
	var b strings.Builder
	final := session.FinalEvaluation

	fmt.Fprintf(&b, "# Mock Interview Report\n\n")
	fmt.Fprintf(&b, "**Candidate**: %s\n", session.CandidateID)
	fmt.Fprintf(&b, "**Position**: %s\n", session.Position)
	fmt.Fprintf(&b, "**Interview date**: %s\n", session.StartedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Generated**: %s\n\n", time.Now().Format("2006-01-02 15:04"))

	b.WriteString("---\n## Overall Assessment\n\n")
	score := session.AverageScore()
	if final != nil {
		score = final.FinalScore
	}
	fmt.Fprintf(&b, "### Score: %.1f/10 (%s)\n\n", score, levelForScore(score))

	if final != nil {
		fmt.Fprintf(&b, "**Decision**: %s\n\n", final.Decision)
		if final.DecisionReason != "" {
			fmt.Fprintf(&b, "**Reasoning**: %s\n\n", final.DecisionReason)
		}
		if final.OverallFeedback != "" {
			fmt.Fprintf(&b, "**Overall feedback**: %s\n\n", final.OverallFeedback)
		}
		r.writeDimensions(&b, final)
		writeList(&b, "### Key Strengths", final.KeyStrengths)
		writeList(&b, "### Areas to Improve", final.KeyWeaknesses)
	}

	b.WriteString("---\n## Round Details\n\n")
	mainIndex := 0
	for i, round := range session.Rounds {
		if round.IsFollowUp {
			continue
		}
		mainIndex++
		fmt.Fprintf(&b, "### %d. %s\n\n", mainIndex, r.table.Name(round.Role))
		r.writeExchange(&b, round)

		// A follow-up immediately after belongs to this round's slot.
		if i+1 < len(session.Rounds) && session.Rounds[i+1].IsFollowUp {
			b.WriteString("**Follow-up**\n\n")
			r.writeExchange(&b, session.Rounds[i+1])
		}
	}

	if final != nil {
		b.WriteString("---\n## Recommendations\n\n")
		writeList(&b, "### Improvement Suggestions", final.ImprovementSuggestions)
		writeList(&b, "### Practice Focus", final.PracticeFocus)
		if final.NextSteps != "" {
			fmt.Fprintf(&b, "**Next steps**: %s\n\n", final.NextSteps)
		}
		if final.ComparativeAnalysis != "" {
			b.WriteString("### Progress Against Prior Interviews\n\n")
			b.WriteString(final.ComparativeAnalysis + "\n\n")
		}
	}

	return b.String()
}

func (r *Renderer) writeExchange(b *strings.Builder, round memory.RoundResult) {
	fmt.Fprintf(b, "**Score**: %d/10\n\n", round.Score)
	fmt.Fprintf(b, "**Question**: %s\n\n", round.Question)
	fmt.Fprintf(b, "**Answer**: %s\n\n", round.Answer)
	if round.Feedback != "" {
		fmt.Fprintf(b, "**Feedback**: %s\n\n", round.Feedback)
	}
	if len(round.WeaknessTags) > 0 {
		fmt.Fprintf(b, "Weaknesses: %s\n\n", strings.Join(round.WeaknessTags, ", "))
	}
	if len(round.StrengthTags) > 0 {
		fmt.Fprintf(b, "Strengths: %s\n\n", strings.Join(round.StrengthTags, ", "))
	}
	if round.ImprovementHint != "" {
		fmt.Fprintf(b, "Hint: %s\n\n", round.ImprovementHint)
	}
}

func (r *Renderer) writeDimensions(b *strings.Builder, final *memory.FinalEvaluation) {
	if len(final.DimensionScores) == 0 {
		return
	}
	dims := make([]string, 0, len(final.DimensionScores))
	for dim := range final.DimensionScores {
		dims = append(dims, dim)
	}
	sort.Strings(dims)

	b.WriteString("### Dimension Scores\n\n")
	b.WriteString("| Dimension | Score | Level |\n|---|---|---|\n")
	for _, dim := range dims {
		s := final.DimensionScores[dim]
		fmt.Fprintf(b, "| %s | %d/10 | %s |\n", dim, s, levelForScore(float64(s)))
	}
	b.WriteString("\n")
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading + "\n\n")
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func levelForScore(score float64) string {
	switch {
	case score >= 9:
		return "excellent"
	case score >= 7:
		return "good"
	case score >= 5:
		return "adequate"
	case score >= 3:
		return "needs improvement"
	default:
		return "insufficient"
	}
}
