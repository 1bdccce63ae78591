// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/parley-sim/parley/pkg/config"
	"github.com/parley-sim/parley/pkg/interview"
)

// runRecommend prints practice recommendations derived from the
// candidate's accumulated weakness profile.
func runRecommend(ctx context.Context, global globalFlags, cfg *config.Config) {
	store, archive := openStorage(cfg)
	if archive != nil {
		archive.Close()
	}

	candidate, err := store.LoadCandidate(ctx, global.CandidateID)
	if err != nil {
		fatal(err)
	}

	recommendations := interview.PracticeRecommendations(candidate)
	if global.JSON {
		printJSON(struct {
			CandidateID     string   `json:"candidate_id"`
			Interviews      int      `json:"interviews"`
			AverageScore    float64  `json:"average_score"`
			RecentTrend     string   `json:"recent_trend"`
			Recommendations []string `json:"recommendations"`
		}{
			CandidateID:     candidate.CandidateID,
			Interviews:      candidate.Statistics.TotalInterviews,
			AverageScore:    candidate.Statistics.AverageScore,
			RecentTrend:     candidate.Statistics.RecentTrend,
			Recommendations: recommendations,
		})
		return
	}

	fmt.Println(candidate.HistorySummary())
	if len(recommendations) == 0 {
		fmt.Println("\nNo weaknesses on record yet. Run an interview first.")
		return
	}
	fmt.Println("\nPractice recommendations:")
	for _, rec := range recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
