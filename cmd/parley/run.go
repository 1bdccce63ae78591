// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/parley-sim/parley/pkg/config"
	"github.com/parley-sim/parley/pkg/interview"
	"github.com/parley-sim/parley/pkg/memory"
	"github.com/parley-sim/parley/pkg/report"
)

// runInterview drives a full multi-round interview on the terminal,
// then writes the session report next to the session record.
func runInterview(ctx context.Context, global globalFlags, cfg *config.Config) {
	client := buildClient(cfg)
	store, archive := openStorage(cfg)
	if archive != nil {
		defer archive.Close()
	}
	table := loadRoundTable(cfg)
	engine := newEngine(cfg, client, store, archive, table)

	answers := &stdinAnswers{in: bufio.NewReader(os.Stdin), out: os.Stdout}

	fmt.Printf("Starting interview for %q (candidate %s)\n", cfg.Interview.Position, global.CandidateID)
	path, err := engine.RunFullInterview(ctx, global.CandidateID, answers.Provide, consoleCallbacks(global))
	if err != nil {
		fatal(err)
	}
	fmt.Printf("\nSession saved to %s\n", path)

	session, err := loadSession(path)
	if err != nil {
		slog.Warn("session report skipped", "error", err)
		return
	}
	renderer := report.NewRenderer(store.ReportsDir(), table)
	reportPath, err := renderer.WriteSessionReport(session)
	if err != nil {
		slog.Warn("session report skipped", "error", err)
		return
	}
	fmt.Printf("Report written to %s\n", reportPath)
}

// runPractice runs a single round for the named role. Nothing is
// persisted; the outcome is printed and discarded.
func runPractice(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal(fmt.Errorf("practice requires a role, one of: %s", strings.Join(practiceRoles(), ", ")))
	}
	roleKey := args[0]

	client := buildClient(cfg)
	store, err := memory.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		fatal(err)
	}
	table := loadRoundTable(cfg)
	engine := newEngine(cfg, client, store, nil, table)

	answers := &stdinAnswers{in: bufio.NewReader(os.Stdin), out: os.Stdout}

	outcome, err := engine.RunPractice(ctx, global.CandidateID, roleKey, answers.Provide, consoleCallbacks(global))
	if err != nil {
		fatal(err)
	}
	if global.JSON {
		printJSON(outcome)
		return
	}
	fmt.Printf("\nPractice round complete: %s scored %d/10\n", outcome.RoleName, outcome.FinalScore)
}

func practiceRoles() []string {
	table := interview.DefaultRoundTable()
	return table.Order
}

// stdinAnswers reads one answer per question from the terminal.
type stdinAnswers struct {
	in  *bufio.Reader
	out io.Writer
}

func (s *stdinAnswers) Provide(_ context.Context, _ string, _ string) (string, error) {
	fmt.Fprint(s.out, "\nYour answer: ")
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return "", fmt.Errorf("input closed before the interview finished")
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// consoleCallbacks prints interview progress as it happens. The hooks
// are display only; all control flow stays inside the engine.
func consoleCallbacks(global globalFlags) interview.Callbacks {
	return interview.Callbacks{
		OnRoundStart: func(_, roleName string) {
			fmt.Printf("\n=== %s round ===\n", roleName)
		},
		OnQuestion: func(question, roleName string) {
			fmt.Printf("\n[%s] %s\n", roleName, question)
		},
		OnEvaluation: func(eval interview.Evaluation) {
			if eval.Degraded() {
				fmt.Println("\n(evaluation degraded, using neutral score)")
			}
			fmt.Printf("\nScore: %d/10\n%s\n", eval.Score, eval.Feedback)
			if len(eval.WeaknessTags) > 0 {
				fmt.Printf("Weaknesses: %s\n", strings.Join(eval.WeaknessTags, ", "))
			}
			if len(eval.StrengthTags) > 0 {
				fmt.Printf("Strengths: %s\n", strings.Join(eval.StrengthTags, ", "))
			}
		},
		OnFollowUp: func(reason string) {
			fmt.Printf("\nFollow-up (%s)\n", reason)
		},
		OnFinalEvaluation: func(final *memory.FinalEvaluation) {
			fmt.Printf("\n=== Final evaluation ===\n")
			if global.JSON {
				printJSON(final)
				return
			}
			fmt.Printf("Score: %.2f/10\nDecision: %s\n", final.FinalScore, final.Decision)
			if final.OverallFeedback != "" {
				fmt.Printf("\n%s\n", final.OverallFeedback)
			}
			if final.ComparativeAnalysis != "" {
				fmt.Printf("\nCompared to previous interviews:\n%s\n", final.ComparativeAnalysis)
			}
		},
	}
}
