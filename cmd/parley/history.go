// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parley-sim/parley/pkg/config"
	"github.com/parley-sim/parley/pkg/memory"
)

// runHistory lists past sessions for the candidate. The SQLite archive
// is the fast path; when it is disabled or unreadable the session files
// themselves are scanned instead.
func runHistory(ctx context.Context, global globalFlags, cfg *config.Config) {
	store, archive := openStorage(cfg)

	var refs []memory.SessionRef
	var err error
	if archive != nil {
		defer archive.Close()
		refs, err = archive.List(ctx, global.CandidateID, 0)
		if err != nil {
			slog.Warn("archive query failed, scanning session files", "error", err)
			refs, err = store.ListSessions(ctx, global.CandidateID)
		}
	} else {
		refs, err = store.ListSessions(ctx, global.CandidateID)
	}
	if err != nil {
		fatal(err)
	}

	if global.JSON {
		printJSON(refs)
		return
	}
	if len(refs) == 0 {
		fmt.Printf("No sessions recorded for candidate %s\n", global.CandidateID)
		return
	}
	fmt.Printf("Sessions for candidate %s:\n", global.CandidateID)
	for _, ref := range refs {
		outcome := "unfinished"
		if ref.Decision != "" {
			outcome = fmt.Sprintf("%.2f/10, %s", ref.FinalScore, ref.Decision)
		}
		fmt.Printf("  %s  %-28s %s\n", ref.StartedAt.Format("2006-01-02 15:04"), outcome, ref.Path)
	}
}
