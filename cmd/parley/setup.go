// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/parley-sim/parley/pkg/config"
	"github.com/parley-sim/parley/pkg/interview"
	"github.com/parley-sim/parley/pkg/llm"
	"github.com/parley-sim/parley/pkg/memory"
	"github.com/parley-sim/parley/pkg/telemetry"
)

// buildClient selects the chat provider from configuration. A missing
// API key drops the client into offline mode instead of failing, so the
// simulator stays usable without credentials.
func buildClient(cfg *config.Config) *llm.Client {
	var provider llm.Provider
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			slog.Warn("no API key configured, running in offline mode")
		} else {
			provider = llm.NewOpenAI(cfg.LLM.BaseURL, cfg.LLM.APIKey)
		}
	case "ollama":
		provider = llm.NewOllama(cfg.LLM.BaseURL)
	case "mock", "":
		// nil provider, offline mode
	default:
		fatal(fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider))
	}
	return llm.NewClient(provider, cfg.LLM.Model)
}

// openStorage opens the file store and, when configured, the SQLite
// session archive. The archive is an index only; failure to open it is
// a warning, not a fatal error.
func openStorage(cfg *config.Config) (*memory.FileStore, *memory.SessionArchive) {
	store, err := memory.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		fatal(err)
	}
	if cfg.Storage.ArchiveDB == "" {
		return store, nil
	}
	archive, err := memory.OpenSessionArchive(cfg.Storage.ArchiveDB)
	if err != nil {
		slog.Warn("session archive unavailable", "path", cfg.Storage.ArchiveDB, "error", err)
		return store, nil
	}
	return store, archive
}

// loadRoundTable resolves the round table, applying the YAML override
// when one is configured.
func loadRoundTable(cfg *config.Config) interview.RoundTable {
	if cfg.Interview.RoundsFile == "" {
		return interview.DefaultRoundTable()
	}
	table, err := interview.LoadRoundTable(cfg.Interview.RoundsFile)
	if err != nil {
		fatal(err)
	}
	return table
}

func newEngine(cfg *config.Config, client *llm.Client, store *memory.FileStore, archive *memory.SessionArchive, table interview.RoundTable) *interview.Engine {
	opts := []interview.EngineOption{
		interview.WithRoundTable(table),
		interview.WithFollowUpPolicy(interview.PolicyFromConfig(cfg.FollowUp)),
		interview.WithPosition(cfg.Interview.Position),
		interview.WithLogger(slog.Default()),
	}
	if archive != nil {
		opts = append(opts, interview.WithArchive(archive))
	}
	if cfg.Telemetry.Enabled {
		metrics, err := telemetry.NewInterviewMetrics()
		if err != nil {
			slog.Warn("interview metrics unavailable", "error", err)
		} else {
			opts = append(opts, interview.WithRoundRecorder(metrics))
		}
	}
	return interview.NewEngine(client, store, opts...)
}

// loadSession reads a persisted session record back from disk. The
// record is a superset of SessionMemory, so decoding the struct fields
// straight out of it is fine.
func loadSession(path string) (*memory.SessionMemory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var session memory.SessionMemory
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session record %s: %w", path, err)
	}
	return &session, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(data))
}
