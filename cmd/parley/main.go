// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Command parley runs multi-persona mock interviews from the terminal:
// full interview loops, single-round practice, history inspection and
// practice recommendations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/parley-sim/parley/pkg/config"
	"github.com/parley-sim/parley/pkg/telemetry"
)

const version = "0.3.0"

type globalFlags struct {
	ConfigPath  string
	CandidateID string
	JSON        bool
	Help        bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		fatal(err)
	}
	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitWithConfig("parley", version, telemetry.Config{
			Exporter:     cfg.Telemetry.Exporter,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: cfg.Telemetry.OTLPInsecure,
		})
		if err != nil {
			fatal(err)
		}
		defer shutdown(context.Background())
	}

	switch cmd := args[0]; cmd {
	case "run":
		runInterview(ctx, global, cfg)
	case "practice":
		runPractice(ctx, global, cfg, args[1:])
	case "history":
		runHistory(ctx, global, cfg)
	case "recommend":
		runRecommend(ctx, global, cfg)
	case "version":
		fmt.Printf("parley %s\n", version)
	case "help":
		printUsage()
	default:
		fatal(fmt.Errorf("unknown command %q", cmd))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	flags := globalFlags{CandidateID: "default"}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--json":
			flags.JSON = true
		case arg == "--config":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --config")
			}
			flags.ConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--candidate":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --candidate")
			}
			flags.CandidateID = args[i+1]
			i++
		case strings.HasPrefix(arg, "--candidate="):
			flags.CandidateID = strings.TrimPrefix(arg, "--candidate=")
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

func printUsage() {
	fmt.Print(`parley - AI mock interview simulator

Usage:
  parley [flags] <command>

Commands:
  run                Run a full multi-round interview
  practice <role>    Practice one round (hr, hiring_manager, technical, culture_fit)
  history            List your past interview sessions
  recommend          Show practice recommendations from your history
  version            Print the version
  help               Print this help

Flags:
  --config <path>      Configuration file (YAML)
  --candidate <id>     Candidate id (default "default")
  --json               Machine-readable output where supported
`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "parley: %v\n", err)
	os.Exit(1)
}
