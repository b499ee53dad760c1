// astral - voice-first AI desktop assistant for the command line.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/precie21/astral-assistant/internal/assistant"
	"github.com/precie21/astral-assistant/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Commands that never need the assistant wired up
	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion()
		return
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	}

	logger := newLogger(args.Verbose)
	defer logger.Sync()

	a, err := assistant.New(assistant.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	switch cmd {
	case cli.CmdAsk:
		err = cli.HandleAsk(a, args)
	case cli.CmdChat:
		err = cli.HandleChat(a, args)
	case cli.CmdRoutines:
		err = cli.HandleRoutines(a, args)
	case cli.CmdTranscribe:
		err = cli.HandleTranscribe(a, args)
	case cli.CmdStatus:
		err = cli.HandleStatus(a, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(a, args)
	case cli.CmdSetup:
		err = cli.HandleSetup(a, args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Verbose mode logs debug to stderr,
// otherwise only warnings and up surface.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
