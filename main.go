// composer - A message composer with @mentions, drafts and a websocket bridge.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/composer-tui/internal/cli"
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
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := cli.Parse()

	// Piped input without a command falls back to line mode.
	if cmd == cli.CmdTUI && !args.Explicit && !cli.IsTTY() {
		cmd = cli.CmdLine
	}

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = cli.HandleTUI(ctx, args)
	case cli.CmdLine:
		err = cli.HandleLine(ctx, args)
	case cli.CmdEntities:
		err = cli.HandleEntities(ctx, args)
	case cli.CmdServe:
		err = cli.HandleServe(ctx, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	default:
		err = cli.HandleHelp(args)
	}

	stop()
	cli.HandleErrorAndExit(err, args.JSON)
}
