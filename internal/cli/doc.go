// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the command handlers for
// the composer binary.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global and command-specific flags
//   - ArgParser: Flag and positional parsing for subcommand arguments
//   - Runtime: Logger, mention provider, draft store, outbox and host built
//     from config.Config
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdTUI:
//	    err = cli.HandleTUI(ctx, args)
//	case cli.CmdLine:
//	    err = cli.HandleLine(ctx, args)
//	// ...
//	}
//	cli.HandleErrorAndExit(err, args.JSON)
//
// # Commands Overview
//
//   - tui: Full-screen playground (default on a terminal)
//   - line: Prompt-driven composer with history and @ completion
//   - entities: List mention candidates
//   - serve: Headless composer behind the websocket bridge
//   - config: Show, get or set configuration
//   - version, help
//
// # Output Formats
//
// entities, config and version accept --json. Errors in JSON mode are
// written to stdout as objects with an error_type field.
package cli
