// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands for
// perfburger.
//
// Running perfburger with no command starts the full-screen interface. Every
// other command runs once and exits, sharing the configuration, credential
// store, and backend client with the TUI.
//
// # Key Types
//
//   - Command: Enumeration of the available CLI commands
//   - Args: Parsed global flags plus the command's own arguments
//   - Runner: Executes a command against a Backend and Session
//   - JSONResponse: Envelope for --json output
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	if cmd == cli.CmdTUI {
//	    // start the Bubble Tea program
//	}
//	err := runner.Run(cmd, args)
//	os.Exit(cli.ExitCode(err))
//
// # Commands Overview
//
//   - login, register, logout, whoami: Account session
//   - chat: Line-based chat with the same slash commands as the TUI
//   - order lookup <id>, orders: Order queries
//   - health: Backend reachability
//   - config show|path|init|get|set: Configuration file
//   - version, help
//
// # Exit Codes
//
// 0 success, 1 general failure, 2 usage, 3 configuration, 4 authentication,
// 5 network, 7 not found.
package cli
