// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat input.
//
// Input starting with "/" is parsed into a command and its arguments; any
// other input is a message for the assistant.
//
// # Key Types
//
//   - Registry: every built-in command, looked up by name or alias
//   - Parser: splits input into command name and quoted arguments
//   - Context: what handlers act on (the chat engine and clipboard)
//   - Completer: tab completion for command names and arguments
//
// # Built-in Commands
//
//   - /order: create an order from the current conversation
//   - /lookup <id>: show an order
//   - /orders, /sessions, /resume <id>: browse history
//   - /clear, /export, /copy: manage the transcript
//   - /help, /logout, /quit
//
// # Usage
//
//	result := parser.Parse(input)
//	if !result.IsCommand {
//		return engine.SendMessage(input)
//	}
//	return commands.Execute(ctx, result)
package commands
