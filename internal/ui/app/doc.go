// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the PerfBurger TUI.
//
// While the customer is signed out it shows the login/register form; once
// authenticated it shows the header, the transcript viewport and the input
// line. Chat input is either a slash command or a message for the chat
// engine.
//
// # Files
//
//   - keys.go: key bindings for both screens
//   - messages.go: messages the model sends itself
//   - model.go: Model, Options, construction and layout
//   - form.go: text inputs backing the auth form
//   - update.go: message handling
//   - view.go: rendering
package app
