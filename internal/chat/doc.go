// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat session engine: it turns customer text
// into backend calls and backend replies into transcript messages.
//
// The engine follows Bubble Tea's command model. Each operation mutates the
// engine synchronously and returns a tea.Cmd that performs at most one
// backend call; the result comes back as a message that Engine.Update
// applies. The engine is owned by a single update loop and takes no locks.
//
// # Intents
//
// Two inputs bypass the assistant:
//   - A message containing an order reference (PB + six digits) triggers an
//     order lookup instead of a chat call.
//   - CreateOrder asks the backend to build an order from the current chat
//     session.
//
// # Staleness
//
// ClearChat starts a new epoch; results from calls dispatched in an earlier
// epoch are dropped. Welcome ticks carry a generation so a stale tick, or
// one arriving after Close, writes nothing.
package chat
