// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the chat client.
//
// # Key Types
//
//   - User: customer profile returned by register/login
//   - ChatMessage: one entry in the chat transcript (user text or assistant markdown)
//   - Transcript: ordered, append-only message sequence for one chat session
//   - Order, OrderItem: read-only view of an order as the backend reports it
//   - SessionSummary, HistoryMessage: server-side chat history listings
//
// The backend emits integer user ids and zone-less ISO-8601 timestamps; ID and
// Time decode both shapes so callers never deal with raw JSON variance.
package model
