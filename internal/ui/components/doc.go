// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the PerfBurger TUI.
//
// # Key Types
//
//   - Header: brand, connection status and the signed-in profile
//   - MessageRenderer: transcript rendering, markdown for assistant replies
//   - TypingIndicator: spinner shown while the assistant composes a reply
//   - StatusBar: shortcuts and transient notices
//
// Components are plain structs owned by the root model; none of them hold
// chat state of their own.
package components
