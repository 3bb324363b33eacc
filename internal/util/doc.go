// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the chat client.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width truncation for terminal columns
//   - NormalizeText: NFC normalization and whitespace trimming of user input
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate a profile name for the header
//	name := util.TruncateWidth(user.FullName(), 24)
//
//	// Persist local state without risking a half-written file
//	err := util.AtomicWriteFile(path, data, 0600)
package util
