// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to files.
//
// # Supported Formats
//
//   - Markdown: human-readable, assistant replies kept as markup
//   - JSON: machine-readable, every message field included
//
// # Usage
//
//	exporter, err := export.ForFormat("md", nil)
//	path, err := export.ToFile(transcript, exporter, "")
package export
