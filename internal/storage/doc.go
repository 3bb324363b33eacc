// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides small persistent key/value stores.
//
// Three backends implement Store:
//
//   - FileStore: one JSON document on disk, rewritten atomically
//   - SQLiteStore: a single kv table in a pure-Go SQLite database
//   - MemoryStore: process-local, nothing survives exit
//
// Values are opaque strings. Callers serialize structured data themselves.
package storage
