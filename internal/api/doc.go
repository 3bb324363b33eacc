// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the PerfBurger backend.
//
// One method exists per backend capability (accounts, chat, orders, health).
// Every failure, whether local validation, transport or a non-2xx response,
// comes back as *Error with a Kind from a closed set and a user-facing
// Spanish message, so callers never need to inspect raw transport errors.
//
// A 401 from any endpoint clears the credential store before the error is
// returned; subsequent requests go out without an Authorization header.
//
// The client never retries. Each failure is terminal for that call.
package api
