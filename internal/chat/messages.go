// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/model"
)

// =============================================================================
// BACKEND RESULT MESSAGES
// =============================================================================

// ReplyMsg carries the assistant's answer to a sent message.
type ReplyMsg struct {
	epoch int
	Reply *api.ChatReply
	Err   error
}

// OrderCreatedMsg carries the outcome of CreateOrder.
type OrderCreatedMsg struct {
	epoch  int
	Result *model.CreatedOrder
	Err    error
}

// OrderFoundMsg carries the outcome of LookupOrder.
type OrderFoundMsg struct {
	epoch   int
	OrderID string
	Order   *model.Order
	Err     error
}

// OrdersListedMsg carries the outcome of ListOrders.
type OrdersListedMsg struct {
	epoch  int
	Orders []model.Order
	Err    error
}

// SessionsListedMsg carries the outcome of ListSessions.
type SessionsListedMsg struct {
	epoch    int
	Sessions []model.SessionSummary
	Err      error
}

// HistoryLoadedMsg carries the stored messages of a resumed session.
type HistoryLoadedMsg struct {
	epoch     int
	SessionID string
	History   []model.HistoryMessage
	Err       error
}

// =============================================================================
// ENGINE EVENTS
// =============================================================================

// WelcomeTickMsg fires when a scheduled welcome message is due.
type WelcomeTickMsg struct {
	gen int
}

// SessionExpiredMsg is emitted when the backend rejected the credentials.
// The credential store has already been cleared.
type SessionExpiredMsg struct{}
