// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// SessionSummary describes one server-side chat session.
type SessionSummary struct {
	SessionID    string `json:"session_id"`
	CreatedAt    Time   `json:"created_at"`
	UpdatedAt    Time   `json:"updated_at"`
	IsActive     bool   `json:"is_active"`
	LastMessage  string `json:"last_message"`
	MessageCount int    `json:"message_count"`
}

// HistoryMessage is a stored message as the backend returns it when a
// session's history is fetched.
type HistoryMessage struct {
	ID        ID     `json:"id"`
	Type      string `json:"type"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp Time   `json:"timestamp"`
}

// ToChatMessage converts a stored message into a transcript entry.
func (h HistoryMessage) ToChatMessage(sessionID string) ChatMessage {
	role := RoleAssistant
	prefix := PrefixBot
	if h.Type == string(RoleUser) {
		role = RoleUser
		prefix = PrefixUser
	}
	return ChatMessage{
		ID:        NewMessageID(prefix),
		Role:      role,
		Content:   h.Content,
		Timestamp: h.Timestamp.Time,
		SessionID: sessionID,
	}
}
