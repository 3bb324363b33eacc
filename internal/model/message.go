// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "Tú"
	case RoleAssistant:
		return "PerfBurger"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE ID PREFIXES
// =============================================================================

// Prefixes for locally generated message ids. The prefix tells what produced
// the message; the suffix is a time-ordered UUID.
const (
	PrefixUser    = "user"
	PrefixBot     = "bot"
	PrefixError   = "error"
	PrefixWelcome = "welcome"
	PrefixOrder   = "order"
)

// NewMessageID returns "<prefix>-<uuidv7>". UUIDv7 sorts by creation time so
// ids stay time-based while remaining unique within the same millisecond.
func NewMessageID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage is a single entry in the chat transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// SessionID is the backend chat session the message belongs to, if any.
	SessionID string `json:"session_id,omitempty"`
}

// NewUserMessage creates a plain-text message authored by the customer.
func NewUserMessage(content, sessionID string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        NewMessageID(PrefixUser),
		Role:      RoleUser,
		Content:   content,
		Timestamp: now,
		SessionID: sessionID,
	}
}

// NewAssistantMessage creates a markdown message authored by the assistant.
// prefix distinguishes replies, errors, order summaries and the welcome text.
func NewAssistantMessage(prefix, content, sessionID string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        NewMessageID(prefix),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: now,
		SessionID: sessionID,
	}
}

// IsUser reports whether the customer wrote the message.
func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}

// IsMarkdown reports whether the content should be rendered as rich markup.
// Customer text is always shown verbatim.
func (m ChatMessage) IsMarkdown() bool {
	return m.Role == RoleAssistant
}

// Preview returns a truncated single-line preview of the content.
func (m ChatMessage) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
