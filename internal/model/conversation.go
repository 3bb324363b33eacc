// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered message sequence shown in the chat panel.
// Insertion order is display order. Messages are only ever appended; the
// whole sequence is dropped at once by Clear.
type Transcript struct {
	messages []ChatMessage
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg ChatMessage) {
	t.messages = append(t.messages, msg)
}

// Clear drops every message.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// IsEmpty returns true when no messages are present.
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}

// Messages returns a copy of the messages so callers cannot reorder or
// mutate the transcript behind the owner's back.
func (t *Transcript) Messages() []ChatMessage {
	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message.
func (t *Transcript) Last() (ChatMessage, bool) {
	if len(t.messages) == 0 {
		return ChatMessage{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// LastAssistant returns the most recent assistant message.
func (t *Transcript) LastAssistant() (ChatMessage, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == RoleAssistant {
			return t.messages[i], true
		}
	}
	return ChatMessage{}, false
}
