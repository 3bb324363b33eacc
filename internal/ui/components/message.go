// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer draws transcript messages. Customer text is wrapped
// verbatim; assistant text is rendered as markdown.
//
// Rendered messages are cached by id and width. Messages are immutable once
// appended, so a cached entry never goes stale.
type MessageRenderer struct {
	theme    *styles.Theme
	width    int
	markdown *glamour.TermRenderer
	cache    map[string]string
}

// NewMessageRenderer creates a renderer for the given content width.
func NewMessageRenderer(theme *styles.Theme, width int) *MessageRenderer {
	r := &MessageRenderer{theme: theme}
	r.SetWidth(width)
	return r
}

// SetWidth changes the wrap width and drops the cache.
func (r *MessageRenderer) SetWidth(width int) {
	width = maxInt(width, 20)
	if width == r.width && r.cache != nil {
		return
	}
	r.width = width
	r.cache = make(map[string]string)

	// glamour adds its own two-cell margin; the bubble border takes two more.
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.theme.GlamourStyle()),
		glamour.WithWordWrap(maxInt(width-6, 10)),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		md = nil
	}
	r.markdown = md
}

// Width returns the current wrap width.
func (r *MessageRenderer) Width() int {
	return r.width
}

// Render draws one message with its label and time.
func (r *MessageRenderer) Render(msg model.ChatMessage) string {
	key := msg.ID + "@" + strconv.Itoa(r.width)
	if out, ok := r.cache[key]; ok {
		return out
	}

	var out string
	if msg.IsUser() {
		out = r.renderUser(msg)
	} else {
		out = r.renderAssistant(msg)
	}
	if msg.ID != "" {
		r.cache[key] = out
	}
	return out
}

// RenderAll draws the transcript, one blank line between messages.
func (r *MessageRenderer) RenderAll(msgs []model.ChatMessage) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, r.Render(msg))
	}
	return strings.Join(parts, "\n\n")
}

func (r *MessageRenderer) label(msg model.ChatMessage, style lipgloss.Style) string {
	label := style.Render(msg.Role.DisplayName())
	if !msg.Timestamp.IsZero() {
		label += " " + r.theme.Timestamp.Render(msg.Timestamp.Local().Format("15:04"))
	}
	return label
}

func (r *MessageRenderer) renderUser(msg model.ChatMessage) string {
	bubble := r.theme.UserBubble.Width(r.width - 2).Render(msg.Content)
	label := r.label(msg, r.theme.UserLabel)
	return lipgloss.JoinVertical(lipgloss.Right, label, bubble)
}

func (r *MessageRenderer) renderAssistant(msg model.ChatMessage) string {
	body := r.RenderMarkdown(msg.Content)

	style := r.theme.AssistantBubble
	if strings.HasPrefix(msg.ID, model.PrefixError+"-") {
		style = r.theme.ErrorBubble
	}
	bubble := style.Width(r.width - 2).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, r.label(msg, r.theme.AssistantLabel), bubble)
}

// RenderMarkdown renders markdown, falling back to the raw text when the
// renderer is unavailable or fails.
func (r *MessageRenderer) RenderMarkdown(content string) string {
	if r.markdown == nil {
		return content
	}
	out, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
