// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Brand bar with status and profile
// =============================================================================

// Header is the title bar shown above the chat.
type Header struct {
	Title   string
	Tagline string
	Online  bool
	User    model.User
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header with the PerfBurger brand.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:   "🍔 PerfBurger",
		Tagline: "Asistente virtual",
		Online:  true,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetUser sets the profile shown on the right.
func (h *Header) SetUser(user model.User) {
	h.User = user
}

// SetOnline updates the connection indicator.
func (h *Header) SetOnline(online bool) {
	h.Online = online
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme
	width := maxInt(h.Width, 40)
	inner := width - 2

	left := t.HeaderBrand.Render(h.Title)
	if h.Tagline != "" && inner >= 60 {
		left += " " + t.HeaderTagline.Render(h.Tagline)
	}
	left += "  " + h.statusView()

	budget := inner - lipgloss.Width(left) - 1
	if budget > inner/2 {
		budget = inner / 2
	}
	right := h.profileView(budget)
	return t.Header.Width(width).Render(spread(left, right, inner))
}

func (h *Header) statusView() string {
	if h.Online {
		return h.theme.StatusOnline.Render(styles.StatusIndicators.Online + " En línea")
	}
	return h.theme.StatusOffline.Render(styles.StatusIndicators.Offline + " Sin conexión")
}

// profileView renders "[AR] Ana Ruiz · ana@example.com" within maxWidth
// cells, dropping the email first when space is short.
func (h *Header) profileView(maxWidth int) string {
	if h.User.Email == "" && h.User.FirstName == "" {
		return ""
	}
	t := h.theme

	badge := ""
	if initials := h.User.Initials(); initials != "" {
		badge = t.ProfileBadge.Render(initials) + " "
	}
	name := h.User.FullName()
	room := maxWidth - lipgloss.Width(badge)

	if h.User.Email != "" && name != h.User.Email {
		if runewidth.StringWidth(name+" · "+h.User.Email) <= room {
			return badge + t.ProfileName.Render(name) + t.ProfileEmail.Render(" · "+h.User.Email)
		}
	}
	return badge + t.ProfileName.Render(truncateWidth(name, room))
}
