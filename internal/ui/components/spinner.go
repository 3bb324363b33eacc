// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/perfburger-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator shows that the assistant is composing a reply.
type TypingIndicator struct {
	spinner  spinner.Model
	message  string
	isActive bool
	theme    *styles.Theme
}

// NewTypingIndicator creates an inactive indicator.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = styles.DotsSpinner.Bubbles()
	s.Style = theme.Spinner
	return TypingIndicator{
		spinner: s,
		message: "PerfBurger está escribiendo",
		theme:   theme,
	}
}

// SetMessage changes the text shown beside the spinner.
func (t *TypingIndicator) SetMessage(msg string) {
	t.message = msg
}

// Start activates the indicator and returns the first tick.
func (t *TypingIndicator) Start() tea.Cmd {
	if t.isActive {
		return nil
	}
	t.isActive = true
	return t.spinner.Tick
}

// Stop hides the indicator. Ticks already scheduled are dropped by Update.
func (t *TypingIndicator) Stop() {
	t.isActive = false
}

// IsActive reports whether the indicator is shown.
func (t *TypingIndicator) IsActive() bool {
	return t.isActive
}

// Update advances the animation.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.isActive {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or "" when inactive.
func (t TypingIndicator) View() string {
	if !t.isActive {
		return ""
	}
	return t.theme.TypingText.Render(t.message) + t.spinner.View()
}
