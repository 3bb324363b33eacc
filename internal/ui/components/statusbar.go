// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/perfburger-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar shows key hints, replaced by a notice when one is set.
type StatusBar struct {
	Width     int
	Shortcuts []Shortcut
	notice    string
	isError   bool
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the chat shortcuts.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		Shortcuts: []Shortcut{
			{"enter", "enviar"},
			{"/help", "comandos"},
			{"ctrl+o", "pedir"},
			{"ctrl+l", "limpiar"},
			{"ctrl+c", "salir"},
		},
		theme: theme,
	}
}

// SetWidth updates the width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetNotice shows text in place of the shortcuts until cleared.
func (s *StatusBar) SetNotice(text string, isError bool) {
	s.notice = text
	s.isError = isError
}

// ClearNotice restores the shortcuts.
func (s *StatusBar) ClearNotice() {
	s.notice = ""
	s.isError = false
}

// Notice returns the current notice text.
func (s *StatusBar) Notice() string {
	return s.notice
}

// View renders the bar.
func (s *StatusBar) View() string {
	t := s.theme
	width := maxInt(s.Width-2, 10)

	if s.notice != "" {
		style := t.Notice
		if s.isError {
			style = t.NoticeError
		}
		return t.StatusBar.Render(style.Render(truncateWidth(s.notice, width)))
	}

	parts := make([]string, 0, len(s.Shortcuts))
	used := 0
	for _, sc := range s.Shortcuts {
		plain := sc.Key + " " + sc.Desc
		if used+len(plain)+3 > width {
			break
		}
		used += len(plain) + 3
		parts = append(parts, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}
	return t.StatusBar.Render(strings.Join(parts, "   "))
}
