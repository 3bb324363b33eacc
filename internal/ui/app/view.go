// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/perfburger-tui/internal/auth"
)

// maxCompletionsShown caps the completion strip above the input.
const maxCompletionsShown = 6

// View renders the current screen.
func (m *Model) View() string {
	if !m.ready {
		return "Cargando PerfBurger..."
	}
	if m.screen == screenAuth {
		return m.authView()
	}
	return m.chatView()
}

// =============================================================================
// AUTH VIEW
// =============================================================================

func (m *Model) authView() string {
	t := m.theme
	mode := m.form.Mode()

	var b strings.Builder
	b.WriteString(t.FormTitle.Render("🍔 PerfBurger"))
	b.WriteString("\n")
	if mode == auth.ModeRegister {
		b.WriteString(t.FormSubtitle.Render("Crea tu cuenta para empezar a ordenar"))
	} else {
		b.WriteString(t.FormSubtitle.Render("Inicia sesión para ordenar tu burger"))
	}
	b.WriteString("\n\n")

	if m.authNotice != "" {
		b.WriteString(t.FormHint.Render(m.authNotice))
		b.WriteString("\n\n")
	}

	active := m.inputs.focused(mode)
	for _, id := range visibleFields(mode) {
		label := t.FormLabel
		if id == active {
			label = t.FormLabelActive
		}
		b.WriteString(label.Render(fieldLabels[id]))
		b.WriteString("\n")
		b.WriteString(m.inputs.inputs[id].View())
		b.WriteString("\n\n")
	}

	if msg := m.form.Error(); msg != "" {
		b.WriteString(t.FormError.Render("⚠ " + msg))
		b.WriteString("\n\n")
	}

	b.WriteString(m.buttonView(mode))
	b.WriteString("\n\n")
	b.WriteString(t.FormHint.Render(m.authHints(mode)))

	box := t.FormBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) buttonView(mode auth.Mode) string {
	label := "Ingresar"
	if mode == auth.ModeRegister {
		label = "Crear cuenta"
	}
	if m.form.Submitting() {
		return m.theme.ButtonActive.Render("Enviando...")
	}
	if m.inputs.isLast(mode) {
		return m.theme.ButtonActive.Render(label)
	}
	return m.theme.Button.Render(label)
}

func (m *Model) authHints(mode auth.Mode) string {
	hints := []string{"tab siguiente"}
	if mode == auth.ModeRegister {
		hints = append(hints, "ctrl+r ya tengo cuenta")
	} else {
		hints = append(hints, "ctrl+r crear cuenta")
	}
	if m.opts.AllowGuest {
		hints = append(hints, "ctrl+g invitado")
	}
	hints = append(hints, "ctrl+c salir")
	return strings.Join(hints, " · ")
}

// =============================================================================
// CHAT VIEW
// =============================================================================

func (m *Model) chatView() string {
	t := m.theme

	input := t.InputContainer
	if m.engine.Loading() {
		input = t.InputDisabled
	}
	input = input.Width(maxInt(m.width-2, 10))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		m.activityLine(),
		input.Render(m.input.View()),
		m.status.View(),
	)
}

// activityLine is the single row between transcript and input. It shows the
// completion candidates, or the typing indicator.
func (m *Model) activityLine() string {
	if m.completion.Visible && len(m.completion.Completions) > 0 {
		var parts []string
		for i, c := range m.completion.Completions {
			if i >= maxCompletionsShown {
				break
			}
			style := m.theme.Completion
			if i == m.completion.Selected {
				style = m.theme.CompletionSel
			}
			parts = append(parts, style.Render(c.Display))
		}
		line := strings.Join(parts, "") + m.theme.Timestamp.Render(completionHint(len(m.completion.Completions)))
		return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	if m.typing.IsActive() {
		return m.typing.View()
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
