// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/perfburger-tui/internal/auth"
	"github.com/jeranaias/perfburger-tui/internal/chat"
	"github.com/jeranaias/perfburger-tui/internal/commands"
)

// Notices shown when the customer is sent back to the sign-in form.
const (
	noticeExpired   = "Tu sesión expiró. Inicia sesión de nuevo."
	noticeLoggedOut = "Cerraste sesión. ¡Vuelve pronto! 🍔"
)

// loggedOutMsg reports that local credentials were discarded.
type loggedOutMsg struct {
	err error
}

// Init starts the health check and the cursor blink.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		checkHealthCmd(m.ctx, m.opts.Backend),
	)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.engine.Close()
			return m, tea.Quit
		}
		if m.screen == screenAuth {
			return m, m.handleAuthKey(msg)
		}
		return m, m.handleChatKey(msg)

	// Auth
	case auth.ResultMsg:
		return m, m.form.Update(msg)

	case auth.AuthenticatedMsg:
		m.log.Info().Str("user_id", msg.User.ID.String()).Msg("signed in")
		return m, m.enterChat(msg.User)

	// Session lifecycle
	case chat.SessionExpiredMsg:
		return m, m.enterAuth(noticeExpired)

	case CredentialsClearedMsg:
		if m.screen == screenChat {
			return m, m.enterAuth(noticeExpired)
		}
		return m, nil

	case commands.LogoutMsg:
		backend := m.opts.Backend
		return m, func() tea.Msg { return loggedOutMsg{err: backend.Logout()} }

	case loggedOutMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("logout failed")
		}
		return m, m.enterAuth(noticeLoggedOut)

	// Command results
	case commands.NoticeMsg:
		m.status.SetNotice(msg.Text, msg.IsError)
		return m, nil

	case commands.ShowHelpMsg:
		m.helpText = m.renderer.RenderMarkdown(msg.Text)
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case commands.ExportDoneMsg:
		if msg.Err != nil {
			m.status.SetNotice("No se pudo exportar: "+msg.Err.Error(), true)
		} else {
			m.status.SetNotice("Conversación exportada a "+msg.Path, false)
		}
		return m, nil

	case commands.CopyDoneMsg:
		if msg.Err != nil {
			m.status.SetNotice("No se pudo copiar: "+msg.Err.Error(), true)
		} else {
			m.status.SetNotice("Respuesta copiada al portapapeles.", false)
		}
		return m, nil

	// Health
	case HealthMsg:
		m.header.SetOnline(msg.Online)
		return m, scheduleHealthCmd()

	case healthTickMsg:
		return m, checkHealthCmd(m.ctx, m.opts.Backend)

	case spinner.TickMsg:
		if !m.typing.IsActive() {
			return m, nil
		}
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		return m, cmd

	// Chat engine results
	case chat.ReplyMsg, chat.OrderCreatedMsg, chat.OrderFoundMsg, chat.OrdersListedMsg,
		chat.SessionsListedMsg, chat.HistoryLoadedMsg, chat.WelcomeTickMsg:
		m.rememberIDs(msg)
		return m, m.afterEngine(m.engine.Update(msg))
	}

	if m.screen == screenAuth {
		return m, m.inputs.update(m.form.Mode(), msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// AUTH SCREEN
// =============================================================================

func (m *Model) handleAuthKey(msg tea.KeyMsg) tea.Cmd {
	if m.form.Submitting() {
		return nil
	}
	mode := m.form.Mode()

	switch {
	case key.Matches(msg, m.keys.ToggleMode):
		m.form.Toggle()
		m.authNotice = ""
		return m.inputs.reset(m.form.Mode())

	case key.Matches(msg, m.keys.Guest):
		if !m.opts.AllowGuest {
			return nil
		}
		m.authNotice = ""
		return m.form.SubmitGuest(m.ctx)

	case key.Matches(msg, m.keys.Submit):
		if !m.inputs.isLast(mode) {
			return m.inputs.move(mode, 1)
		}
		m.authNotice = ""
		m.form.SetFields(m.inputs.values())
		return m.form.Submit(m.ctx)

	case key.Matches(msg, m.keys.NextField):
		return m.inputs.move(mode, 1)

	case key.Matches(msg, m.keys.PrevField):
		return m.inputs.move(mode, -1)
	}

	cmd := m.inputs.update(mode, msg)
	m.form.SetFields(m.inputs.values())
	return cmd
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m *Model) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return nil

	case key.Matches(msg, m.keys.Send):
		m.completion.Clear()
		return m.submit()

	case key.Matches(msg, m.keys.Order):
		return m.afterEngine(m.engine.CreateOrder())

	case key.Matches(msg, m.keys.Clear):
		m.helpText = ""
		m.status.ClearNotice()
		return m.afterEngine(m.engine.ClearChat())

	case key.Matches(msg, m.keys.Dismiss):
		switch {
		case m.completion.Visible:
			m.completion.Clear()
		case m.helpText != "":
			m.helpText = ""
			m.refreshTranscript()
		default:
			m.status.ClearNotice()
		}
		return nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
		return nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.completion.Visible {
		m.completion.Update(m.completer.Complete(m.input.Value()))
	}
	return cmd
}

// submit routes the input line to a slash command or the chat engine.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	if commands.IsCommand(text) {
		m.input.Reset()
		m.status.ClearNotice()
		return m.afterEngine(commands.Execute(m.cmdCtx, m.parser.Parse(text)))
	}

	// Keep the draft while a reply is pending.
	if m.engine.Loading() {
		m.status.SetNotice("Espera la respuesta antes de enviar otro mensaje.", false)
		return nil
	}
	m.input.Reset()
	m.helpText = ""
	m.status.ClearNotice()
	return m.afterEngine(m.engine.SendMessage(text))
}

// complete cycles tab completion for slash commands.
func (m *Model) complete() {
	value := m.input.Value()
	if !commands.IsCommand(value) {
		return
	}
	if m.completion.Visible {
		m.completion.Next()
	} else {
		m.completion.Update(m.completer.Complete(value))
		if !m.completion.Visible {
			return
		}
	}

	selected := m.completion.Accept()
	if selected == "" {
		return
	}
	m.input.SetValue(replaceLastToken(value, selected))
	m.input.CursorEnd()
	if len(m.completion.Completions) == 1 {
		m.completion.Clear()
	}
}

// replaceLastToken swaps the word being typed for value. A trailing space
// means a new word is starting.
func replaceLastToken(input, value string) string {
	if strings.HasSuffix(input, " ") {
		return input + value
	}
	if i := strings.LastIndex(input, " "); i >= 0 {
		return input[:i+1] + value
	}
	return value
}

// afterEngine syncs the typing indicator and transcript with the engine
// after it ran an operation or applied a result.
func (m *Model) afterEngine(cmd tea.Cmd) tea.Cmd {
	var cmds []tea.Cmd
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.engine.Typing() {
		if start := m.typing.Start(); start != nil {
			cmds = append(cmds, start)
		}
	} else {
		m.typing.Stop()
	}
	m.refreshTranscript()
	return tea.Batch(cmds...)
}

// rememberIDs keeps ids seen in results for argument completion.
func (m *Model) rememberIDs(msg tea.Msg) {
	switch msg := msg.(type) {
	case chat.SessionsListedMsg:
		if msg.Err != nil {
			return
		}
		m.sessionIDs = m.sessionIDs[:0]
		for _, s := range msg.Sessions {
			m.sessionIDs = append(m.sessionIDs, s.SessionID)
		}
	case chat.OrdersListedMsg:
		if msg.Err != nil {
			return
		}
		m.orderIDs = m.orderIDs[:0]
		for _, o := range msg.Orders {
			m.orderIDs = appendUnique(m.orderIDs, o.ID)
		}
	case chat.OrderCreatedMsg:
		if msg.Err == nil && msg.Result != nil {
			m.orderIDs = appendUnique(m.orderIDs, msg.Result.Order.ID)
		}
	case chat.OrderFoundMsg:
		if msg.Err == nil && msg.Order != nil {
			m.orderIDs = appendUnique(m.orderIDs, msg.OrderID)
		}
	}
}

func appendUnique(list []string, id string) []string {
	if id == "" {
		return list
	}
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

// completionHint shows how many candidates tab cycles through.
func completionHint(n int) string {
	if n <= 1 {
		return ""
	}
	return fmt.Sprintf(" (%d)", n)
}
