// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/auth"
	"github.com/jeranaias/perfburger-tui/internal/chat"
	"github.com/jeranaias/perfburger-tui/internal/commands"
	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/ui/components"
	"github.com/jeranaias/perfburger-tui/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is everything the TUI asks of the backend client.
// *api.Client satisfies it.
type Backend interface {
	auth.Authenticator
	chat.Backend
	CheckHealth(ctx context.Context) (*api.Health, error)
	Logout() error
}

// Session reports the restored login, if any. *credentials.Store satisfies it.
type Session interface {
	IsAuthenticated() bool
	User() (model.User, bool)
}

// Options configures the root model.
type Options struct {
	Backend      Backend
	Session      Session
	AllowGuest   bool
	WelcomeDelay time.Duration
	Theme        string
	WordWrap     int
	ExportDir    string
	Logger       zerolog.Logger
	Context      context.Context
}

// =============================================================================
// MODEL
// =============================================================================

type screen int

const (
	screenAuth screen = iota
	screenChat
)

// Model is the root Bubble Tea model.
type Model struct {
	opts   Options
	ctx    context.Context
	log    zerolog.Logger
	theme  *styles.Theme
	keys   KeyMap
	screen screen

	// Auth screen
	form       *auth.Form
	inputs     formInputs
	authNotice string

	// Chat screen
	engine     *chat.Engine
	cmdCtx     *commands.Context
	parser     *commands.Parser
	completer  *commands.Completer
	completion commands.CompletionState
	header     *components.Header
	renderer   *components.MessageRenderer
	typing     components.TypingIndicator
	status     *components.StatusBar
	viewport   viewport.Model
	input      textinput.Model
	helpText   string
	sessionIDs []string
	orderIDs   []string

	width  int
	height int
	ready  bool
}

// New creates the root model. A restored session opens straight into chat.
func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}

	theme := styles.NewTheme(opts.Theme)
	registry := commands.NewRegistry()

	engine := chat.New(opts.Backend,
		chat.WithWelcomeDelay(opts.WelcomeDelay),
		chat.WithLogger(opts.Logger),
		chat.WithContext(opts.Context),
	)

	input := textinput.New()
	input.Placeholder = "Escribe tu mensaje... (/help para ver comandos)"
	input.Prompt = "› "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 2000

	m := &Model{
		opts:     opts,
		ctx:      opts.Context,
		log:      opts.Logger,
		theme:    theme,
		keys:     DefaultKeyMap(),
		form:     auth.NewForm(opts.Backend),
		inputs:   newFormInputs(),
		engine:   engine,
		parser:   commands.NewParser(registry),
		header:   components.NewHeader(theme),
		renderer: components.NewMessageRenderer(theme, opts.WordWrap),
		typing:   components.NewTypingIndicator(theme),
		status:   components.NewStatusBar(theme),
		viewport: viewport.New(opts.WordWrap, 10),
		input:    input,
		width:    opts.WordWrap,
		height:   24,
	}
	m.cmdCtx = &commands.Context{
		Engine:    engine,
		Registry:  registry,
		ExportDir: opts.ExportDir,
	}
	m.completer = commands.NewCompleter(registry)
	m.completer.SessionsFn = func() []string { return m.sessionIDs }
	m.completer.OrdersFn = func() []string { return m.orderIDs }

	if opts.Session != nil && opts.Session.IsAuthenticated() {
		if user, ok := opts.Session.User(); ok {
			m.enterChat(user)
		}
	}
	if m.screen == screenAuth {
		m.inputs.reset(m.form.Mode())
	}
	return m
}

// Engine exposes the chat engine, mainly for tests and the plain REPL.
func (m *Model) Engine() *chat.Engine {
	return m.engine
}

// =============================================================================
// SCREEN TRANSITIONS
// =============================================================================

// enterChat switches to the chat screen for user.
func (m *Model) enterChat(user model.User) tea.Cmd {
	m.screen = screenChat
	m.authNotice = ""
	m.engine.SetAuth(true, user)
	m.header.SetUser(user)
	m.status.ClearNotice()
	m.input.Reset()
	m.refreshTranscript()
	return m.input.Focus()
}

// enterAuth switches back to the sign-in form with an optional notice.
func (m *Model) enterAuth(notice string) tea.Cmd {
	m.engine.SetAuth(false, model.User{})
	m.typing.Stop()
	m.header.SetUser(model.User{})
	m.helpText = ""
	m.completion.Clear()
	m.input.Blur()
	m.form.Reopen()
	m.screen = screenAuth
	m.authNotice = notice
	return m.inputs.reset(m.form.Mode())
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes the viewport to the space left by header, input and status.
func (m *Model) layout() {
	contentWidth := m.width
	if contentWidth > m.opts.WordWrap+4 {
		contentWidth = m.opts.WordWrap + 4
	}

	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.renderer.SetWidth(contentWidth - 2)
	m.input.Width = m.width - 6

	fixed := lipgloss.Height(m.header.View()) + 3 + 1 + 1
	height := m.height - fixed
	if height < 3 {
		height = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.refreshTranscript()
}

// refreshTranscript re-renders messages into the viewport, keeping the view
// pinned to the bottom when it already was.
func (m *Model) refreshTranscript() {
	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	content := m.renderer.RenderAll(m.engine.Messages())
	if m.helpText != "" {
		content += "\n\n" + m.helpText
	}
	m.viewport.SetContent(content)
	if atBottom {
		m.viewport.GotoBottom()
	}
}
