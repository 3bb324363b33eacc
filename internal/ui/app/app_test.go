// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/auth"
	"github.com/jeranaias/perfburger-tui/internal/chat"
	"github.com/jeranaias/perfburger-tui/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

var ana = model.User{ID: "7", Email: "ana@example.com", FirstName: "Ana", LastName: "Ruiz"}

type fakeBackend struct {
	logins  []string
	guests  int
	chats   []string
	logouts int
	orders  []model.Order
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (*model.AuthResult, error) {
	f.logins = append(f.logins, email)
	return &model.AuthResult{AccessToken: "tok", User: ana}, nil
}

func (f *fakeBackend) Register(_ context.Context, email, _, first, last string) (*model.AuthResult, error) {
	return &model.AuthResult{AccessToken: "tok", User: model.User{Email: email, FirstName: first, LastName: last}}, nil
}

func (f *fakeBackend) CreateAnonymousUser(context.Context) (*model.AuthResult, error) {
	f.guests++
	return &model.AuthResult{AccessToken: "tok", User: model.User{ID: "g", Email: "guest@perfburger.test", FirstName: "Invitado"}}, nil
}

func (f *fakeBackend) SendChatMessage(_ context.Context, text, _ string) (*api.ChatReply, error) {
	f.chats = append(f.chats, text)
	return &api.ChatReply{Message: "¡Claro! Una Classic en camino.", SessionID: "s-1"}, nil
}

func (f *fakeBackend) CreateOrder(context.Context, string) (*model.CreatedOrder, error) {
	return nil, &api.Error{Kind: api.KindValidation, Message: "sin productos"}
}

func (f *fakeBackend) LookupOrder(_ context.Context, id string) (*model.Order, error) {
	return &model.Order{ID: id}, nil
}

func (f *fakeBackend) ListOrders(context.Context) ([]model.Order, error) {
	return f.orders, nil
}

func (f *fakeBackend) ListSessions(context.Context) ([]model.SessionSummary, error) {
	return []model.SessionSummary{{SessionID: "s-1", MessageCount: 2}}, nil
}

func (f *fakeBackend) SessionMessages(context.Context, string) ([]model.HistoryMessage, error) {
	return nil, nil
}

func (f *fakeBackend) CheckHealth(context.Context) (*api.Health, error) {
	return &api.Health{Status: "healthy"}, nil
}

func (f *fakeBackend) Logout() error {
	f.logouts++
	return nil
}

type fakeSession struct {
	user *model.User
}

func (s fakeSession) IsAuthenticated() bool { return s.user != nil }

func (s fakeSession) User() (model.User, bool) {
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T, session Session, allowGuest bool) (*Model, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	m := New(Options{
		Backend:    backend,
		Session:    session,
		AllowGuest: allowGuest,
		Theme:      "dark",
		WordWrap:   80,
		ExportDir:  t.TempDir(),
		Logger:     zerolog.Nop(),
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, backend
}

// drain runs cmd and feeds its messages back into the model. Commands that
// wait on a timer (cursor blink, ticks) are dropped.
func drain(m *Model, cmd tea.Cmd) {
	drainDepth(m, cmd, 0)
}

func drainDepth(m *Model, cmd tea.Cmd, depth int) {
	if cmd == nil || depth > 8 {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return
	}

	switch msg := msg.(type) {
	case nil, spinner.TickMsg:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			drainDepth(m, c, depth+1)
		}
		return
	}
	_, next := m.Update(msg)
	drainDepth(m, next, depth+1)
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func typeAndSend(m *Model, text string) {
	m.input.SetValue(text)
	drain(m, press(m, tea.KeyEnter))
}

func lastContent(m *Model) string {
	msgs := m.engine.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}

// =============================================================================
// AUTH SCREEN
// =============================================================================

func TestNew_RestoredSessionOpensChat(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{user: &ana}, false)

	assert.Equal(t, screenChat, m.screen)
	assert.True(t, m.engine.Authenticated())
	require.Equal(t, 1, m.engine.Len())
	assert.Contains(t, lastContent(m), "¡Hola, Ana!")
	assert.Contains(t, m.View(), "PerfBurger")
}

func TestNew_NoSessionShowsLogin(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{}, false)

	assert.Equal(t, screenAuth, m.screen)
	view := m.View()
	assert.Contains(t, view, "Inicia sesión")
	assert.Contains(t, view, "Email")
	assert.NotContains(t, view, "ctrl+g invitado")
}

func TestLogin_SubmitsAndEntersChat(t *testing.T) {
	m, backend := newTestModel(t, nil, false)

	m.inputs.inputs[fieldEmail].SetValue("ana@example.com")
	m.inputs.inputs[fieldPassword].SetValue("secreto123")

	// Enter on the first field only advances focus.
	press(m, tea.KeyEnter)
	assert.Equal(t, fieldPassword, m.inputs.focused(m.form.Mode()))
	assert.Empty(t, backend.logins)

	drain(m, press(m, tea.KeyEnter))

	assert.Equal(t, []string{"ana@example.com"}, backend.logins)
	assert.Equal(t, screenChat, m.screen)
	assert.Equal(t, ana, m.engine.User())
	assert.Contains(t, lastContent(m), "¡Hola, Ana!")
}

func TestLogin_ValidationFailureStaysOnForm(t *testing.T) {
	m, backend := newTestModel(t, nil, false)

	press(m, tea.KeyTab)
	cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Empty(t, backend.logins)
	assert.Equal(t, auth.MsgRequired, m.form.Error())
	assert.Contains(t, m.View(), auth.MsgRequired)
}

func TestToggleMode_ShowsRegisterFields(t *testing.T) {
	m, _ := newTestModel(t, nil, false)

	press(m, tea.KeyCtrlR)

	assert.Equal(t, auth.ModeRegister, m.form.Mode())
	view := m.View()
	assert.Contains(t, view, "Confirmar contraseña")
	assert.Contains(t, view, "Crea tu cuenta")
}

func TestGuest_RequiresOptIn(t *testing.T) {
	m, backend := newTestModel(t, nil, false)
	assert.Nil(t, press(m, tea.KeyCtrlG))
	assert.Zero(t, backend.guests)

	m, backend = newTestModel(t, nil, true)
	assert.Contains(t, m.View(), "ctrl+g invitado")
	drain(m, press(m, tea.KeyCtrlG))

	assert.Equal(t, 1, backend.guests)
	assert.Equal(t, screenChat, m.screen)
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func TestChat_SendMessage(t *testing.T) {
	m, backend := newTestModel(t, fakeSession{user: &ana}, false)

	typeAndSend(m, "Quiero una Classic")

	assert.Equal(t, []string{"Quiero una Classic"}, backend.chats)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, "s-1", m.engine.SessionID())
	assert.Equal(t, "¡Claro! Una Classic en camino.", lastContent(m))
	assert.False(t, m.typing.IsActive())
}

func TestChat_DraftKeptWhileLoading(t *testing.T) {
	m, backend := newTestModel(t, fakeSession{user: &ana}, false)

	m.input.SetValue("primero")
	press(m, tea.KeyEnter) // result never delivered
	require.True(t, m.engine.Loading())
	assert.True(t, m.typing.IsActive())

	m.input.SetValue("segundo")
	assert.Nil(t, press(m, tea.KeyEnter))
	assert.Equal(t, "segundo", m.input.Value())
	assert.NotEmpty(t, m.status.Notice())
	assert.Empty(t, backend.chats)
}

func TestChat_SlashCommands(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{user: &ana}, false)

	typeAndSend(m, "/nope")
	assert.Contains(t, m.status.Notice(), "Comando desconocido")

	typeAndSend(m, "/help")
	assert.NotEmpty(t, m.helpText)

	press(m, tea.KeyEsc)
	assert.Empty(t, m.helpText)

	typeAndSend(m, "/order")
	assert.Contains(t, lastContent(m), "conversación")
}

func TestChat_OrderFailureIsShown(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{user: &ana}, false)

	typeAndSend(m, "Quiero una Classic")
	drain(m, press(m, tea.KeyCtrlO))

	assert.Contains(t, lastContent(m), "sin productos")
}

func TestChat_ClearShowsWelcomeAgain(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{user: &ana}, false)
	typeAndSend(m, "hola")
	require.Equal(t, 3, m.engine.Len())

	drain(m, press(m, tea.KeyCtrlL))

	assert.Equal(t, 1, m.engine.Len())
	assert.Contains(t, lastContent(m), "¡Hola, Ana!")
	assert.Empty(t, m.engine.SessionID())
}

func TestChat_CompletionUsesSeenOrders(t *testing.T) {
	m, backend := newTestModel(t, fakeSession{user: &ana}, false)
	backend.orders = []model.Order{{ID: "PB123456"}, {ID: "PB654321"}}

	typeAndSend(m, "/orders")
	assert.Equal(t, []string{"PB123456", "PB654321"}, m.orderIDs)

	m.input.SetValue("/loo")
	press(m, tea.KeyTab)
	assert.True(t, strings.HasPrefix(m.input.Value(), "/lookup"))

	m.completion.Clear()
	m.input.SetValue("/lookup PB65")
	press(m, tea.KeyTab)
	assert.Equal(t, "/lookup PB654321", m.input.Value())
}

func TestReplaceLastToken(t *testing.T) {
	tests := []struct {
		input, value, want string
	}{
		{"/lo", "/lookup", "/lookup"},
		{"/lookup ", "PB123456", "/lookup PB123456"},
		{"/lookup PB1", "PB123456", "/lookup PB123456"},
		{"/export out.md m", "md", "/export out.md md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, replaceLastToken(tt.input, tt.value), tt.input)
	}
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

func TestSessionExpired_ReturnsToLogin(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{user: &ana}, false)

	drain(m, func() tea.Msg { return chat.SessionExpiredMsg{} })

	assert.Equal(t, screenAuth, m.screen)
	assert.False(t, m.engine.Authenticated())
	assert.Zero(t, m.engine.Len())
	assert.Contains(t, m.View(), noticeExpired)
}

func TestCredentialsCleared_OnlyAffectsChat(t *testing.T) {
	m, _ := newTestModel(t, nil, false)
	m.Update(CredentialsClearedMsg{})
	assert.Empty(t, m.authNotice)

	m, _ = newTestModel(t, fakeSession{user: &ana}, false)
	m.Update(CredentialsClearedMsg{})
	assert.Equal(t, screenAuth, m.screen)
	assert.Equal(t, noticeExpired, m.authNotice)
}

func TestLogout(t *testing.T) {
	m, backend := newTestModel(t, fakeSession{user: &ana}, false)

	typeAndSend(m, "/logout")

	assert.Equal(t, 1, backend.logouts)
	assert.Equal(t, screenAuth, m.screen)
	assert.Equal(t, auth.ModeLogin, m.form.Mode())
	assert.Equal(t, noticeLoggedOut, m.authNotice)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{user: &ana}, false)

	cmd := press(m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHealth_UpdatesHeader(t *testing.T) {
	m, _ := newTestModel(t, fakeSession{user: &ana}, false)

	m.Update(HealthMsg{Online: false})
	assert.False(t, m.header.Online)

	msg := checkHealthCmd(context.Background(), m.opts.Backend)()
	assert.Equal(t, HealthMsg{Online: true}, msg)
}
