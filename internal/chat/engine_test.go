// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/model"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeBackend struct {
	chats    []chatCall
	creates  []string
	lookups  []string
	listed   int
	sessions int
	history  []string

	reply    *api.ChatReply
	chatErr  error
	created  *model.CreatedOrder
	orderErr error
	order    *model.Order
	orders   []model.Order
	stored   []model.HistoryMessage
}

type chatCall struct {
	text      string
	sessionID string
}

func (f *fakeBackend) SendChatMessage(_ context.Context, text, sessionID string) (*api.ChatReply, error) {
	f.chats = append(f.chats, chatCall{text, sessionID})
	return f.reply, f.chatErr
}

func (f *fakeBackend) CreateOrder(_ context.Context, sessionID string) (*model.CreatedOrder, error) {
	f.creates = append(f.creates, sessionID)
	return f.created, f.orderErr
}

func (f *fakeBackend) LookupOrder(_ context.Context, orderID string) (*model.Order, error) {
	f.lookups = append(f.lookups, orderID)
	return f.order, f.orderErr
}

func (f *fakeBackend) ListOrders(context.Context) ([]model.Order, error) {
	f.listed++
	return f.orders, f.orderErr
}

func (f *fakeBackend) ListSessions(context.Context) ([]model.SessionSummary, error) {
	f.sessions++
	return []model.SessionSummary{{SessionID: "s-1", MessageCount: 4, IsActive: true}}, nil
}

func (f *fakeBackend) SessionMessages(_ context.Context, sessionID string) ([]model.HistoryMessage, error) {
	f.history = append(f.history, sessionID)
	return f.stored, nil
}

var fixedNow = time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)

var ana = model.User{ID: "7", Email: "ana@example.com", FirstName: "Ana", LastName: "Ruiz"}

func newTestEngine(t *testing.T, backend *fakeBackend) *Engine {
	t.Helper()
	e := New(backend,
		WithWelcomeDelay(0),
		WithClock(func() time.Time { return fixedNow }),
	)
	e.SetAuth(true, ana)
	return e
}

// run executes cmd the way the Bubble Tea runtime would and feeds the result
// back into the engine.
func run(t *testing.T, e *Engine, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return e.Update(cmd())
}

func lastContent(t *testing.T, e *Engine) string {
	t.Helper()
	msgs := e.Messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1].Content
}

// =============================================================================
// INTENT
// =============================================================================

func TestFindOrderReference(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"PB123456", "PB123456", true},
		{"check order pb123456", "PB123456", true},
		{"¿dónde está mi pedido Pb654321?", "PB654321", true},
		{"pedidos PB111111 y PB222222", "PB111111", true},
		{"PB12345", "", false},
		{"PB1234567", "", false},
		{"XPB123456", "", false},
		{"quiero una hamburguesa", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := FindOrderReference(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

func TestSendMessage_BlankIsNoop(t *testing.T) {
	backend := &fakeBackend{}
	e := newTestEngine(t, backend)
	before := e.Len()

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.Nil(t, e.SendMessage(text))
	}
	assert.Equal(t, before, e.Len())
	assert.Empty(t, backend.chats)
	assert.False(t, e.Loading())
}

func TestSendMessage_OrderReferenceRoutesToLookup(t *testing.T) {
	backend := &fakeBackend{order: &model.Order{ID: "PB123456", Status: model.StatusCooking, TotalAmount: 12.5}}
	e := newTestEngine(t, backend)

	cmd := e.SendMessage("check order pb123456")
	msgs := e.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "check order pb123456", msgs[1].Content)
	assert.True(t, msgs[1].IsUser())
	assert.Contains(t, msgs[2].Content, "Buscando tu pedido **PB123456**")
	assert.True(t, e.Loading())

	run(t, e, cmd)
	assert.Equal(t, []string{"PB123456"}, backend.lookups)
	assert.Empty(t, backend.chats)
	assert.False(t, e.Loading())
	assert.Contains(t, lastContent(t, e), "Pedido PB123456")
}

func TestSendMessage_AdoptsSessionID(t *testing.T) {
	backend := &fakeBackend{reply: &api.ChatReply{Message: "¡Claro!", SessionID: "sess-1"}}
	e := newTestEngine(t, backend)

	cmd := e.SendMessage("  hola  ")
	assert.True(t, e.Loading())
	assert.True(t, e.Typing())
	run(t, e, cmd)

	assert.Equal(t, "sess-1", e.SessionID())
	assert.False(t, e.Loading())
	assert.False(t, e.Typing())
	assert.Equal(t, "¡Claro!", lastContent(t, e))

	run(t, e, e.SendMessage("otra cosa"))
	require.Len(t, backend.chats, 2)
	assert.Equal(t, chatCall{"hola", ""}, backend.chats[0])
	assert.Equal(t, chatCall{"otra cosa", "sess-1"}, backend.chats[1])
}

func TestSendMessage_FailureAppendsApology(t *testing.T) {
	backend := &fakeBackend{chatErr: &api.Error{Kind: api.KindServer, Status: 500}}
	e := newTestEngine(t, backend)

	assert.Nil(t, run(t, e, e.SendMessage("hola")))

	msgs := e.Messages()
	last := msgs[len(msgs)-1]
	assert.Equal(t, ApologyText, last.Content)
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.True(t, strings.HasPrefix(last.ID, model.PrefixError+"-"))
	assert.False(t, e.Loading())
	assert.False(t, e.Typing())
	assert.Empty(t, e.SessionID())
}

func TestSendMessage_RejectedWhileLoading(t *testing.T) {
	backend := &fakeBackend{reply: &api.ChatReply{Message: "ok", SessionID: "s"}}
	e := newTestEngine(t, backend)

	cmd := e.SendMessage("primero")
	require.NotNil(t, cmd)
	n := e.Len()

	assert.Nil(t, e.SendMessage("segundo"))
	assert.Nil(t, e.CreateOrder())
	assert.Nil(t, e.LookupOrder("PB000001"))
	assert.Equal(t, n, e.Len())

	run(t, e, cmd)
	assert.Len(t, backend.chats, 1)
}

// =============================================================================
// ORDERS
// =============================================================================

func TestCreateOrder_WithoutSession(t *testing.T) {
	backend := &fakeBackend{}
	e := newTestEngine(t, backend)
	before := e.Len()

	assert.Nil(t, e.CreateOrder())
	assert.Equal(t, before+1, e.Len())
	assert.Equal(t, NoSessionText, lastContent(t, e))
	assert.Empty(t, backend.creates)
	assert.False(t, e.Loading())
}

func TestCreateOrder_Success(t *testing.T) {
	backend := &fakeBackend{
		reply: &api.ChatReply{Message: "Anotado", SessionID: "sess-9"},
		created: &model.CreatedOrder{
			Order: model.Order{
				ID:                "PB000042",
				Status:            model.StatusReceived,
				TotalAmount:       23.5,
				EstimatedDelivery: model.Time{Time: fixedNow.Add(30 * time.Minute)},
				Items: []model.OrderItem{
					{Name: "Classic Burger", Price: 9.5, Quantity: 2, Customizations: []string{"sin cebolla"}},
					{Name: "Papas", Price: 4.5, Quantity: 1},
				},
			},
			UnavailableItems: []string{"Malteada de fresa"},
		},
	}
	e := newTestEngine(t, backend)
	run(t, e, e.SendMessage("dos classic y unas papas"))

	cmd := e.CreateOrder()
	assert.True(t, e.Loading())
	run(t, e, cmd)

	assert.Equal(t, []string{"sess-9"}, backend.creates)
	assert.False(t, e.Loading())
	out := lastContent(t, e)
	for _, want := range []string{"PB000042", "$23.50", "2x Classic Burger", "$19.00", "sin cebolla", "Malteada de fresa", "recibido"} {
		assert.Contains(t, out, want)
	}
}

func TestCreateOrder_Failure(t *testing.T) {
	backend := &fakeBackend{
		reply:    &api.ChatReply{Message: "ok", SessionID: "sess-1"},
		orderErr: &api.Error{Kind: api.KindBadRequest, Message: "La solicitud no es válida."},
	}
	e := newTestEngine(t, backend)
	run(t, e, e.SendMessage("hola"))
	run(t, e, e.CreateOrder())

	assert.Contains(t, lastContent(t, e), "No pudimos crear tu pedido: La solicitud no es válida.")
	assert.False(t, e.Loading())
}

func TestLookupOrder_NotFoundAndDriver(t *testing.T) {
	backend := &fakeBackend{orderErr: &api.Error{Kind: api.KindNotFound, Status: 404}}
	e := newTestEngine(t, backend)

	run(t, e, e.LookupOrder(" pb999999 "))
	assert.Equal(t, []string{"PB999999"}, backend.lookups)
	assert.Contains(t, lastContent(t, e), "No encontramos el pedido **PB999999**")
	assert.False(t, e.Loading())

	backend.orderErr = nil
	backend.order = &model.Order{
		ID:          "PB999999",
		Status:      model.StatusOutForDelivery,
		CreatedAt:   model.Time{Time: fixedNow},
		DriverName:  "Luis",
		DriverPhone: "555-0101",
	}
	run(t, e, e.LookupOrder("PB999999"))
	out := lastContent(t, e)
	assert.Contains(t, out, "¡Tu pedido va en camino!")
	assert.Contains(t, out, "Luis (555-0101)")
	assert.NotContains(t, out, "Entrega estimada")
}

func TestLookupOrder_MissingID(t *testing.T) {
	backend := &fakeBackend{}
	e := newTestEngine(t, backend)

	assert.Nil(t, e.LookupOrder("  "))
	assert.Equal(t, MissingOrderIDText, lastContent(t, e))
	assert.Empty(t, backend.lookups)
}

func TestListOrders(t *testing.T) {
	backend := &fakeBackend{orders: []model.Order{{ID: "PB000001", TotalAmount: 5}}}
	e := newTestEngine(t, backend)

	run(t, e, e.ListOrders())
	assert.Equal(t, 1, backend.listed)
	assert.Contains(t, lastContent(t, e), "**PB000001** · $5.00")
}

// =============================================================================
// WELCOME AND CLEAR
// =============================================================================

func countWelcome(e *Engine) int {
	n := 0
	for _, m := range e.Messages() {
		if strings.HasPrefix(m.ID, model.PrefixWelcome+"-") {
			n++
		}
	}
	return n
}

func TestSetAuth_GreetsOnce(t *testing.T) {
	e := New(&fakeBackend{}, WithWelcomeDelay(0))
	assert.Equal(t, 0, e.Len())

	e.SetAuth(true, ana)
	e.SetAuth(true, ana)
	require.Equal(t, 1, e.Len())
	assert.Equal(t, 1, countWelcome(e))
	assert.Contains(t, e.Messages()[0].Content, "¡Hola, Ana!")
}

func TestClearChat_WelcomesOnceWithoutSession(t *testing.T) {
	backend := &fakeBackend{reply: &api.ChatReply{Message: "ok", SessionID: "sess-1"}}
	e := newTestEngine(t, backend)
	run(t, e, e.SendMessage("hola"))
	require.Equal(t, "sess-1", e.SessionID())

	tick := e.ClearChat()
	assert.Equal(t, 0, e.Len())
	assert.Empty(t, e.SessionID())

	run(t, e, tick)
	assert.Equal(t, 1, e.Len())
	assert.Equal(t, 1, countWelcome(e))
	assert.Contains(t, lastContent(t, e), "Ana")
	assert.Empty(t, e.SessionID())
}

func TestClearChat_ThenAuthenticate(t *testing.T) {
	e := New(&fakeBackend{}, WithWelcomeDelay(0))

	tick := e.ClearChat()
	e.SetAuth(true, ana)
	run(t, e, tick)

	assert.Equal(t, 1, countWelcome(e))
	assert.Empty(t, e.SessionID())
}

func TestClearChat_DropsInFlightResult(t *testing.T) {
	backend := &fakeBackend{reply: &api.ChatReply{Message: "tarde", SessionID: "old"}}
	e := newTestEngine(t, backend)

	pending := e.SendMessage("hola")
	tick := e.ClearChat()
	assert.False(t, e.Loading())

	run(t, e, pending)
	assert.Equal(t, 0, e.Len())
	assert.Empty(t, e.SessionID())

	run(t, e, tick)
	assert.Equal(t, 1, countWelcome(e))
}

func TestWelcomeTick_StaleAndClosed(t *testing.T) {
	e := New(&fakeBackend{}, WithWelcomeDelay(10*time.Millisecond))
	e.SetAuth(true, ana)

	first := e.ClearChat()
	second := e.ClearChat()

	run(t, e, first)
	assert.Equal(t, 0, e.Len(), "superseded tick must not greet")

	e.Close()
	run(t, e, second)
	assert.Equal(t, 0, e.Len(), "closed engine must not greet")
	assert.Nil(t, e.SendMessage("hola"))
}

// =============================================================================
// SESSION EXPIRY
// =============================================================================

func TestUnauthorized_SignsOut(t *testing.T) {
	backend := &fakeBackend{chatErr: &api.Error{Kind: api.KindUnauthorized, Status: 401}}
	e := newTestEngine(t, backend)

	next := run(t, e, e.SendMessage("hola"))
	require.NotNil(t, next)
	assert.IsType(t, SessionExpiredMsg{}, next())
	assert.False(t, e.Authenticated())
	assert.False(t, e.Loading())
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, model.User{}, e.User())
}

func TestNonAPIErrorIsApology(t *testing.T) {
	backend := &fakeBackend{chatErr: errors.New("boom")}
	e := newTestEngine(t, backend)

	run(t, e, e.SendMessage("hola"))
	assert.Equal(t, ApologyText, lastContent(t, e))
	assert.True(t, e.Authenticated())
}

// =============================================================================
// SESSIONS AND EXPORT
// =============================================================================

func TestResumeSession(t *testing.T) {
	backend := &fakeBackend{stored: []model.HistoryMessage{
		{Type: "user", Content: "hola"},
		{Type: "assistant", Content: "¡Bienvenido!"},
	}}
	e := newTestEngine(t, backend)

	run(t, e, e.ListSessions())
	assert.Contains(t, lastContent(t, e), "`s-1` · 4 mensajes")

	run(t, e, e.ResumeSession("s-1"))
	assert.Equal(t, []string{"s-1"}, backend.history)
	assert.Equal(t, "s-1", e.SessionID())
	msgs := e.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsUser())
	assert.Equal(t, "¡Bienvenido!", msgs[1].Content)
}

func TestExport(t *testing.T) {
	backend := &fakeBackend{reply: &api.ChatReply{Message: "ok", SessionID: "sess-3"}}
	e := newTestEngine(t, backend)
	run(t, e, e.SendMessage("hola"))

	tr := e.Export()
	assert.Equal(t, "Ana Ruiz", tr.Customer)
	assert.Equal(t, "sess-3", tr.SessionID)
	assert.Equal(t, fixedNow, tr.ExportedAt)
	assert.Len(t, tr.Messages, 3)
}
