// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/export"
	"github.com/jeranaias/perfburger-tui/internal/model"
)

// DefaultWelcomeDelay is how long ClearChat waits before greeting again.
const DefaultWelcomeDelay = 500 * time.Millisecond

var errEmptyResult = errors.New("backend returned an empty result")

// Backend is the subset of the backend client the engine calls.
// *api.Client satisfies it.
type Backend interface {
	SendChatMessage(ctx context.Context, text, sessionID string) (*api.ChatReply, error)
	CreateOrder(ctx context.Context, sessionID string) (*model.CreatedOrder, error)
	LookupOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListSessions(ctx context.Context) ([]model.SessionSummary, error)
	SessionMessages(ctx context.Context, sessionID string) ([]model.HistoryMessage, error)
}

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures an Engine.
type Option func(*Engine)

// WithWelcomeDelay sets the pause between ClearChat and the new greeting.
// Zero greets on the next update.
func WithWelcomeDelay(d time.Duration) Option {
	return func(e *Engine) { e.welcomeDelay = d }
}

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithContext sets the context passed to backend calls.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) { e.ctx = ctx }
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine owns the transcript, the chat session id and the loading/typing
// flags. Only its own methods mutate them.
type Engine struct {
	backend      Backend
	ctx          context.Context
	log          zerolog.Logger
	now          func() time.Time
	welcomeDelay time.Duration

	transcript    model.Transcript
	sessionID     string
	loading       bool
	typing        bool
	authenticated bool
	user          model.User

	// epoch increments on every reset; results from older epochs are dropped.
	epoch int
	// welcomeGen identifies the only welcome tick still allowed to fire.
	welcomeGen int
	closed     bool
}

// New creates an engine for an unauthenticated customer.
func New(backend Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:      backend,
		ctx:          context.Background(),
		log:          zerolog.Nop(),
		now:          time.Now,
		welcomeDelay: DefaultWelcomeDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the transcript in display order.
func (e *Engine) Messages() []model.ChatMessage { return e.transcript.Messages() }

// Len returns the number of messages in the transcript.
func (e *Engine) Len() int { return e.transcript.Len() }

// Loading reports whether a backend call is in flight.
func (e *Engine) Loading() bool { return e.loading }

// Typing reports whether the assistant is composing a reply.
func (e *Engine) Typing() bool { return e.typing }

// SessionID returns the current chat session id, or "" when none exists.
func (e *Engine) SessionID() string { return e.sessionID }

// Authenticated reports the engine's view of the login state.
func (e *Engine) Authenticated() bool { return e.authenticated }

// User returns the signed-in customer.
func (e *Engine) User() model.User { return e.user }

// LastReply returns the most recent assistant message.
func (e *Engine) LastReply() (model.ChatMessage, bool) { return e.transcript.LastAssistant() }

// =============================================================================
// AUTHENTICATION
// =============================================================================

// SetAuth records a login state change. Becoming authenticated with an empty
// transcript greets the customer; losing authentication discards the chat.
func (e *Engine) SetAuth(authenticated bool, user model.User) {
	if e.closed {
		return
	}
	if !authenticated {
		e.user = model.User{}
		if !e.authenticated {
			return
		}
		e.authenticated = false
		e.reset()
		return
	}

	e.user = user
	if e.authenticated {
		return
	}
	e.authenticated = true
	if e.transcript.IsEmpty() {
		e.appendAssistant(model.PrefixWelcome, WelcomeText(user.FirstName))
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SendMessage sends text to the assistant. Blank text, or text sent while a
// call is in flight, is ignored. Text carrying an order reference is answered
// with an order lookup instead of a chat call.
func (e *Engine) SendMessage(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || e.loading || e.closed {
		return nil
	}

	e.transcript.Append(model.NewUserMessage(trimmed, e.sessionID, e.now()))

	if orderID, ok := FindOrderReference(trimmed); ok {
		e.log.Debug().Str("order_id", orderID).Msg("order reference detected")
		return e.LookupOrder(orderID)
	}

	e.loading = true
	e.typing = true
	epoch, sessionID := e.epoch, e.sessionID
	return func() tea.Msg {
		reply, err := e.backend.SendChatMessage(e.ctx, trimmed, sessionID)
		return ReplyMsg{epoch: epoch, Reply: reply, Err: err}
	}
}

// CreateOrder asks the backend to build an order from the current chat
// session. Without a session it explains why nothing happened.
func (e *Engine) CreateOrder() tea.Cmd {
	if e.loading || e.closed {
		return nil
	}
	if e.sessionID == "" {
		e.appendAssistant(model.PrefixOrder, NoSessionText)
		return nil
	}

	e.appendAssistant(model.PrefixOrder, createProgressText)
	e.loading = true
	epoch, sessionID := e.epoch, e.sessionID
	return func() tea.Msg {
		res, err := e.backend.CreateOrder(e.ctx, sessionID)
		return OrderCreatedMsg{epoch: epoch, Result: res, Err: err}
	}
}

// LookupOrder fetches an order by id.
func (e *Engine) LookupOrder(orderID string) tea.Cmd {
	if e.loading || e.closed {
		return nil
	}
	orderID = strings.ToUpper(strings.TrimSpace(orderID))
	if orderID == "" {
		e.appendAssistant(model.PrefixOrder, MissingOrderIDText)
		return nil
	}

	e.appendAssistant(model.PrefixOrder, lookupProgressText(orderID))
	e.loading = true
	epoch := e.epoch
	return func() tea.Msg {
		order, err := e.backend.LookupOrder(e.ctx, orderID)
		return OrderFoundMsg{epoch: epoch, OrderID: orderID, Order: order, Err: err}
	}
}

// ListOrders shows the customer's orders.
func (e *Engine) ListOrders() tea.Cmd {
	if e.loading || e.closed {
		return nil
	}
	e.appendAssistant(model.PrefixOrder, ordersProgressText)
	e.loading = true
	epoch := e.epoch
	return func() tea.Msg {
		orders, err := e.backend.ListOrders(e.ctx)
		return OrdersListedMsg{epoch: epoch, Orders: orders, Err: err}
	}
}

// ListSessions shows the customer's previous chat sessions.
func (e *Engine) ListSessions() tea.Cmd {
	if e.loading || e.closed {
		return nil
	}
	e.appendAssistant(model.PrefixBot, sessionsProgressText)
	e.loading = true
	epoch := e.epoch
	return func() tea.Msg {
		sessions, err := e.backend.ListSessions(e.ctx)
		return SessionsListedMsg{epoch: epoch, Sessions: sessions, Err: err}
	}
}

// ResumeSession replaces the transcript with a stored session's history and
// continues that session.
func (e *Engine) ResumeSession(sessionID string) tea.Cmd {
	if e.loading || e.closed {
		return nil
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	e.loading = true
	epoch := e.epoch
	return func() tea.Msg {
		history, err := e.backend.SessionMessages(e.ctx, sessionID)
		return HistoryLoadedMsg{epoch: epoch, SessionID: sessionID, History: history, Err: err}
	}
}

// ClearChat empties the transcript, forgets the session id and schedules a
// fresh welcome message.
func (e *Engine) ClearChat() tea.Cmd {
	if e.closed {
		return nil
	}
	e.reset()
	return e.scheduleWelcome()
}

// Close stops the engine. Pending welcome ticks and in-flight results are
// discarded when they arrive.
func (e *Engine) Close() {
	e.closed = true
	e.welcomeGen++
}

// Export snapshots the transcript for writing to disk.
func (e *Engine) Export() *export.Transcript {
	t := &export.Transcript{
		SessionID:  e.sessionID,
		ExportedAt: e.now(),
		Messages:   e.transcript.Messages(),
	}
	if e.authenticated {
		t.Customer = e.user.FullName()
	}
	return t
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies a result message produced by one of the engine's commands.
// Messages the engine does not own are ignored.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	if e.closed {
		return nil
	}

	switch msg := msg.(type) {
	case WelcomeTickMsg:
		e.handleWelcomeTick(msg)
		return nil

	case ReplyMsg:
		if cmd, done := e.settle(msg.epoch, msg.Err); done {
			return cmd
		}
		if msg.Err == nil && msg.Reply == nil {
			msg.Err = errEmptyResult
		}
		if msg.Err != nil {
			e.log.Warn().Err(msg.Err).Msg("chat message failed")
			e.appendAssistant(model.PrefixError, ApologyText)
			return nil
		}
		if msg.Reply.SessionID != "" {
			e.sessionID = msg.Reply.SessionID
		}
		e.transcript.Append(model.ChatMessage{
			ID:        model.NewMessageID(model.PrefixBot),
			Role:      model.RoleAssistant,
			Content:   msg.Reply.Message,
			Timestamp: replyTime(msg.Reply.Timestamp, e.now()),
			SessionID: e.sessionID,
		})
		return nil

	case OrderCreatedMsg:
		if cmd, done := e.settle(msg.epoch, msg.Err); done {
			return cmd
		}
		if msg.Err == nil && msg.Result == nil {
			msg.Err = errEmptyResult
		}
		if msg.Err != nil {
			e.log.Warn().Err(msg.Err).Msg("order creation failed")
			e.appendAssistant(model.PrefixError, formatCreateError(msg.Err))
			return nil
		}
		e.log.Info().Str("order_id", msg.Result.Order.ID).Msg("order created")
		e.appendAssistant(model.PrefixOrder, formatCreatedOrder(msg.Result))
		return nil

	case OrderFoundMsg:
		if cmd, done := e.settle(msg.epoch, msg.Err); done {
			return cmd
		}
		if msg.Err == nil && msg.Order == nil {
			msg.Err = errEmptyResult
		}
		if msg.Err != nil {
			e.log.Debug().Err(msg.Err).Str("order_id", msg.OrderID).Msg("order lookup failed")
			e.appendAssistant(model.PrefixError, FormatLookupError(msg.OrderID, msg.Err))
			return nil
		}
		e.appendAssistant(model.PrefixOrder, FormatOrder(msg.Order))
		return nil

	case OrdersListedMsg:
		if cmd, done := e.settle(msg.epoch, msg.Err); done {
			return cmd
		}
		if msg.Err != nil {
			e.appendAssistant(model.PrefixError, formatListError("tus pedidos", msg.Err))
			return nil
		}
		e.appendAssistant(model.PrefixOrder, FormatOrderList(msg.Orders))
		return nil

	case SessionsListedMsg:
		if cmd, done := e.settle(msg.epoch, msg.Err); done {
			return cmd
		}
		if msg.Err != nil {
			e.appendAssistant(model.PrefixError, formatListError("tus conversaciones", msg.Err))
			return nil
		}
		e.appendAssistant(model.PrefixBot, formatSessionList(msg.Sessions))
		return nil

	case HistoryLoadedMsg:
		if cmd, done := e.settle(msg.epoch, msg.Err); done {
			return cmd
		}
		if msg.Err != nil {
			e.appendAssistant(model.PrefixError, formatListError("la conversación", msg.Err))
			return nil
		}
		e.transcript.Clear()
		e.sessionID = msg.SessionID
		for _, h := range msg.History {
			e.transcript.Append(h.ToChatMessage(msg.SessionID))
		}
		e.log.Info().Str("session_id", msg.SessionID).Int("messages", len(msg.History)).Msg("session resumed")
		return nil
	}
	return nil
}

// settle finishes an in-flight call. It reports done when the result must
// not be applied: the call belongs to an earlier epoch, or the backend
// rejected the credentials.
func (e *Engine) settle(epoch int, err error) (tea.Cmd, bool) {
	if api.IsKind(err, api.KindUnauthorized) {
		e.log.Info().Msg("credentials rejected; signing out")
		wasAuthenticated := e.authenticated
		e.authenticated = false
		e.user = model.User{}
		e.reset()
		if !wasAuthenticated {
			return nil, true
		}
		return func() tea.Msg { return SessionExpiredMsg{} }, true
	}
	if epoch != e.epoch {
		e.log.Debug().Int("epoch", epoch).Int("current", e.epoch).Msg("dropping stale result")
		return nil, true
	}
	e.loading = false
	e.typing = false
	return nil, false
}

// =============================================================================
// INTERNALS
// =============================================================================

// reset drops the transcript and session and starts a new epoch so results
// already in flight are discarded.
func (e *Engine) reset() {
	e.transcript.Clear()
	e.sessionID = ""
	e.loading = false
	e.typing = false
	e.epoch++
	e.welcomeGen++
}

func (e *Engine) scheduleWelcome() tea.Cmd {
	e.welcomeGen++
	gen := e.welcomeGen
	if e.welcomeDelay <= 0 {
		return func() tea.Msg { return WelcomeTickMsg{gen: gen} }
	}
	return tea.Tick(e.welcomeDelay, func(time.Time) tea.Msg {
		return WelcomeTickMsg{gen: gen}
	})
}

func (e *Engine) handleWelcomeTick(msg WelcomeTickMsg) {
	if msg.gen != e.welcomeGen || !e.authenticated || !e.transcript.IsEmpty() {
		return
	}
	e.appendAssistant(model.PrefixWelcome, WelcomeText(e.user.FirstName))
}

func (e *Engine) appendAssistant(prefix, content string) {
	e.transcript.Append(model.NewAssistantMessage(prefix, content, e.sessionID, e.now()))
}
