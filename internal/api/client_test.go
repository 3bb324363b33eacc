// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/perfburger-tui/internal/credentials"
	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/storage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// recorded is one request as the fake backend saw it.
type recorded struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type fakeBackend struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recorded
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		fb.mu.Lock()
		fb.requests = append(fb.requests, rec)
		fb.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) last(t *testing.T) recorded {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.requests, "no request reached the backend")
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, url string) (*Client, *credentials.Store) {
	t.Helper()
	creds := credentials.New(storage.NewMemoryStore())
	return New(url, creds), creds
}

var authBody = map[string]any{
	"access_token": "tok-123",
	"user": map[string]any{
		"id": 7, "email": "ana@perfburger.com", "first_name": "Ana", "last_name": "Ruiz",
	},
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

func TestLogin_StoresTokenAndAttachesHeader(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/login":
			writeJSON(w, http.StatusOK, authBody)
		case "/chat/":
			writeJSON(w, http.StatusOK, map[string]any{"message": "hola", "session_id": "s1", "timestamp": "2024-05-01T12:00:00"})
		}
	})
	c, creds := newTestClient(t, fb.URL)

	res, err := c.Login(context.Background(), "ana@perfburger.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.ID("7"), res.User.ID)
	assert.Equal(t, "tok-123", creds.Token())

	login := fb.last(t)
	assert.Equal(t, "", login.Auth, "login goes out unauthenticated")
	assert.Equal(t, "ana@perfburger.com", login.Body["email"])

	_, err = c.SendChatMessage(context.Background(), "hola", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", fb.last(t).Auth)
}

func TestRegister_SendsSnakeCaseNames(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, authBody)
	})
	c, _ := newTestClient(t, fb.URL)

	_, err := c.Register(context.Background(), " ana@perfburger.com ", "secret12", "Ana", "Ruiz")
	require.NoError(t, err)

	req := fb.last(t)
	assert.Equal(t, "/users/register", req.Path)
	assert.Equal(t, "ana@perfburger.com", req.Body["email"])
	assert.Equal(t, "Ana", req.Body["first_name"])
	assert.Equal(t, "Ruiz", req.Body["last_name"])
}

func TestLogin_MissingCredentialsNeverHitsNetwork(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	c, _ := newTestClient(t, fb.URL)

	_, err := c.Login(context.Background(), "", "x")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.True(t, errors.Is(err, ErrMissingCredentials))

	_, err = c.Register(context.Background(), "a@b.co", "", "A", "B")
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, 0, fb.count())
}

func TestCreateAnonymousUser(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, authBody)
	})
	c, creds := newTestClient(t, fb.URL)

	_, err := c.CreateAnonymousUser(context.Background())
	require.NoError(t, err)

	req := fb.last(t)
	email, _ := req.Body["email"].(string)
	assert.True(t, strings.HasPrefix(email, "demo-"), email)
	assert.True(t, strings.HasSuffix(email, "@perfburger.com"), email)
	assert.Equal(t, "demo123", req.Body["password"])
	assert.Equal(t, "Demo", req.Body["first_name"])
	assert.True(t, creds.IsAuthenticated())
}

func TestLogout_StripsHeader(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
	})
	c, creds := newTestClient(t, fb.URL)
	require.NoError(t, creds.Save("tok", model.User{ID: "1"}))

	require.NoError(t, c.Logout())
	assert.False(t, c.IsAuthenticated())

	_, err := c.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", fb.last(t).Auth)
}

// =============================================================================
// ERROR NORMALIZATION
// =============================================================================

func TestUnauthorized_ClearsSessionBeforeReturning(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chat/" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "Token has expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": []any{}})
	})
	c, creds := newTestClient(t, fb.URL)
	require.NoError(t, creds.Save("stale", model.User{ID: "1"}))

	var notified []bool
	creds.OnChange(func(a bool) { notified = append(notified, a) })

	_, err := c.SendChatMessage(context.Background(), "hola", "s1")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.Equal(t, "", creds.Token(), "token cleared by the time the error is seen")
	assert.Equal(t, []bool{false}, notified)

	_, err = c.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", fb.last(t).Auth, "next request carries no bearer header")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		body   any
		kind   Kind
		detail string
	}{
		{http.StatusConflict, map[string]any{"error": "User already exists"}, KindConflict, "User already exists"},
		{http.StatusBadRequest, map[string]any{"error": "Message is required"}, KindBadRequest, "Message is required"},
		{http.StatusUnprocessableEntity, map[string]any{"error": "Invalid", "details": map[string]any{"email": "bad"}}, KindValidation, `Invalid: {"email":"bad"}`},
		{http.StatusNotFound, map[string]any{"error": "Order PB000001 not found or does not belong to you"}, KindNotFound, "Order PB000001 not found or does not belong to you"},
		{http.StatusInternalServerError, map[string]any{"error": "Chat failed", "details": "boom"}, KindServer, "Chat failed: boom"},
		{http.StatusBadGateway, "not json", KindServer, ""},
		{http.StatusTeapot, nil, KindUnexpected, ""},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})
			c, _ := newTestClient(t, fb.URL)

			_, err := c.SendChatMessage(context.Background(), "hola", "")
			apiErr := AsError(err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tc.kind, apiErr.Kind)
			assert.Equal(t, tc.kind.String(), apiErr.Code)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.detail, apiErr.Detail)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestDistinctTemplates(t *testing.T) {
	seen := make(map[string]Kind)
	for kind, msg := range kindMessages {
		if other, dup := seen[msg]; dup {
			t.Fatalf("kinds %v and %v share a message", kind, other)
		}
		seen[msg] = kind
	}
}

func TestNetworkError(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	url := fb.URL
	fb.Close()

	c, _ := newTestClient(t, url)
	_, err := c.CheckHealth(context.Background())
	require.Error(t, err)
	apiErr := AsError(err)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestRateLimiter_CanceledContext(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	creds := credentials.New(storage.NewMemoryStore())
	c := New(fb.URL, creds, WithRateLimit(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.CheckHealth(ctx)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Equal(t, 0, fb.count())
}

func TestAsError_Fallback(t *testing.T) {
	assert.Nil(t, AsError(nil))

	apiErr := AsError(errors.New("something odd"))
	assert.Equal(t, KindUnexpected, apiErr.Kind)
	assert.Equal(t, "Ha ocurrido un error inesperado. Por favor intenta de nuevo.", apiErr.Message)

	wrapped := AsError(errors.Join(errors.New("ctx"), newError(KindConflict, 409, "", nil)))
	assert.Equal(t, KindConflict, wrapped.Kind)
}

// =============================================================================
// CHAT
// =============================================================================

func TestSendChatMessage_SessionIDOmittedWhenEmpty(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "¡Hola!", "session_id": "abc", "timestamp": "2024-05-01T12:00:00.5"})
	})
	c, _ := newTestClient(t, fb.URL)

	reply, err := c.SendChatMessage(context.Background(), "hola", "")
	require.NoError(t, err)
	assert.Equal(t, "abc", reply.SessionID)
	assert.Equal(t, "¡Hola!", reply.Message)
	_, present := fb.last(t).Body["session_id"]
	assert.False(t, present, "session_id must be omitted")

	_, err = c.SendChatMessage(context.Background(), "otra", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", fb.last(t).Body["session_id"])
}

func TestSendChatMessage_EmptyIsValidation(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	c, _ := newTestClient(t, fb.URL)

	_, err := c.SendChatMessage(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, fb.count())
}

func TestSessions(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/sessions":
			writeJSON(w, http.StatusOK, map[string]any{"sessions": []any{
				map[string]any{"session_id": "s1", "created_at": "2024-05-01T10:00:00", "updated_at": nil, "is_active": true, "last_message": "hola", "message_count": 4},
			}})
		case "/chat/sessions/s1/messages":
			writeJSON(w, http.StatusOK, map[string]any{"session_id": "s1", "messages": []any{
				map[string]any{"id": 1, "type": "user", "content": "hola", "timestamp": "2024-05-01T10:00:00"},
				map[string]any{"id": 2, "type": "assistant", "content": "¡Hola!", "timestamp": "2024-05-01T10:00:01"},
			}})
		}
	})
	c, _ := newTestClient(t, fb.URL)

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 4, sessions[0].MessageCount)
	assert.True(t, sessions[0].UpdatedAt.IsZero())

	msgs, err := c.SessionMessages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.ID("2"), msgs[1].ID)
}

// =============================================================================
// ORDERS
// =============================================================================

func TestCreateOrder(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Order created successfully",
			"order": map[string]any{
				"id": "PB123456", "status": "received", "total_amount": 21.5,
				"created_at": "2024-05-01T12:00:00", "estimated_delivery": "2024-05-01T12:30:00",
				"items": []any{map[string]any{"name": "Classic", "price": 8.5, "quantity": 2, "customizations": []string{"sin cebolla"}, "category": "burgers"}},
			},
			"unavailable_items": []string{"Pizza"},
		})
	})
	c, _ := newTestClient(t, fb.URL)

	res, err := c.CreateOrder(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "PB123456", res.Order.ID)
	assert.Equal(t, model.ItemNames{"Pizza"}, res.UnavailableItems)
	assert.Equal(t, "s1", fb.last(t).Body["session_id"])
	require.Len(t, res.Order.Items, 1)
	assert.Equal(t, []string{"sin cebolla"}, res.Order.Items[0].Customizations)

	_, err = c.CreateOrder(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestCreateOrder_UnavailableItemObjects(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"order":             map[string]any{"id": "PB123457", "status": "received", "total_amount": 8.5},
			"unavailable_items": []any{map[string]any{"name": "Pizza", "reason": "no está en el menú"}, "Sushi"},
		})
	})
	c, _ := newTestClient(t, fb.URL)

	res, err := c.CreateOrder(context.Background(), "s1")
	require.NoError(t, err, "an order the server created must not be reported as failed")
	assert.Equal(t, "PB123457", res.Order.ID)
	assert.Equal(t, model.ItemNames{"Pizza", "Sushi"}, res.UnavailableItems)
}

func TestLookupOrder_DriverInfo(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/lookup/PB000001":
			writeJSON(w, http.StatusOK, map[string]any{
				"order": map[string]any{"id": "PB000001", "status": "out_for_delivery", "driver_name": "Luis", "driver_phone": "555-0101"},
			})
		case "/orders/lookup/PB000002":
			writeJSON(w, http.StatusOK, map[string]any{
				"order":       map[string]any{"id": "PB000002", "status": "out_for_delivery"},
				"driver_name": "Marta", "driver_phone": "555-0202",
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Order not found"})
		}
	})
	c, _ := newTestClient(t, fb.URL)

	o, err := c.LookupOrder(context.Background(), "PB000001")
	require.NoError(t, err)
	assert.Equal(t, "Luis", o.DriverName)

	o, err = c.LookupOrder(context.Background(), "PB000002")
	require.NoError(t, err)
	assert.Equal(t, "Marta", o.DriverName)
	assert.Equal(t, "555-0202", o.DriverPhone)

	_, err = c.LookupOrder(context.Background(), "PB999999")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestListOrders(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"orders": []any{
			map[string]any{"id": "PB000002", "status": "delivered", "total_amount": 10},
			map[string]any{"id": "PB000001", "status": "cancelled", "total_amount": 5},
		}})
	})
	c, _ := newTestClient(t, fb.URL)

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "PB000002", orders[0].ID)
}

func TestCheckHealth(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
	})
	c, _ := newTestClient(t, fb.URL+"/")

	h, err := c.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())
	assert.Equal(t, "/health", fb.last(t).Path)
}
