// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credentials holds the bearer token and customer profile for the
// current login, persisted in a storage.Store so they survive restarts.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/storage"
)

// Persistent keys.
const (
	KeyToken = "auth_token"
	KeyUser  = "user"
)

// ChangeFunc is called after every Save or Clear with the new state.
type ChangeFunc func(authenticated bool)

// Store is the single owner of the persisted token and profile.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	backend storage.Store
	token   string
	user    *model.User

	subMu  sync.Mutex
	subs   map[int]ChangeFunc
	nextID int

	now func() time.Time
	log zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store over backend. Call Restore to load persisted state.
func New(backend storage.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		subs:    make(map[int]ChangeFunc),
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Restore loads token and profile from the backend. An expired JWT or a
// token without a readable profile is treated as no login and both keys are
// removed. It returns whether a login was restored.
func (s *Store) Restore() (bool, error) {
	token, err := s.backend.Get(KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore token: %w", err)
	}

	if expired, exp := s.tokenExpired(token); expired {
		s.log.Info().Time("exp", exp).Msg("stored token expired; clearing")
		return false, s.wipe()
	}

	raw, err := s.backend.Get(KeyUser)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("restore user: %w", err)
	}
	var user model.User
	if raw == "" || json.Unmarshal([]byte(raw), &user) != nil {
		s.log.Warn().Msg("stored profile missing or unreadable; clearing")
		return false, s.wipe()
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return true, nil
}

// Save persists a new login and notifies subscribers.
func (s *Store) Save(token string, user model.User) error {
	if token == "" {
		return errors.New("credentials: empty token")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.backend.Set(KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.backend.Set(KeyUser, string(data)); err != nil {
		_ = s.backend.Delete(KeyToken)
		return fmt.Errorf("save user: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	s.notify(true)
	return nil
}

// Clear removes token and profile from memory and storage, then notifies
// subscribers. Memory is cleared even if storage fails.
func (s *Store) Clear() error {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	err := s.wipe()
	if had {
		s.notify(false)
	}
	return err
}

func (s *Store) wipe() error {
	errTok := s.backend.Delete(KeyToken)
	errUser := s.backend.Delete(KeyUser)
	if err := errors.Join(errTok, errUser); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the profile.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// ExpiresAt returns the token's exp claim, if it has one.
func (s *Store) ExpiresAt() (time.Time, bool) {
	exp, ok := expiry(s.Token())
	return exp, ok
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// OnChange registers fn and returns a function that removes it.
func (s *Store) OnChange(fn ChangeFunc) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(authenticated bool) {
	s.subMu.Lock()
	fns := make([]ChangeFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(authenticated)
	}
}

// =============================================================================
// TOKEN INSPECTION
// =============================================================================

// tokenExpired reports whether token is a JWT whose exp is in the past.
// Opaque tokens never expire client-side; the backend rejects them with 401.
func (s *Store) tokenExpired(token string) (bool, time.Time) {
	exp, ok := expiry(token)
	if !ok {
		return false, time.Time{}
	}
	return !s.now().Before(exp), exp
}

// expiry reads the exp claim without verifying the signature. The client
// never holds the signing key; this only avoids sending a dead token.
func expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
