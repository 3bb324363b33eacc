// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/perfburger-tui/internal/model"
)

// Guest account parameters. The backend has no anonymous mode, so a guest is
// a throwaway registration.
const (
	guestDomain    = "perfburger.com"
	guestPassword  = "demo123"
	guestFirstName = "Demo"
	guestLastName  = "User"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) (*model.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, validationError(ErrMissingCredentials)
	}
	req := registerRequest{
		Email:     strings.TrimSpace(email),
		Password:  password,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
	return c.authenticate(ctx, "/users/register", req)
}

// Login signs in and stores the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, validationError(ErrMissingCredentials)
	}
	return c.authenticate(ctx, "/users/login", loginRequest{Email: strings.TrimSpace(email), Password: password})
}

// CreateAnonymousUser registers a throwaway demo account and signs in as it.
func (c *Client) CreateAnonymousUser(ctx context.Context) (*model.AuthResult, error) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	email := "demo-" + suffix + "@" + guestDomain
	return c.Register(ctx, email, guestPassword, guestFirstName, guestLastName)
}

// Logout forgets the session locally. The backend keeps no server-side
// session to revoke.
func (c *Client) Logout() error {
	return c.store.Clear()
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, newError(KindUnexpected, 0, "response carried no access token", nil)
	}
	if err := c.store.Save(res.AccessToken, res.User); err != nil {
		return nil, newError(KindUnexpected, 0, "could not persist session", err)
	}
	c.log.Info().Str("user_id", res.User.ID.String()).Msg("authenticated")
	return &res, nil
}
