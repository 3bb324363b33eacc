// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jeranaias/perfburger-tui/internal/model"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatReply is the assistant's answer to one message.
type ChatReply struct {
	Message   string     `json:"message"`
	SessionID string     `json:"session_id"`
	Timestamp model.Time `json:"timestamp"`
}

// SendChatMessage posts text to the assistant. An empty sessionID starts a
// new chat session; the reply carries the id to use next time.
func (c *Client) SendChatMessage(ctx context.Context, text, sessionID string) (*ChatReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationError(ErrEmptyMessage)
	}
	var reply ChatReply
	if err := c.do(ctx, http.MethodPost, "/chat/", chatRequest{Message: text, SessionID: sessionID}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListSessions returns the customer's chat sessions, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]model.SessionSummary, error) {
	var res struct {
		Sessions []model.SessionSummary `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/chat/sessions", nil, &res); err != nil {
		return nil, err
	}
	return res.Sessions, nil
}

// SessionMessages returns the stored history of one chat session.
func (c *Client) SessionMessages(ctx context.Context, sessionID string) ([]model.HistoryMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, validationError(ErrMissingSession)
	}
	var res struct {
		SessionID string                 `json:"session_id"`
		Messages  []model.HistoryMessage `json:"messages"`
	}
	path := "/chat/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}
