// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Health is the backend's liveness report.
type Health struct {
	Status string `json:"status"`
}

// Healthy reports whether the backend said so.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}

// CheckHealth calls the unauthenticated health endpoint.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
