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

// CreateOrder asks the backend to turn a chat session into an order.
func (c *Client) CreateOrder(ctx context.Context, sessionID string) (*model.CreatedOrder, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, validationError(ErrMissingSession)
	}
	var res model.CreatedOrder
	body := struct {
		SessionID string `json:"session_id"`
	}{sessionID}
	if err := c.do(ctx, http.MethodPost, "/orders/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LookupOrder fetches the current state of one order. Driver details may
// appear on the order or beside it; both are accepted.
func (c *Client) LookupOrder(ctx context.Context, orderID string) (*model.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, validationError(ErrMissingOrderID)
	}
	var res struct {
		Order       model.Order `json:"order"`
		DriverName  string      `json:"driver_name"`
		DriverPhone string      `json:"driver_phone"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/lookup/"+url.PathEscape(orderID), nil, &res); err != nil {
		return nil, err
	}
	order := res.Order
	if order.DriverName == "" {
		order.DriverName = res.DriverName
	}
	if order.DriverPhone == "" {
		order.DriverPhone = res.DriverPhone
	}
	if order.ID == "" {
		order.ID = orderID
	}
	return &order, nil
}

// ListOrders returns the customer's orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var res struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &res); err != nil {
		return nil, err
	}
	return res.Orders, nil
}
