// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// =============================================================================
// ORDER STATUS
// =============================================================================

// Order statuses reported by the backend.
const (
	StatusReceived       = "received"
	StatusPreparing      = "preparing"
	StatusCooking        = "cooking"
	StatusReady          = "ready"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// statusDescriptions is used when the backend omits status_description,
// which it does on order creation.
var statusDescriptions = map[string]string{
	StatusReceived:       "Tu pedido fue recibido y se está procesando.",
	StatusPreparing:      "Nuestra cocina está preparando tu pedido.",
	StatusCooking:        "Tu comida se está cocinando con cuidado.",
	StatusReady:          "Tu pedido está listo para recoger o enviar.",
	StatusOutForDelivery: "¡Tu pedido va en camino!",
	StatusDelivered:      "Tu pedido fue entregado. ¡Buen provecho!",
	StatusCancelled:      "Tu pedido fue cancelado.",
}

// =============================================================================
// ORDER TYPES
// =============================================================================

// OrderItem is one line of an order.
type OrderItem struct {
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations"`
	Category       string   `json:"category"`
}

// Subtotal returns price times quantity.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is the client's read-only view of an order. It is never mutated
// client-side; lookups always fetch a fresh copy.
type Order struct {
	ID                  string      `json:"id"`
	Status              string      `json:"status"`
	StatusDescription   string      `json:"status_description,omitempty"`
	Items               []OrderItem `json:"items"`
	TotalAmount         float64     `json:"total_amount"`
	DeliveryAddress     string      `json:"delivery_address,omitempty"`
	CreatedAt           Time        `json:"created_at"`
	EstimatedDelivery   Time        `json:"estimated_delivery"`
	ActualDelivery      Time        `json:"actual_delivery"`
	DriverName          string      `json:"driver_name,omitempty"`
	DriverPhone         string      `json:"driver_phone,omitempty"`
	ConversationSummary string      `json:"conversation_summary,omitempty"`
}

// Describe returns the backend's status description, or a local one.
func (o Order) Describe() string {
	if o.StatusDescription != "" {
		return o.StatusDescription
	}
	if d, ok := statusDescriptions[o.Status]; ok {
		return d
	}
	return "Estado desconocido"
}

// HasDriver reports whether delivery-driver details are known.
func (o Order) HasDriver() bool {
	return o.DriverName != "" || o.DriverPhone != ""
}

// ItemCount returns the total quantity across all lines.
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// CreatedOrder is the result of creating an order from a chat session.
type CreatedOrder struct {
	Order            Order     `json:"order"`
	UnavailableItems ItemNames `json:"unavailable_items"`
	AnalysisMethod   string    `json:"analysis_method,omitempty"`
}

// ItemNames is a list of product names. The backend may send plain strings or
// objects carrying a name; entries of any other shape are skipped.
type ItemNames []string

// UnmarshalJSON accepts ["Pizza"], [{"name": "Pizza"}], a single value, and
// null.
func (n *ItemNames) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = []json.RawMessage{data}
	}

	names := make(ItemNames, 0, len(raw))
	for _, item := range raw {
		if name := itemName(item); name != "" {
			names = append(names, name)
		}
	}
	*n = names
	return nil
}

func itemName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name     string `json:"name"`
		ItemName string `json:"item_name"`
		Product  string `json:"product"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, v := range []string{obj.Name, obj.ItemName, obj.Product} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
