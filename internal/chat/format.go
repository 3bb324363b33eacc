// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/util"
)

// =============================================================================
// FIXED TEXTS
// =============================================================================

const (
	// ApologyText replaces a failed chat reply.
	ApologyText = "Lo siento, hubo un problema al enviar tu mensaje. Por favor intenta de nuevo. 🔄"

	// NoSessionText is shown when an order is requested before any chat.
	NoSessionText = "🛒 Aún no hay una conversación que analizar. Cuéntame qué te gustaría pedir y luego escribe **/order** para crear tu pedido."

	// MissingOrderIDText is shown when a lookup is requested without an id.
	MissingOrderIDText = "Indica el número de pedido, por ejemplo **PB123456**."

	createProgressText   = "🧾 Creando tu pedido a partir de nuestra conversación..."
	ordersProgressText   = "📋 Consultando tus pedidos..."
	sessionsProgressText = "🗂️ Consultando tus conversaciones..."
)

const (
	clockLayout = "15:04"
	dateLayout  = "02/01/2006 15:04"
)

// WelcomeText returns the greeting shown at the top of an empty chat.
func WelcomeText(firstName string) string {
	greeting := "¡Hola!"
	if name := strings.TrimSpace(firstName); name != "" {
		greeting = "¡Hola, " + name + "!"
	}
	return greeting + ` 👋 Soy el **asistente virtual** de PerfBurger 🍔

Puedo ayudarte con:
• **Nuestro menú** y precios
• **Ingredientes** y información nutricional
• **Recomendaciones** personalizadas
• **Horarios** y ubicaciones

*¿En qué puedo ayudarte hoy?*`
}

func lookupProgressText(orderID string) string {
	return fmt.Sprintf("🔍 Buscando tu pedido **%s**...", orderID)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// =============================================================================
// ORDER FORMATTING
// =============================================================================

// formatCreatedOrder renders the summary shown after an order is created.
func formatCreatedOrder(res *model.CreatedOrder) string {
	o := res.Order
	var b strings.Builder
	b.WriteString("✅ **¡Pedido creado!**\n\n")
	fmt.Fprintf(&b, "- **Pedido**: %s\n", o.ID)
	fmt.Fprintf(&b, "- **Total**: %s\n", money(o.TotalAmount))
	fmt.Fprintf(&b, "- **Estado**: %s\n", o.Describe())
	if !o.EstimatedDelivery.IsZero() {
		fmt.Fprintf(&b, "- **Entrega estimada**: %s\n", o.EstimatedDelivery.Local().Format(clockLayout))
	}
	writeItems(&b, o.Items)

	if len(res.UnavailableItems) > 0 {
		b.WriteString("\n⚠️ **No disponibles**:\n")
		for _, name := range res.UnavailableItems {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	fmt.Fprintf(&b, "\nGuarda el número **%s** para consultar tu pedido.", o.ID)
	return b.String()
}

// FormatOrder renders a looked-up order.
func FormatOrder(o *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 **Pedido %s**\n\n", o.ID)
	fmt.Fprintf(&b, "- **Estado**: %s\n", o.Describe())
	fmt.Fprintf(&b, "- **Total**: %s\n", money(o.TotalAmount))
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Creado**: %s\n", o.CreatedAt.Local().Format(dateLayout))
	}
	if !o.EstimatedDelivery.IsZero() {
		fmt.Fprintf(&b, "- **Entrega estimada**: %s\n", o.EstimatedDelivery.Local().Format(clockLayout))
	}
	if !o.ActualDelivery.IsZero() {
		fmt.Fprintf(&b, "- **Entregado**: %s\n", o.ActualDelivery.Local().Format(clockLayout))
	}
	if o.DeliveryAddress != "" {
		fmt.Fprintf(&b, "- **Dirección**: %s\n", o.DeliveryAddress)
	}
	writeItems(&b, o.Items)

	if o.HasDriver() {
		b.WriteString("\n🛵 **Repartidor**")
		if o.DriverName != "" {
			fmt.Fprintf(&b, ": %s", o.DriverName)
		}
		if o.DriverPhone != "" {
			fmt.Fprintf(&b, " (%s)", o.DriverPhone)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeItems(b *strings.Builder, items []model.OrderItem) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n**Productos**:\n")
	for _, item := range items {
		fmt.Fprintf(b, "- %dx %s · %s", item.Quantity, item.Name, money(item.Subtotal()))
		if len(item.Customizations) > 0 {
			fmt.Fprintf(b, " _(%s)_", strings.Join(item.Customizations, ", "))
		}
		b.WriteString("\n")
	}
}

// formatCreateError renders a failed order creation.
func formatCreateError(err error) string {
	return "❌ No pudimos crear tu pedido: " + api.AsError(err).Message
}

// FormatLookupError renders a failed order lookup.
func FormatLookupError(orderID string, err error) string {
	apiErr := api.AsError(err)
	if apiErr.Kind == api.KindNotFound {
		return fmt.Sprintf("❌ No encontramos el pedido **%s**. Verifica el número e intenta de nuevo.", orderID)
	}
	return fmt.Sprintf("⚠️ No pudimos consultar el pedido **%s**: %s", orderID, apiErr.Message)
}

// FormatOrderList renders the customer's orders, newest first as returned.
func FormatOrderList(orders []model.Order) string {
	if len(orders) == 0 {
		return "Todavía no tienes pedidos. ¡Cuéntame qué se te antoja! 🍔"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Tus pedidos** (%d)\n\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "- **%s** · %s · %s", o.ID, money(o.TotalAmount), o.Describe())
		if !o.CreatedAt.IsZero() {
			fmt.Fprintf(&b, " · %s", o.CreatedAt.Local().Format(dateLayout))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatSessionList renders the customer's chat sessions.
func formatSessionList(sessions []model.SessionSummary) string {
	if len(sessions) == 0 {
		return "No tienes conversaciones anteriores."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🗂️ **Tus conversaciones** (%d)\n\n", len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(&b, "- `%s` · %d mensajes", s.SessionID, s.MessageCount)
		if !s.UpdatedAt.IsZero() {
			fmt.Fprintf(&b, " · %s", s.UpdatedAt.Local().Format(dateLayout))
		}
		if s.IsActive {
			b.WriteString(" · activa")
		}
		if s.LastMessage != "" {
			fmt.Fprintf(&b, "\n  > %s", util.SingleLine(util.TruncateRunes(s.LastMessage, 60)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nUsa **/resume <id>** para continuar una conversación.")
	return b.String()
}

// formatListError renders a failed list request.
func formatListError(what string, err error) string {
	return fmt.Sprintf("⚠️ No pudimos consultar %s: %s", what, api.AsError(err).Message)
}

// replyTime prefers the backend timestamp when it sent one.
func replyTime(t model.Time, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t.Time
}
