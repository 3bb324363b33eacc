// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// order_cmd.go - One-shot order commands.
//
// Examples:
//   perfburger order lookup PB123456
//   perfburger order pb123456 --json
//   perfburger orders

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/perfburger-tui/internal/chat"
)

const orderUsage = "perfburger order lookup <PB123456>"

func (r *Runner) order(args Args) error {
	var id string
	switch args.Subcommand {
	case "":
		return &UsageError{Usage: orderUsage}
	case "lookup", "get", "show":
		if len(args.Positional) < 2 {
			return &UsageError{Usage: orderUsage, Reason: "falta el número de pedido"}
		}
		id = args.Positional[1]
	default:
		id = args.Positional[0]
	}

	id = normalizeOrderID(id)
	if id == "" {
		return &UsageError{Usage: orderUsage, Reason: "falta el número de pedido"}
	}
	if _, err := r.requireSession(); err != nil {
		return err
	}

	order, err := r.Backend.LookupOrder(r.ctx(), id)
	if args.JSON {
		return r.writeJSON("order", order, err)
	}
	if err != nil {
		fmt.Fprint(r.Err, r.renderMarkdown(chat.FormatLookupError(id, err)))
		return &ReportedError{Err: &CommandError{Command: "order", Action: "lookup", Err: err}}
	}
	fmt.Fprint(r.Out, r.renderMarkdown(chat.FormatOrder(order)))
	return nil
}

func (r *Runner) orders(args Args) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}
	orders, err := r.Backend.ListOrders(r.ctx())
	if args.JSON {
		return r.writeJSON("orders", orders, err)
	}
	if err != nil {
		return &CommandError{Command: "orders", Err: err}
	}
	fmt.Fprint(r.Out, r.renderMarkdown(chat.FormatOrderList(orders)))
	return nil
}

// normalizeOrderID accepts "pb123456" or text containing a reference.
func normalizeOrderID(id string) string {
	if ref, ok := chat.FindOrderReference(id); ok {
		return ref
	}
	return strings.ToUpper(strings.TrimSpace(id))
}
