// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/perfburger-tui/internal/chat"
	"github.com/jeranaias/perfburger-tui/internal/export"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Context provides handlers with the application state they act on.
// It is populated by the UI before executing commands.
type Context struct {
	Engine   *chat.Engine
	Registry *Registry

	// ExportDir is where /export writes when no path is given.
	// Empty means the working directory.
	ExportDir string

	// CopyToClipboard defaults to the system clipboard.
	CopyToClipboard func(text string) error
}

func (c *Context) copyFn() func(string) error {
	if c.CopyToClipboard != nil {
		return c.CopyToClipboard
	}
	return clipboard.WriteAll
}

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// NoticeMsg is a short status line for the UI, not part of the transcript.
type NoticeMsg struct {
	Text    string
	IsError bool
}

// ShowHelpMsg carries the rendered command reference.
type ShowHelpMsg struct {
	Text string
}

// LogoutMsg asks the UI to sign the customer out.
type LogoutMsg struct{}

// ExportDoneMsg reports the outcome of /export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// CopyDoneMsg reports the outcome of /copy.
type CopyDoneMsg struct {
	Err error
}

func notice(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, IsError: isError} }
}

// =============================================================================
// EXECUTION
// =============================================================================

// Execute runs a parsed command. Unknown commands and bad arguments produce
// an error notice instead of running anything.
func Execute(ctx *Context, result ParseResult) tea.Cmd {
	if !result.IsCommand {
		return nil
	}
	if result.Command == nil {
		return notice(fmt.Sprintf("Comando desconocido: %s. Escribe /help para ver los comandos.", result.CommandName), true)
	}
	if err := ValidateArgs(result.Command, result.Args); err != nil {
		usage := result.Command.Usage
		if usage == "" {
			usage = result.Command.Name
		}
		return notice("Uso: "+usage, true)
	}
	return result.Command.Handler(ctx, result.Args)
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleOrder(ctx *Context, _ []string) tea.Cmd {
	return ctx.Engine.CreateOrder()
}

func handleLookup(ctx *Context, args []string) tea.Cmd {
	return ctx.Engine.LookupOrder(args[0])
}

func handleOrders(ctx *Context, _ []string) tea.Cmd {
	return ctx.Engine.ListOrders()
}

func handleSessions(ctx *Context, _ []string) tea.Cmd {
	return ctx.Engine.ListSessions()
}

func handleResume(ctx *Context, args []string) tea.Cmd {
	return ctx.Engine.ResumeSession(args[0])
}

func handleClear(ctx *Context, _ []string) tea.Cmd {
	return ctx.Engine.ClearChat()
}

func handleExport(ctx *Context, args []string) tea.Cmd {
	path, format := "", ""
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "md", "markdown", "json":
			format = arg
		default:
			path = arg
		}
	}
	if format == "" && strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	exporter, err := export.ForFormat(format, nil)
	if err != nil {
		return notice(err.Error(), true)
	}

	switch {
	case path == "" && ctx.ExportDir != "":
		path = ctx.ExportDir + string(filepath.Separator)
	case path != "":
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			path += string(filepath.Separator)
		}
	}

	transcript := ctx.Engine.Export()
	if len(transcript.Messages) == 0 {
		return notice("No hay mensajes que exportar.", true)
	}
	return func() tea.Msg {
		written, err := export.ToFile(transcript, exporter, path)
		return ExportDoneMsg{Path: written, Err: err}
	}
}

func handleCopy(ctx *Context, _ []string) tea.Cmd {
	reply, ok := ctx.Engine.LastReply()
	if !ok {
		return notice("Todavía no hay respuestas para copiar.", true)
	}
	copyFn := ctx.copyFn()
	return func() tea.Msg {
		return CopyDoneMsg{Err: copyFn(reply.Content)}
	}
}

func handleHelp(ctx *Context, _ []string) tea.Cmd {
	text := HelpText(ctx.Registry)
	return func() tea.Msg { return ShowHelpMsg{Text: text} }
}

func handleLogout(_ *Context, _ []string) tea.Cmd {
	return func() tea.Msg { return LogoutMsg{} }
}

func handleQuit(_ *Context, _ []string) tea.Cmd {
	return tea.Quit
}

// HelpText renders the command reference as markdown.
func HelpText(r *Registry) string {
	if r == nil {
		r = NewRegistry()
	}
	groups := r.ByCategory()

	var b strings.Builder
	b.WriteString("## Comandos\n")
	for _, category := range categoryOrder {
		cmds := groups[category]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n**%s**\n\n", category)
		for _, cmd := range cmds {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			fmt.Fprintf(&b, "- `%s` %s\n", usage, cmd.Description)
		}
	}
	b.WriteString("\nEscribe un número de pedido como **PB123456** en cualquier mensaje para consultarlo.")
	return b.String()
}
