// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/auth"
	"github.com/jeranaias/perfburger-tui/internal/chat"
	"github.com/jeranaias/perfburger-tui/internal/config"
	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is the part of the backend client the commands call.
// *api.Client satisfies it.
type Backend interface {
	auth.Authenticator
	chat.Backend
	CheckHealth(ctx context.Context) (*api.Health, error)
	Logout() error
}

// Session is the stored login. *credentials.Store satisfies it.
type Session interface {
	IsAuthenticated() bool
	User() (model.User, bool)
	ExpiresAt() (time.Time, bool)
}

// Runner executes non-TUI commands.
type Runner struct {
	Config    *config.Config
	ConfigDir string
	Backend   Backend
	Session   Session

	In  io.Reader
	Out io.Writer
	Err io.Writer

	Log     zerolog.Logger
	Context context.Context

	// Secret reads a hidden value. nil reads from the terminal without
	// echo when stdin is one, or a plain line otherwise.
	Secret func() (string, error)

	// LineReader opens the chat REPL input. nil uses liner.
	LineReader func() (LineReader, error)

	prompt   *prompter
	markdown *glamour.TermRenderer
}

func (r *Runner) ctx() context.Context {
	if r.Context != nil {
		return r.Context
	}
	return context.Background()
}

func (r *Runner) prompter() *prompter {
	if r.prompt != nil {
		return r.prompt
	}
	in := r.In
	if in == nil {
		in = os.Stdin
	}
	r.prompt = newPrompter(in, r.Err)
	switch {
	case r.Secret != nil:
		r.prompt.readSecret = r.Secret
	case r.In == nil && IsTTY():
		r.prompt.readSecret = terminalSecret(r.Err)
	}
	return r.prompt
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes cmd. CmdTUI is started by the caller and is rejected here.
func (r *Runner) Run(cmd Command, args Args) error {
	if r.Out == nil {
		r.Out = os.Stdout
	}
	if r.Err == nil {
		r.Err = os.Stderr
	}
	if args.Flags == nil {
		args.Flags = NewArgParser(nil)
	}

	switch cmd {
	case CmdVersion:
		PrintVersion(r.Out)
		return nil
	case CmdHelp:
		PrintUsage(r.Out)
		return nil
	case CmdConfig:
		return r.config(args)
	case CmdChat:
		return r.chat(args)
	case CmdLogin:
		return r.login(args)
	case CmdRegister:
		return r.register(args)
	case CmdLogout:
		return r.logout(args)
	case CmdWhoami:
		return r.whoami(args)
	case CmdOrder:
		return r.order(args)
	case CmdOrders:
		return r.orders(args)
	case CmdHealth:
		return r.health(args)
	case CmdUnknown:
		return &UsageError{Usage: "perfburger help", Reason: "comando desconocido: " + args.Name}
	}
	return fmt.Errorf("cli: command %d is not handled by Runner", cmd)
}

// =============================================================================
// HELPERS
// =============================================================================

// requireSession returns the stored user or ErrNotSignedIn.
func (r *Runner) requireSession() (model.User, error) {
	if r.Session == nil || !r.Session.IsAuthenticated() {
		return model.User{}, ErrNotSignedIn
	}
	user, ok := r.Session.User()
	if !ok {
		return model.User{}, ErrNotSignedIn
	}
	return user, nil
}

// renderMarkdown renders assistant-style markdown for the terminal. Without
// colors the "notty" style keeps the structure readable in pipes.
func (r *Runner) renderMarkdown(content string) string {
	if r.markdown == nil {
		style := "notty"
		if ColorsEnabled() {
			theme := "auto"
			if r.Config != nil {
				theme = r.Config.UI.Theme
			}
			style = styles.NewTheme(theme).GlamourStyle()
		}
		wrap := 80
		if r.Config != nil && r.Config.UI.WordWrap > 0 {
			wrap = r.Config.UI.WordWrap
		}
		if w := GetTerminalWidth() - 4; w < wrap {
			wrap = w
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
			glamour.WithPreservedNewLines(),
		)
		if err != nil {
			r.Log.Debug().Err(err).Msg("markdown renderer unavailable")
			return content + "\n"
		}
		r.markdown = renderer
	}

	out, err := r.markdown.Render(content)
	if err != nil {
		return content + "\n"
	}
	return strings.TrimLeft(out, "\n")
}

// writeJSON prints a --json envelope. A failed command still returns err so
// the exit code reflects it.
func (r *Runner) writeJSON(command string, data interface{}, err error) error {
	resp := NewJSONResponse(command, data)
	if err != nil {
		resp = NewJSONErrorResponse(command, err)
	}
	if werr := resp.Write(r.Out); werr != nil {
		return werr
	}
	if err != nil {
		return &ReportedError{Err: err}
	}
	return nil
}
