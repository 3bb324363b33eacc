// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-text chat REPL.
//
// USABILITY: Markdown rendering and history for better CLI experience
//
// Command: chat
// Short:   Chat with the assistant without the full-screen interface
//
// The REPL drives the same chat engine and slash commands as the TUI, one
// line at a time. Ctrl+C or Ctrl+D exits.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"

	"github.com/jeranaias/perfburger-tui/internal/chat"
	"github.com/jeranaias/perfburger-tui/internal/commands"
	"github.com/jeranaias/perfburger-tui/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads REPL input. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// historyLiner is a liner.State that persists its history on Close.
type historyLiner struct {
	*liner.State
	historyFile string
}

// newHistoryLiner opens liner with history loaded from dir/chat_history.
func newHistoryLiner(dir string) *historyLiner {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	h := &historyLiner{State: line}
	if dir != "" {
		h.historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(h.historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return h
}

// Close saves history with 0600 permissions and restores the terminal.
func (h *historyLiner) Close() error {
	if h.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(h.historyFile), 0700); err == nil {
			if f, err := os.OpenFile(h.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = h.WriteHistory(f)
				f.Close()
			}
		}
	}
	return h.State.Close()
}

// =============================================================================
// REPL
// =============================================================================

// errSessionEnded stops the REPL after /logout or an expired session.
var errSessionEnded = errors.New("session ended")

// replSession holds the state of one REPL run.
type replSession struct {
	runner    *Runner
	engine    *chat.Engine
	cmdCtx    *commands.Context
	parser    *commands.Parser
	lastShown string
}

func (r *Runner) chat(args Args) error {
	user, err := r.requireSession()
	if err != nil {
		return err
	}

	var reader LineReader
	if r.LineReader != nil {
		if reader, err = r.LineReader(); err != nil {
			return err
		}
	} else {
		reader = newHistoryLiner(r.ConfigDir)
	}
	defer reader.Close()

	engine := chat.New(r.Backend,
		chat.WithWelcomeDelay(0),
		chat.WithLogger(r.Log),
		chat.WithContext(r.ctx()),
	)
	defer engine.Close()

	registry := commands.NewRegistry()
	s := &replSession{
		runner: r,
		engine: engine,
		cmdCtx: &commands.Context{Engine: engine, Registry: registry},
		parser: commands.NewParser(registry),
	}

	engine.SetAuth(true, user)
	if !args.Quiet {
		fmt.Fprintln(r.Out, DimStyle.Render("Escribe /help para ver los comandos. Ctrl+D para salir."))
	}
	s.flush()

	prompt := PromptStyle.Render("tú› ")
	for {
		line, err := reader.Prompt(prompt)
		if err != nil {
			fmt.Fprintln(r.Out)
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		reader.AppendHistory(line)
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "salir") {
			return nil
		}

		if err := s.handle(line); err != nil {
			if errors.Is(err, errSessionEnded) {
				return nil
			}
			if errors.Is(err, ErrNotSignedIn) {
				return &ReportedError{Err: err}
			}
			return err
		}
	}
}

// handle runs one input line to completion.
func (s *replSession) handle(line string) error {
	var cmd tea.Cmd
	if commands.IsCommand(line) {
		cmd = commands.Execute(s.cmdCtx, s.parser.Parse(line))
	} else {
		if s.engine.Loading() {
			return nil
		}
		cmd = s.engine.SendMessage(line)
	}

	if s.engine.Typing() {
		fmt.Fprintln(s.runner.Err, DimStyle.Render("PerfBurger está escribiendo..."))
	}
	err := s.drive(cmd)
	s.flush()
	return err
}

// drive executes cmd and everything it leads to, synchronously.
func (s *replSession) drive(cmd tea.Cmd) error {
	r := s.runner
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			return errSessionEnded

		case commands.NoticeMsg:
			style := DimStyle
			if msg.IsError {
				style = ErrorStyle
			}
			fmt.Fprintln(r.Out, style.Render(msg.Text))
		case commands.ShowHelpMsg:
			fmt.Fprint(r.Out, r.renderMarkdown(msg.Text))
		case commands.ExportDoneMsg:
			if msg.Err != nil {
				fmt.Fprintln(r.Out, ErrorStyle.Render("No se pudo exportar: "+msg.Err.Error()))
			} else {
				fmt.Fprintf(r.Out, "%s Conversación exportada a %s\n", RenderStatus(true), msg.Path)
			}
		case commands.CopyDoneMsg:
			if msg.Err != nil {
				fmt.Fprintln(r.Out, ErrorStyle.Render("No se pudo copiar: "+msg.Err.Error()))
			} else {
				fmt.Fprintf(r.Out, "%s Respuesta copiada al portapapeles.\n", RenderStatus(true))
			}
		case commands.LogoutMsg:
			if err := r.Backend.Logout(); err != nil {
				r.Log.Warn().Err(err).Msg("logout failed")
			}
			fmt.Fprintf(r.Out, "%s Sesión cerrada. ¡Vuelve pronto! 🍔\n", RenderStatus(true))
			return errSessionEnded
		case chat.SessionExpiredMsg:
			fmt.Fprintln(r.Out, WarningStyle.Render("Tu sesión expiró. Inicia sesión de nuevo con: perfburger login"))
			return ErrNotSignedIn

		default:
			queue = append(queue, s.engine.Update(msg))
		}
	}
	return nil
}

// flush prints assistant messages added since the last flush. The user's
// own lines are already on screen.
func (s *replSession) flush() {
	msgs := s.engine.Messages()
	start := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].ID == s.lastShown {
			start = i + 1
			break
		}
	}

	for _, msg := range msgs[start:] {
		if msg.Role == model.RoleUser {
			continue
		}
		label := TitleStyle.Render("PerfBurger") + " " + DimStyle.Render(msg.Timestamp.Local().Format("15:04"))
		fmt.Fprintln(s.runner.Out, label)
		fmt.Fprint(s.runner.Out, s.runner.renderMarkdown(msg.Content))
	}
	if len(msgs) > 0 {
		s.lastShown = msgs[len(msgs)-1].ID
	}
}
