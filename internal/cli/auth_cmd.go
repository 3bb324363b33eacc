// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout and whoami.
//
// Examples:
//   perfburger login                       Prompt for email and password
//   perfburger login --email ana@example.com
//   perfburger login --guest               Demo account (auth.allow_guest)
//   perfburger register
//   perfburger whoami --json

package cli

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/perfburger-tui/internal/auth"
	"github.com/jeranaias/perfburger-tui/internal/model"
)

// formError carries the message the form chose, keeping the backend error
// reachable for exit codes.
type formError struct {
	msg   string
	cause error
}

func (e *formError) Error() string { return e.msg }
func (e *formError) Unwrap() error { return e.cause }

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

func (r *Runner) login(args Args) error {
	if done := r.alreadySignedIn(); done {
		return nil
	}
	form := auth.NewForm(r.Backend)

	if args.Flags.BoolFlag("guest") {
		if r.Config == nil || !r.Config.Auth.AllowGuest {
			return &UsageError{
				Usage:  "perfburger login [--email EMAIL]",
				Reason: "el acceso como invitado está desactivado (auth.allow_guest)",
			}
		}
		return r.completeAuth(form, form.SubmitGuest(r.ctx()))
	}

	p := r.prompter()
	email := args.Flags.Flag("email", "e")
	if email == "" {
		var err error
		if email, err = p.Line("Email: "); err != nil {
			return err
		}
	}
	password, err := p.Secret("Contraseña: ")
	if err != nil {
		return err
	}

	form.SetFields(auth.Fields{Email: email, Password: password})
	return r.completeAuth(form, form.Submit(r.ctx()))
}

func (r *Runner) register(args Args) error {
	if done := r.alreadySignedIn(); done {
		return nil
	}
	form := auth.NewForm(r.Backend)
	form.SwitchMode(auth.ModeRegister)

	p := r.prompter()
	ask := func(flag, label string) (string, error) {
		if v := args.Flags.Flag(flag); v != "" {
			return v, nil
		}
		return p.Line(label)
	}

	var f auth.Fields
	var err error
	if f.FirstName, err = ask("first-name", "Nombre: "); err != nil {
		return err
	}
	if f.LastName, err = ask("last-name", "Apellido: "); err != nil {
		return err
	}
	if f.Email, err = ask("email", "Email: "); err != nil {
		return err
	}
	if f.Password, err = p.Secret("Contraseña: "); err != nil {
		return err
	}
	if f.ConfirmPassword, err = p.Secret("Confirmar contraseña: "); err != nil {
		return err
	}

	form.SetFields(f)
	return r.completeAuth(form, form.Submit(r.ctx()))
}

// completeAuth runs a form submission to completion.
func (r *Runner) completeAuth(form *auth.Form, submit tea.Cmd) error {
	command := form.Mode().String()
	if submit == nil {
		return &CommandError{Command: command, Err: &formError{msg: form.Error()}}
	}

	result, ok := submit().(auth.ResultMsg)
	if !ok {
		return &CommandError{Command: command, Err: errors.New("unexpected submission result")}
	}
	next := form.Update(result)
	if next == nil {
		return &CommandError{Command: command, Err: &formError{msg: form.Error(), cause: result.Err}}
	}

	msg, ok := next().(auth.AuthenticatedMsg)
	if !ok {
		return &CommandError{Command: command, Err: errors.New("unexpected authentication result")}
	}
	r.Log.Info().Str("user_id", msg.User.ID.String()).Str("mode", command).Msg("signed in from cli")

	name := msg.User.FirstName
	if name == "" {
		name = msg.User.FullName()
	}
	fmt.Fprintf(r.Out, "%s ¡Hola, %s! Sesión iniciada como %s\n",
		RenderStatus(true), name, msg.User.Email)
	return nil
}

func (r *Runner) alreadySignedIn() bool {
	if r.Session == nil || !r.Session.IsAuthenticated() {
		return false
	}
	user, ok := r.Session.User()
	if !ok {
		return false
	}
	fmt.Fprintf(r.Out, "Ya iniciaste sesión como %s. Usa %s para cambiar de cuenta.\n",
		user.Email, DimStyle.Render("perfburger logout"))
	return true
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

func (r *Runner) logout(_ Args) error {
	if r.Session == nil || !r.Session.IsAuthenticated() {
		fmt.Fprintln(r.Out, "No había ninguna sesión iniciada.")
		return nil
	}
	if err := r.Backend.Logout(); err != nil {
		return &CommandError{Command: "logout", Err: err}
	}
	fmt.Fprintf(r.Out, "%s Sesión cerrada. ¡Vuelve pronto! 🍔\n", RenderStatus(true))
	return nil
}

// whoamiInfo is the --json shape of whoami.
type whoamiInfo struct {
	User      model.User `json:"user"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (r *Runner) whoami(args Args) error {
	user, err := r.requireSession()
	if err != nil {
		if args.JSON {
			return r.writeJSON("whoami", nil, err)
		}
		return err
	}

	info := whoamiInfo{User: user}
	if exp, ok := r.Session.ExpiresAt(); ok {
		info.ExpiresAt = &exp
	}
	if args.JSON {
		return r.writeJSON("whoami", info, nil)
	}

	fmt.Fprintln(r.Out, TitleStyle.Render("🍔 PerfBurger"))
	fmt.Fprintln(r.Out, RenderField("Nombre", user.FullName()))
	fmt.Fprintln(r.Out, RenderField("Email", user.Email))
	fmt.Fprintln(r.Out, RenderField("ID", user.ID.String()))
	if info.ExpiresAt != nil {
		fmt.Fprintln(r.Out, RenderField("Expira", info.ExpiresAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}
