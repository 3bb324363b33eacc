// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login/register form state machine.
//
// The form validates locally before any network call, then hands the
// request to an Authenticator inside a tea.Cmd. The result comes back as a
// ResultMsg that the owner feeds to Update.
package auth

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/model"
	"github.com/jeranaias/perfburger-tui/internal/util"
)

// =============================================================================
// TYPES
// =============================================================================

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// State is where the form is in its lifecycle.
type State int

const (
	// StateAnonymous is the idle form with no error showing.
	StateAnonymous State = iota
	// StateSubmitting means a request is in flight.
	StateSubmitting
	// StateError is the idle form showing an error.
	StateError
	// StateAuthenticated means the last submission succeeded.
	StateAuthenticated
)

// Fields are the form inputs. Login uses only Email and Password.
type Fields struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	ConfirmPassword string
}

// normalized returns f with Unicode composed, so lengths count what the
// customer sees. Names also lose surrounding whitespace. The email is checked
// as typed, so padding fails the email shape. Passwords are taken verbatim.
func (f Fields) normalized() Fields {
	return Fields{
		Email:           util.Compose(f.Email),
		Password:        f.Password,
		FirstName:       util.NormalizeText(f.FirstName),
		LastName:        util.NormalizeText(f.LastName),
		ConfirmPassword: f.ConfirmPassword,
	}
}

// Authenticator performs the backend calls. *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (*model.AuthResult, error)
	CreateAnonymousUser(ctx context.Context) (*model.AuthResult, error)
}

// ResultMsg carries the outcome of a submission back to the form.
type ResultMsg struct {
	seq    int
	Result *model.AuthResult
	Err    error
}

// AuthenticatedMsg is emitted once a submission succeeds.
type AuthenticatedMsg struct {
	User model.User
}

// =============================================================================
// FORM
// =============================================================================

// Form is the authentication form. It is not safe for concurrent use; the
// Bubble Tea update loop owns it.
type Form struct {
	mode     Mode
	state    State
	fields   Fields
	err      string
	seq      int
	auth     Authenticator
	validate *validator.Validate
}

// NewForm returns an empty login form.
func NewForm(auth Authenticator) *Form {
	return &Form{
		auth:     auth,
		validate: newValidator(),
	}
}

// Mode returns the current mode.
func (f *Form) Mode() Mode { return f.mode }

// State returns the current state.
func (f *Form) State() State { return f.state }

// Fields returns the current input values.
func (f *Form) Fields() Fields { return f.fields }

// Error returns the message to display, or "".
func (f *Form) Error() string { return f.err }

// Submitting reports whether a request is in flight.
func (f *Form) Submitting() bool { return f.state == StateSubmitting }

// SetFields replaces the inputs. Editing dismisses a visible error.
func (f *Form) SetFields(fields Fields) {
	if fields != f.fields && f.state == StateError {
		f.err = ""
		f.state = StateAnonymous
	}
	f.fields = fields
}

// SwitchMode changes mode and resets every field and the error.
func (f *Form) SwitchMode(mode Mode) {
	f.mode = mode
	f.reset()
}

// Toggle flips between login and register.
func (f *Form) Toggle() {
	if f.mode == ModeLogin {
		f.SwitchMode(ModeRegister)
	} else {
		f.SwitchMode(ModeLogin)
	}
}

// Validate checks the inputs for the current mode and returns the first
// failure's message, or "".
func (f *Form) Validate() string {
	return validate(f.validate, f.mode, f.fields.normalized())
}

// Submit validates and, if the inputs pass, returns a command that calls the
// backend. On validation failure it records the message and returns nil so
// no request is made.
func (f *Form) Submit(ctx context.Context) tea.Cmd {
	if f.state == StateSubmitting {
		return nil
	}
	f.err = ""
	if msg := f.Validate(); msg != "" {
		f.err = msg
		f.state = StateError
		return nil
	}

	f.state = StateSubmitting
	f.seq++
	seq, mode, in, auth := f.seq, f.mode, f.fields.normalized(), f.auth

	return func() tea.Msg {
		var res *model.AuthResult
		var err error
		if mode == ModeRegister {
			res, err = auth.Register(ctx, in.Email, in.Password, in.FirstName, in.LastName)
		} else {
			res, err = auth.Login(ctx, in.Email, in.Password)
		}
		return ResultMsg{seq: seq, Result: res, Err: err}
	}
}

// SubmitGuest signs in as a throwaway demo account.
func (f *Form) SubmitGuest(ctx context.Context) tea.Cmd {
	if f.state == StateSubmitting {
		return nil
	}
	f.err = ""
	f.state = StateSubmitting
	f.seq++
	seq, auth := f.seq, f.auth
	return func() tea.Msg {
		res, err := auth.CreateAnonymousUser(ctx)
		return ResultMsg{seq: seq, Result: res, Err: err}
	}
}

// Update applies a submission result. Results from a submission that was
// superseded by SwitchMode are ignored. On success it clears the form and
// returns a command emitting AuthenticatedMsg.
func (f *Form) Update(msg ResultMsg) tea.Cmd {
	if msg.seq != f.seq || f.state != StateSubmitting {
		return nil
	}
	if msg.Err != nil || msg.Result == nil {
		f.state = StateError
		f.err = errorMessage(msg.Err)
		return nil
	}

	user := msg.Result.User
	f.reset()
	f.state = StateAuthenticated
	return func() tea.Msg { return AuthenticatedMsg{User: user} }
}

// Reopen returns an authenticated form to the idle login state, e.g. after
// logout.
func (f *Form) Reopen() {
	f.mode = ModeLogin
	f.reset()
}

func (f *Form) reset() {
	f.fields = Fields{}
	f.err = ""
	f.state = StateAnonymous
	f.seq++
}

// errorMessage picks the text shown for a failed submission.
func errorMessage(err error) string {
	apiErr := api.AsError(err)
	if apiErr == nil || strings.TrimSpace(apiErr.Message) == "" {
		return MsgUnexpected
	}
	return apiErr.Message
}
