// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/perfburger-tui/internal/auth"
)

// =============================================================================
// AUTH FORM INPUTS
// =============================================================================

type fieldID int

const (
	fieldFirstName fieldID = iota
	fieldLastName
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldFirstName: "Nombre",
	fieldLastName:  "Apellido",
	fieldEmail:     "Email",
	fieldPassword:  "Contraseña",
	fieldConfirm:   "Confirmar contraseña",
}

var (
	loginFields    = []fieldID{fieldEmail, fieldPassword}
	registerFields = []fieldID{fieldFirstName, fieldLastName, fieldEmail, fieldPassword, fieldConfirm}
)

// formInputs holds one text input per field; which are shown depends on
// the form mode.
type formInputs struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newFormInputs() formInputs {
	var f formInputs
	placeholders := [fieldCount]string{
		fieldFirstName: "Ana",
		fieldLastName:  "Ruiz",
		fieldEmail:     "tu@email.com",
		fieldPassword:  "••••••",
		fieldConfirm:   "••••••",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		in.Prompt = ""
		if fieldID(i) == fieldPassword || fieldID(i) == fieldConfirm {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
	}
	return f
}

func visibleFields(mode auth.Mode) []fieldID {
	if mode == auth.ModeRegister {
		return registerFields
	}
	return loginFields
}

// values collects the inputs into auth.Fields.
func (f *formInputs) values() auth.Fields {
	return auth.Fields{
		Email:           f.inputs[fieldEmail].Value(),
		Password:        f.inputs[fieldPassword].Value(),
		FirstName:       f.inputs[fieldFirstName].Value(),
		LastName:        f.inputs[fieldLastName].Value(),
		ConfirmPassword: f.inputs[fieldConfirm].Value(),
	}
}

// reset empties every input and focuses the first visible one.
func (f *formInputs) reset(mode auth.Mode) tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.focus = 0
	return f.applyFocus(mode)
}

func (f *formInputs) focused(mode auth.Mode) fieldID {
	fields := visibleFields(mode)
	if f.focus >= len(fields) {
		f.focus = len(fields) - 1
	}
	return fields[f.focus]
}

func (f *formInputs) move(mode auth.Mode, delta int) tea.Cmd {
	n := len(visibleFields(mode))
	f.focus = (f.focus + delta + n) % n
	return f.applyFocus(mode)
}

func (f *formInputs) applyFocus(mode auth.Mode) tea.Cmd {
	active := f.focused(mode)
	var cmd tea.Cmd
	for i := range f.inputs {
		if fieldID(i) == active {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// update forwards a message to the focused input.
func (f *formInputs) update(mode auth.Mode, msg tea.Msg) tea.Cmd {
	id := f.focused(mode)
	var cmd tea.Cmd
	f.inputs[id], cmd = f.inputs[id].Update(msg)
	return cmd
}

// isLast reports whether the focused input is the last one shown.
func (f *formInputs) isLast(mode auth.Mode) bool {
	return f.focus == len(visibleFields(mode))-1
}
