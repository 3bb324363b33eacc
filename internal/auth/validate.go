// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// User-facing validation messages, in evaluation order.
const (
	MsgRequired         = "Por favor completa todos los campos obligatorios"
	MsgInvalidEmail     = "Por favor ingresa un email válido (ejemplo: usuario@correo.com)"
	MsgPasswordShort    = "La contraseña debe tener al menos 6 caracteres"
	MsgNamesRequired    = "Por favor completa tu nombre y apellido"
	MsgFirstNameShort   = "El nombre debe tener al menos 2 caracteres"
	MsgLastNameShort    = "El apellido debe tener al menos 2 caracteres"
	MsgConfirmRequired  = "Por favor confirma tu contraseña"
	MsgPasswordMismatch = "Las contraseñas no coinciden. Por favor verifica que sean iguales."
	MsgPasswordWeak     = "Para mayor seguridad, la contraseña debe tener al menos 8 caracteres"
	MsgUnexpected       = "Ha ocurrido un error inesperado. Por favor intenta de nuevo."
)

// emailShape is deliberately loose: something@something.something, no spaces.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// rule is one check. Rules run in order and stop at the first failure.
type rule struct {
	registerOnly bool
	message      string
	check        func(v *validator.Validate, f Fields) error
}

var rules = []rule{
	{message: MsgRequired, check: func(v *validator.Validate, f Fields) error {
		if err := v.Var(f.Email, "required"); err != nil {
			return err
		}
		return v.Var(f.Password, "required")
	}},
	{message: MsgInvalidEmail, check: func(v *validator.Validate, f Fields) error {
		return v.Var(f.Email, "email_shape")
	}},
	{message: MsgPasswordShort, check: func(v *validator.Validate, f Fields) error {
		return v.Var(f.Password, "min=6")
	}},
	{registerOnly: true, message: MsgNamesRequired, check: func(v *validator.Validate, f Fields) error {
		if err := v.Var(f.FirstName, "required"); err != nil {
			return err
		}
		return v.Var(f.LastName, "required")
	}},
	{registerOnly: true, message: MsgFirstNameShort, check: func(v *validator.Validate, f Fields) error {
		return v.Var(f.FirstName, "min=2")
	}},
	{registerOnly: true, message: MsgLastNameShort, check: func(v *validator.Validate, f Fields) error {
		return v.Var(f.LastName, "min=2")
	}},
	{registerOnly: true, message: MsgConfirmRequired, check: func(v *validator.Validate, f Fields) error {
		return v.Var(f.ConfirmPassword, "required")
	}},
	{registerOnly: true, message: MsgPasswordMismatch, check: func(v *validator.Validate, f Fields) error {
		return v.VarWithValue(f.Password, f.ConfirmPassword, "eqfield")
	}},
	{registerOnly: true, message: MsgPasswordWeak, check: func(v *validator.Validate, f Fields) error {
		return v.Var(f.Password, "min=8")
	}},
}

// newValidator returns a validator with the email_shape tag registered.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// validate returns the first failing rule's message, or "" when f is valid.
// String lengths are counted in characters.
func validate(v *validator.Validate, mode Mode, f Fields) string {
	for _, r := range rules {
		if r.registerOnly && mode != ModeRegister {
			continue
		}
		if err := r.check(v, f); err != nil {
			return r.message
		}
	}
	return ""
}
