// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// Kind classifies a failure.
type Kind int

const (
	// KindUnexpected is anything that fits no other kind.
	KindUnexpected Kind = iota
	// KindValidation is local input rejected before any network call, or 422.
	KindValidation
	// KindUnauthorized is HTTP 401. The session has been cleared.
	KindUnauthorized
	// KindConflict is HTTP 409, a duplicate account.
	KindConflict
	// KindBadRequest is HTTP 400.
	KindBadRequest
	// KindNotFound is HTTP 404.
	KindNotFound
	// KindServer is HTTP 5xx.
	KindServer
	// KindNetwork means no response was received.
	KindNetwork
)

var kindCodes = map[Kind]string{
	KindUnexpected:   "unexpected_error",
	KindValidation:   "validation_error",
	KindUnauthorized: "unauthorized",
	KindConflict:     "conflict",
	KindBadRequest:   "bad_request",
	KindNotFound:     "not_found",
	KindServer:       "server_error",
	KindNetwork:      "network_error",
}

// kindMessages are the user-facing templates, one per kind.
var kindMessages = map[Kind]string{
	KindUnexpected:   "Ha ocurrido un error inesperado. Por favor intenta de nuevo.",
	KindValidation:   "Algunos datos no son válidos. Por favor revisa la información e intenta de nuevo.",
	KindUnauthorized: "Email o contraseña incorrectos, o tu sesión expiró. Por favor inicia sesión de nuevo.",
	KindConflict:     "Ya existe una cuenta con este email. Intenta iniciar sesión.",
	KindBadRequest:   "La solicitud no es válida. Por favor revisa los datos ingresados.",
	KindNotFound:     "No encontramos lo que buscabas.",
	KindServer:       "Error del servidor. Por favor intenta de nuevo más tarde.",
	KindNetwork:      "No se pudo conectar con el servidor. Verifica tu conexión e intenta de nuevo.",
}

// String returns the short error code for the kind.
func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindUnexpected]
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is the uniform failure shape returned by every Client method.
type Error struct {
	Kind Kind
	// Code is the short machine code, e.g. "conflict".
	Code string
	// Message is safe to show to the customer.
	Message string
	// Status is the HTTP status, or 0 when no response was received.
	Status int
	// Detail is the server's own error text, if any. Not localized.
	Detail string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(" [")
		b.WriteString(e.Detail)
		b.WriteString("]")
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, status int, detail string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Code:    kind.String(),
		Message: kindMessages[kind],
		Status:  status,
		Detail:  detail,
		Err:     cause,
	}
}

// Sentinel causes for local validation failures.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrEmptyMessage       = errors.New("message is required")
	ErrMissingSession     = errors.New("session id is required")
	ErrMissingOrderID     = errors.New("order id is required")
)

func validationError(cause error) *Error {
	return newError(KindValidation, 0, cause.Error(), cause)
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// errorBody is the backend's error document: {"error", "message", "details"}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// kindForStatus maps an HTTP status to a Kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindUnexpected
	}
}

// normalize turns a transport failure or a non-2xx response into *Error.
func normalize(status int, body []byte, transportErr error) *Error {
	if transportErr != nil {
		return newError(KindNetwork, 0, transportErr.Error(), transportErr)
	}
	return newError(kindForStatus(status), status, extractDetail(body), nil)
}

// extractDetail pulls the most specific server text out of an error body.
func extractDetail(body []byte) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, s := range []string{eb.Error, eb.Message} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	switch d := eb.Details.(type) {
	case string:
		if d != "" {
			parts = append(parts, d)
		}
	case nil:
	default:
		if raw, err := json.Marshal(d); err == nil {
			parts = append(parts, string(raw))
		}
	}
	return strings.Join(parts, ": ")
}

// AsError converts any error into *Error. Non-API errors become
// KindUnexpected so the caller always has a displayable message.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return newError(KindUnexpected, 0, err.Error(), err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
