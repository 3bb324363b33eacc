// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for perfburger commands.
//
// Commands always return errors and never print-and-swallow them. The
// caller renders the error once and maps it to an exit code.

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/perfburger-tui/internal/api"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates missing or rejected credentials
	ExitAuthError = 4
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrNotSignedIn is returned by commands that need a stored session.
var ErrNotSignedIn = errors.New("no has iniciado sesión; usa: perfburger login")

// UsageError reports a malformed command line.
type UsageError struct {
	Usage  string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s\nUso: %s", e.Reason, e.Usage)
	}
	return "Uso: " + e.Usage
}

// CommandError represents a failed command with context.
type CommandError struct {
	Command string // e.g. "order"
	Action  string // e.g. "lookup"
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ConfigError wraps a failure to read or write configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuración: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ReportedError marks an error the command already showed to the user.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// ShouldPrint reports whether the caller still needs to show err.
func ShouldPrint(err error) bool {
	var reported *ReportedError
	return err != nil && !errors.As(err, &reported)
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, ErrNotSignedIn):
		return ExitAuthError
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindUnauthorized:
			return ExitAuthError
		case api.KindNetwork:
			return ExitNetworkError
		case api.KindNotFound:
			return ExitNotFoundError
		}
	}
	return ExitGeneralError
}

// UserMessage picks the text shown for err. Backend errors carry a
// customer-facing message.
func UserMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
