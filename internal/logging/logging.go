// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the process-wide structured logger backed by zerolog.
//
// Initialize once at startup with Init, then retrieve with Get. Components
// should take a zerolog.Logger at construction rather than calling Get
// themselves, so tests can inject zerolog.Nop().
//
// The terminal UI owns stdout, so the default sink is a log file under the
// config directory rather than the console.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behavior at initialization time.
type Options struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	// Unknown or empty values mean info.
	Level string

	// Pretty switches to zerolog's human-readable console format.
	Pretty bool

	// Output is where records go. When nil, Path is opened instead.
	Output io.Writer

	// Path is the log file used when Output is nil. Empty discards logs.
	Path string
}

var (
	mu          sync.Mutex
	instance    = zerolog.Nop()
	closer      io.Closer
	initialized bool
)

// Init builds the singleton logger. Only the first call has any effect until
// Reset is called.
func Init(opts Options) (zerolog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return instance, nil
	}

	out := opts.Output
	if out == nil {
		if opts.Path == "" {
			out = io.Discard
		} else {
			f, err := openLogFile(opts.Path)
			if err != nil {
				return zerolog.Nop(), err
			}
			out = f
			closer = f
		}
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl := ParseLevel(opts.Level)

	instance = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "perfburger").
		Logger()
	initialized = true
	return instance, nil
}

// Get returns the singleton logger. Before Init it returns a no-op logger.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// Close releases the log file, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// Reset tears down the singleton so the next Init rebuilds it.
// Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	instance = zerolog.Nop()
	initialized = false
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func openLogFile(path string) (*os.File, error) {
	// SECURITY: Log directory and file are owner-only.
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
