// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show the configuration file path
//   init [--force]      Write the default configuration file
//   get <key>           Print one value
//   set <key> <value>   Persist one value to config.toml
//
// Examples:
//   perfburger config
//   perfburger config show --json
//   perfburger config set api.base_url https://api.perfburger.example
//   perfburger config set auth.allow_guest true

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/perfburger-tui/internal/config"
)

func (r *Runner) config(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return r.configShow(args)
	case "path":
		fmt.Fprintln(r.Out, config.ConfigPath(r.ConfigDir))
		return nil
	case "init":
		return r.configInit(args)
	case "get":
		return r.configGet(args)
	case "set":
		return r.configSet(args)
	default:
		return &UsageError{
			Usage:  "perfburger config [show|path|init|get|set]",
			Reason: "subcomando desconocido: " + args.Subcommand,
		}
	}
}

func (r *Runner) configShow(args Args) error {
	cfg := r.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if args.JSON {
		return r.writeJSON("config", cfg, nil)
	}

	fmt.Fprintln(r.Out, TitleStyle.Render("Configuración"))
	fmt.Fprintln(r.Out, DimStyle.Render(config.ConfigPath(r.ConfigDir)))
	fmt.Fprintln(r.Out)
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Fprintln(r.Out, LabelStyle.Width(26).Render(key)+ValueStyle.Render(fmt.Sprint(value)))
	}
	return nil
}

func (r *Runner) configInit(args Args) error {
	path := config.ConfigPath(r.ConfigDir)
	if _, err := os.Stat(path); err == nil && !args.Flags.BoolFlag("force") {
		return &UsageError{
			Usage:  "perfburger config init --force",
			Reason: "ya existe " + path,
		}
	}
	if err := os.MkdirAll(r.ConfigDir, 0700); err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.Save(config.Default(), r.ConfigDir); err != nil {
		return &ConfigError{Err: err}
	}
	fmt.Fprintf(r.Out, "%s Configuración escrita en %s\n", RenderStatus(true), path)
	return nil
}

func (r *Runner) configGet(args Args) error {
	if len(args.Positional) < 2 {
		return &UsageError{Usage: "perfburger config get <clave>"}
	}
	cfg := r.Config
	if cfg == nil {
		cfg = config.Default()
	}
	value, err := cfg.Get(args.Positional[1])
	if err != nil {
		return &UsageError{Usage: "perfburger config get <clave>", Reason: err.Error()}
	}
	if args.JSON {
		return r.writeJSON("config", map[string]interface{}{args.Positional[1]: value}, nil)
	}
	fmt.Fprintln(r.Out, value)
	return nil
}

// configSet edits the file only, so environment overrides in effect for
// this process are not written back.
func (r *Runner) configSet(args Args) error {
	if len(args.Positional) < 3 {
		return &UsageError{Usage: "perfburger config set <clave> <valor>"}
	}
	key, value := args.Positional[1], args.Positional[2]

	cfg := config.Default()
	path := config.ConfigPath(r.ConfigDir)
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return &ConfigError{Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &ConfigError{Err: err}
	}

	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Usage: "perfburger config set <clave> <valor>", Reason: err.Error()}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	if err := os.MkdirAll(r.ConfigDir, 0700); err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.Save(cfg, r.ConfigDir); err != nil {
		return &ConfigError{Err: err}
	}
	fmt.Fprintf(r.Out, "%s %s = %s\n", RenderStatus(true), key, value)
	return nil
}
