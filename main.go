// perfburger - Order burgers from the terminal by chatting with PerfBurger.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/perfburger-tui/internal/api"
	"github.com/jeranaias/perfburger-tui/internal/cli"
	"github.com/jeranaias/perfburger-tui/internal/config"
	"github.com/jeranaias/perfburger-tui/internal/credentials"
	"github.com/jeranaias/perfburger-tui/internal/logging"
	"github.com/jeranaias/perfburger-tui/internal/storage"
	"github.com/jeranaias/perfburger-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires the application and returns the process exit code.
func run(argv []string) int {
	cmd, args := cli.Parse(argv)

	// version and help need nothing else
	if cmd == cli.CmdVersion || cmd == cli.CmdHelp {
		runner := &cli.Runner{Out: os.Stdout, Err: os.Stderr}
		return report(runner.Run(cmd, args))
	}

	// ==========================================================================
	// Configuration
	// ==========================================================================
	configDir, err := config.ConfigDir()
	if err != nil {
		return report(&cli.ConfigError{Err: err})
	}
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return report(&cli.ConfigError{Err: err})
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return report(&cli.ConfigError{Err: err})
	}

	// ==========================================================================
	// Logging
	// ==========================================================================
	log, err := logging.Init(logging.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		// RELIABILITY: A broken log file must not block ordering
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.WarningStyle.Render("No se pudo abrir el log:"), err)
		log = zerolog.Nop()
	}
	defer logging.Close()
	log.Debug().Str("version", Version).Str("api", cfg.API.BaseURL).
		Str("storage", cfg.Storage.Backend).Msg("starting")

	// ==========================================================================
	// Credentials and backend client
	// ==========================================================================
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return report(&cli.ConfigError{Err: err})
	}
	defer store.Close()

	creds := credentials.New(store, credentials.WithLogger(log))
	if _, err := creds.Restore(); err != nil {
		log.Warn().Err(err).Msg("stored session could not be restored")
	}

	client := api.New(cfg.API.BaseURL, creds,
		api.WithTimeout(cfg.Timeout()),
		api.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		api.WithLogger(log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTUI {
		return report(runTUI(ctx, cfg, client, creds, log))
	}

	runner := &cli.Runner{
		Config:    cfg,
		ConfigDir: configDir,
		Backend:   client,
		Session:   creds,
		Out:       os.Stdout,
		Err:       os.Stderr,
		Log:       log,
		Context:   ctx,
	}
	return report(runner.Run(cmd, args))
}

// runTUI starts the full-screen interface.
func runTUI(ctx context.Context, cfg *config.Config, client *api.Client, creds *credentials.Store, log zerolog.Logger) error {
	m := app.New(app.Options{
		Backend:      client,
		Session:      creds,
		AllowGuest:   cfg.Auth.AllowGuest,
		WelcomeDelay: cfg.WelcomeDelay(),
		Theme:        cfg.UI.Theme,
		WordWrap:     cfg.UI.WordWrap,
		Logger:       log,
		Context:      ctx,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// The store notifies synchronously, possibly from inside Update, so the
	// message is delivered from its own goroutine.
	unsubscribe := creds.OnChange(func(authenticated bool) {
		if !authenticated {
			go p.Send(app.CredentialsClearedMsg{})
		}
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("la interfaz terminó con un error: %w", err)
	}
	return nil
}

// report prints err once and maps it to an exit code.
func report(err error) int {
	if cli.ShouldPrint(err) {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render(cli.UserMessage(err)))
	}
	return cli.ExitCode(err)
}
