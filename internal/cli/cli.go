// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing and usage text for perfburger.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdOrder
	CmdOrders
	CmdHealth
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// boolFlagNames never consume the following argument.
var boolFlagNames = []string{
	"quiet", "q", "verbose", "v", "json", "guest", "force", "help", "h", "version",
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	APIURL  string
	Theme   string

	// Name is the command word as typed.
	Name string

	// Subcommand is the first argument after the command, e.g. "lookup"
	// in "order lookup PB123456".
	Subcommand string

	// Positional holds every argument after the command word.
	Positional []string

	// Flags gives access to command-specific flags such as --email.
	Flags *ArgParser
}

const usageText = `perfburger - pide tu burger desde la terminal

Uso:
  perfburger                       Abre la interfaz interactiva (por defecto)
  perfburger tui                   Igual que sin argumentos
  perfburger chat                  Chat en modo texto (historial con flechas)
  perfburger login                 Inicia sesión
    --email EMAIL                  Email (si no, se pregunta)
    --guest                        Entra con una cuenta de invitado
  perfburger register              Crea una cuenta
  perfburger logout                Cierra la sesión guardada
  perfburger whoami                Muestra la sesión actual
  perfburger order lookup <id>     Consulta un pedido (ej. PB123456)
  perfburger order <id>            Atajo de "order lookup"
  perfburger orders                Lista tus pedidos
  perfburger health                Comprueba el backend (alias: status, s)
  perfburger config [show|path|init|get|set]
                                   Configuración
    config get <clave>             Lee un valor (ej. api.base_url)
    config set <clave> <valor>     Guarda un valor en config.toml
    config init [--force]          Escribe la configuración por defecto
  perfburger version               Muestra la versión
  perfburger help                  Muestra esta ayuda

Opciones globales:
  --api-url URL    Backend a usar (por defecto http://localhost:8000)
  --theme NAME     auto, dark o light
  --json           Salida JSON (order, orders, health, whoami, config)
  -q, --quiet      Salida mínima
  -v, --verbose    Registro detallado

Dentro del chat:
  /order, /lookup <id>, /orders, /sessions, /resume <id>, /clear,
  /export [ruta] [md|json], /copy, /help, /logout, /quit

Configuración: ~/.perfburger/config.toml (PERFBURGER_HOME para cambiarla).
Variables de entorno: PERFBURGER_API_URL, PERFBURGER_LOG_LEVEL, PERFBURGER_STORAGE, ...

Versión: %s
`

// PrintUsage writes the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "perfburger version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses command-line arguments (without the program name) and
// returns the command and its args.
func Parse(argv []string) (Command, Args) {
	p := NewArgParser(argv, boolFlagNames...)
	args := Args{
		Quiet:   p.BoolFlag("quiet", "q"),
		Verbose: p.BoolFlag("verbose", "v"),
		JSON:    p.BoolFlag("json"),
		APIURL:  p.Flag("api-url"),
		Theme:   p.Flag("theme"),
		Flags:   p,
	}

	if p.BoolFlag("version") {
		return CmdVersion, args
	}
	if p.BoolFlag("help", "h") {
		return CmdHelp, args
	}

	args.Name = strings.ToLower(p.Subcommand())
	args.Positional = p.PositionalFrom(1)
	if len(args.Positional) > 0 {
		args.Subcommand = strings.ToLower(args.Positional[0])
	}

	switch args.Name {
	case "", "tui":
		return CmdTUI, args
	case "chat":
		return CmdChat, args
	case "login", "signin":
		return CmdLogin, args
	case "register", "signup":
		return CmdRegister, args
	case "logout", "signout":
		return CmdLogout, args
	case "whoami", "me":
		return CmdWhoami, args
	case "order", "pedido":
		return CmdOrder, args
	case "orders", "pedidos":
		return CmdOrders, args
	case "health", "status", "s":
		return CmdHealth, args
	case "config":
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		return CmdUnknown, args
	}
}
