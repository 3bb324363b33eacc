// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/lookup <id>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString  ArgType = iota // Free-form string
	ArgTypeSession                // Chat session id
	ArgTypeOrder                  // Order id
	ArgTypeFile                   // File path
	ArgTypeEnum                   // One of predefined values
)

// Category names, in help order.
const (
	CategoryOrders  = "Pedidos"
	CategoryChat    = "Conversación"
	CategoryGeneral = "General"
)

var categoryOrder = []string{CategoryOrders, CategoryChat, CategoryGeneral}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = CategoryGeneral
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Orders
	r.Register(&Command{
		Name:        "/order",
		Aliases:     []string{"/pedir"},
		Description: "Crear un pedido a partir de la conversación",
		Category:    CategoryOrders,
		Handler:     handleOrder,
	})

	r.Register(&Command{
		Name:        "/lookup",
		Aliases:     []string{"/pedido", "/l"},
		Description: "Consultar un pedido por número",
		Usage:       "/lookup <PB123456>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeOrder, Description: "número de pedido, p. ej. PB123456"},
		},
		Category: CategoryOrders,
		Handler:  handleLookup,
	})

	r.Register(&Command{
		Name:        "/orders",
		Aliases:     []string{"/pedidos"},
		Description: "Ver tus pedidos",
		Category:    CategoryOrders,
		Handler:     handleOrders,
	})

	// Conversation
	r.Register(&Command{
		Name:        "/sessions",
		Aliases:     []string{"/historial"},
		Description: "Ver tus conversaciones anteriores",
		Category:    CategoryChat,
		Handler:     handleSessions,
	})

	r.Register(&Command{
		Name:        "/resume",
		Aliases:     []string{"/r"},
		Description: "Continuar una conversación anterior",
		Usage:       "/resume <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeSession, Description: "id de la conversación"},
		},
		Category: CategoryChat,
		Handler:  handleResume,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c", "/nuevo"},
		Description: "Borrar la conversación y empezar de nuevo",
		Category:    CategoryChat,
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/export",
		Aliases:     []string{"/e"},
		Description: "Guardar la conversación en un archivo",
		Usage:       "/export [ruta] [md|json]",
		Args: []ArgDef{
			{Name: "path", Type: ArgTypeFile, Description: "archivo o carpeta de destino"},
			{Name: "format", Type: ArgTypeEnum, Values: []string{"md", "json"}, Description: "formato"},
		},
		Category: CategoryChat,
		Handler:  handleExport,
	})

	r.Register(&Command{
		Name:        "/copy",
		Description: "Copiar la última respuesta al portapapeles",
		Category:    CategoryChat,
		Handler:     handleCopy,
	})

	// General
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?", "/ayuda"},
		Description: "Mostrar los comandos disponibles",
		Category:    CategoryGeneral,
		Handler:     handleHelp,
	})

	r.Register(&Command{
		Name:        "/logout",
		Aliases:     []string{"/salir"},
		Description: "Cerrar sesión",
		Category:    CategoryGeneral,
		Handler:     handleLogout,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Salir de PerfBurger",
		Category:    CategoryGeneral,
		Handler:     handleQuit,
	})
}
