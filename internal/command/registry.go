// Package command provides the command and menu registries the workbench
// contribution surface registers into: commands are invocable by id, and
// menu items expose them in the command palette.
package command

import (
	"context"
	"fmt"
	"sync"
)

// Handler executes a registered command.
type Handler func(ctx context.Context) error

// Command is an invocable workbench command.
type Command struct {
	ID      string
	Title   string
	Handler Handler
}

// MenuItem is a command-palette entry pointing at a registered command.
type MenuItem struct {
	CommandID string
	Title     string
	Category  string
}

// Registry holds registered commands and palette menu items.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	menu     []MenuItem
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command. Registering a duplicate id is an error.
func (r *Registry) Register(cmd Command) error {
	if cmd.ID == "" {
		return fmt.Errorf("command id must not be empty")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("command %q has no handler", cmd.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[cmd.ID]; exists {
		return fmt.Errorf("command %q already registered", cmd.ID)
	}
	r.commands[cmd.ID] = cmd
	return nil
}

// AddMenuItem appends a command-palette entry.
func (r *Registry) AddMenuItem(item MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[item.CommandID]; !exists {
		return fmt.Errorf("menu item references unregistered command %q", item.CommandID)
	}
	r.menu = append(r.menu, item)
	return nil
}

// Lookup returns a registered command by id.
func (r *Registry) Lookup(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// Execute dispatches a command by id.
func (r *Registry) Execute(ctx context.Context, id string) error {
	cmd, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown command %q", id)
	}
	return cmd.Handler(ctx)
}

// MenuItems returns the registered palette entries in registration order.
func (r *Registry) MenuItems() []MenuItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]MenuItem, len(r.menu))
	copy(items, r.menu)
	return items
}
