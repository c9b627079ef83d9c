package shell

import (
	"sort"
	"sync"
)

// Registry maps command names to handlers. Re-registration overwrites
// silently, which is what lets callers override or extend built-ins.
type Registry struct {
	commands sync.Map
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds or replaces a command.
func (r *Registry) Register(cmd *Command) {
	if cmd == nil || cmd.Name == "" {
		return
	}
	r.commands.Store(cmd.Name, cmd)
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (*Command, bool) {
	val, ok := r.commands.Load(name)
	if !ok {
		return nil, false
	}
	return val.(*Command), true
}

// Names returns all registered command names in sorted order.
func (r *Registry) Names() []string {
	var names []string
	r.commands.Range(func(key, _ interface{}) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}
