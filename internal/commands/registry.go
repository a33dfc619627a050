package commands

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered commands, keyed by primary name with a separate
// alias index.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds c. Names and aliases share one namespace; a clash with
// either is an error and leaves the registry unchanged.
func (r *Registry) Register(c Command) error {
	name := c.Name()
	if name == "" {
		return errors.New("command has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range append([]string{name}, c.Aliases()...) {
		if r.taken(n) {
			return fmt.Errorf("command already registered: %s", n)
		}
	}
	r.byName[name] = c
	for _, a := range c.Aliases() {
		r.aliases[a] = name
	}
	return nil
}

func (r *Registry) taken(n string) bool {
	_, cmd := r.byName[n]
	_, alias := r.aliases[n]
	return cmd || alias
}

// Find resolves a primary name or an alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if primary, ok := r.aliases[name]; ok {
		name = primary
	}
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns every command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// DefaultRegistry is the registry every command adds itself to from init.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry. Clashes are programmer
// errors and panic at startup.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
