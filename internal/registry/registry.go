// Package registry implements the named-factory registry that backs plugin
// dispatch. The same mechanism is instantiated twice, once for benchmark
// tools and once for collectors; the two instances never interact.
//
// Registration happens during package init of each plugin, before main runs,
// so by the time a lookup is possible every plugin is either registered or
// the program has already refused to start.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/benchwrap/benchwrap/internal/core"
)

// Registry maps unique plugin names to factories of type T. Entries are
// write-once: a name is either absent or registered, never updated or
// removed.
type Registry[T any] struct {
	kind   string
	mu     sync.RWMutex
	byName map[string]T
}

// New creates an empty registry. The kind label ("tool", "collector") only
// appears in error messages.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:   kind,
		byName: make(map[string]T),
	}
}

// Register adds a factory under the given name.
//
// An empty name is a programming error in the plugin and is rejected with
// core.ErrMissingName. Registering a name twice is rejected with
// core.ErrDuplicateName and leaves the first registration intact.
func (r *Registry[T]) Register(name string, factory T) error {
	if name == "" {
		return core.WrapError(core.ErrMissingName, fmt.Errorf("registering %s plugin", r.kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return core.WrapError(core.ErrDuplicateName, fmt.Errorf("%s %q", r.kind, name))
	}

	r.byName[name] = factory
	return nil
}

// MustRegister is Register for use from plugin init functions: a bad
// registration halts the program at load time, before the plugin is usable.
func (r *Registry[T]) MustRegister(name string, factory T) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under name. Absence is a normal
// outcome the caller handles; the registry never guesses.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.byName[name]
	return factory, ok
}

// Names returns all registered names, sorted for stable help text.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
