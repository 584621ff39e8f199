package collector

import "github.com/benchwrap/benchwrap/internal/registry"

// collectors is the process-wide collector registry, independent of the
// benchmark-tool registry.
var collectors = registry.New[Factory]("collector")

// Register adds a collector factory under the given name.
func Register(name string, factory Factory) error {
	return collectors.Register(name, factory)
}

// MustRegister registers a collector factory from a plugin init function,
// halting the program at load time on a missing or duplicate name.
func MustRegister(name string, factory Factory) {
	collectors.MustRegister(name, factory)
}

// Lookup retrieves a collector factory by name.
func Lookup(name string) (Factory, bool) {
	return collectors.Lookup(name)
}

// Names returns all registered collector names, sorted.
func Names() []string {
	return collectors.Names()
}
