package benchmark

import "github.com/benchwrap/benchwrap/internal/registry"

// tools is the process-wide benchmark-tool registry. It is populated by
// plugin init functions and read-only once main starts.
var tools = registry.New[Factory]("tool")

// Register adds a tool factory under the given name.
func Register(name string, factory Factory) error {
	return tools.Register(name, factory)
}

// MustRegister registers a tool factory from a plugin init function,
// halting the program at load time on a missing or duplicate name.
func MustRegister(name string, factory Factory) {
	tools.MustRegister(name, factory)
}

// Lookup retrieves a tool factory by name.
func Lookup(name string) (Factory, bool) {
	return tools.Lookup(name)
}

// Names returns all registered tool names, sorted.
func Names() []string {
	return tools.Names()
}
