package benchmark

import (
	"context"
	"time"

	"github.com/benchwrap/benchwrap/internal/core"
	"go.uber.org/zap"
)

// Config holds the settings one benchmark instance runs with.
type Config struct {
	Run     core.RunInfo
	Samples int
	Retries int
	Timeout time.Duration
	Params  map[string]any
}

// StringParam reads a string parameter, with ok reporting presence.
func (c Config) StringParam(key string) (string, bool) {
	v, ok := c.Params[key].(string)
	return v, ok
}

// Benchmark defines the interface for wrapped benchmark tools.
type Benchmark interface {
	// Name returns the unique tool name this benchmark registered under
	Name() string

	// Setup verifies the tool is ready to run (workload files, binaries)
	Setup(ctx context.Context) error

	// Collect runs one sample of the benchmark and returns its result
	// documents, tagged with the 1-based sample number
	Collect(ctx context.Context, sample int) ([]core.Result, error)

	// Cleanup releases whatever Setup and Collect left behind
	Cleanup() error
}

// Factory builds a benchmark instance from its config. Plugins register a
// Factory, not an instance, so every run starts from fresh state.
type Factory func(cfg Config, log *zap.Logger) (Benchmark, error)
