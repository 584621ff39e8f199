package benchmark

import (
	"fmt"

	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/benchwrap/benchwrap/internal/logger"
	"go.uber.org/zap"
)

// New instantiates the benchmark tool registered under name. Unknown names
// are a caller problem, reported with the registered alternatives.
func New(name string, cfg Config, log *zap.Logger) (Benchmark, error) {
	factory, ok := Lookup(name)
	if !ok {
		return nil, core.WrapError(core.ErrToolNotFound,
			fmt.Errorf("%q (available: %v)", name, Names()))
	}

	b, err := factory(cfg, logger.ForPlugin(log, name))
	if err != nil {
		return nil, fmt.Errorf("initializing benchmark %s: %w", name, err)
	}
	return b, nil
}
