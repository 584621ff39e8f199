package collector

import (
	"fmt"

	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/benchwrap/benchwrap/internal/logger"
	"go.uber.org/zap"
)

// New instantiates the collector registered under name. Unknown names are a
// caller problem, reported with the registered alternatives.
func New(name string, cfg Config, log *zap.Logger) (Collector, error) {
	factory, ok := Lookup(name)
	if !ok {
		return nil, core.WrapError(core.ErrCollectorNotFound,
			fmt.Errorf("%q (available: %v)", name, Names()))
	}

	c, err := factory(cfg, logger.ForPlugin(log, name))
	if err != nil {
		return nil, fmt.Errorf("initializing collector %s: %w", name, err)
	}
	return c, nil
}
