package collector

import (
	"context"

	"go.uber.org/zap"
)

// Config holds collector configuration
type Config struct {
	Params map[string]any
}

// StringParam reads a string parameter, with ok reporting presence.
func (c Config) StringParam(key string) (string, bool) {
	v, ok := c.Params[key].(string)
	return v, ok
}

// Collector defines the interface for side-channel metric collection that
// brackets benchmark samples.
type Collector interface {
	// Name returns the unique collector name
	Name() string

	// Startup brings up persistent collection processes
	Startup(ctx context.Context) error

	// StartSample begins collection for the given 1-based sample number
	// and returns the directory the sample archives into
	StartSample(ctx context.Context, sample int) (string, error)

	// StopSample ends the current collection sample
	StopSample(ctx context.Context) error

	// Shutdown stops persistent collection processes and cleans up
	Shutdown(ctx context.Context) error
}

// Factory builds a collector instance from its config.
type Factory func(cfg Config, log *zap.Logger) (Collector, error)
