// internal/export/interface.go
package export

import (
	"context"

	"github.com/benchwrap/benchwrap/internal/core"
)

// Exporter defines the interface for result-emission backends
type Exporter interface {
	// Export emits a batch of result documents
	Export(ctx context.Context, results []core.Result) error

	// Close flushes and releases the backend
	Close() error
}
