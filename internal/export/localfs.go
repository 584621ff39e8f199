// internal/export/localfs.go
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benchwrap/benchwrap/internal/core"
)

// LocalFS implements Exporter by writing one JSON document per result under
// <base>/<uuid>/<benchmark>/<label>/doc-<n>.json
type LocalFS struct {
	basePath string
	seq      map[string]int
}

// NewLocalFS creates a new LocalFS exporter
func NewLocalFS(basePath string) (*LocalFS, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base path: %w", err)
	}
	return &LocalFS{basePath: basePath, seq: make(map[string]int)}, nil
}

func (l *LocalFS) docPath(r core.Result) string {
	dir := filepath.Join(l.basePath, r.Run.UUID, r.Benchmark, r.Label)
	n := l.seq[dir]
	l.seq[dir] = n + 1
	return filepath.Join(dir, fmt.Sprintf("doc-%d.json", n))
}

func (l *LocalFS) Export(ctx context.Context, results []core.Result) error {
	for _, r := range results {
		data, err := json.Marshal(r.ToDocument())
		if err != nil {
			return core.WrapError(core.ErrExportFailed, err)
		}

		path := l.docPath(r)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return core.WrapError(core.ErrExportFailed, fmt.Errorf("creating directories: %w", err))
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return core.WrapError(core.ErrExportFailed, err)
		}
	}
	return nil
}

func (l *LocalFS) Close() error { return nil }
