package benchmark

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/benchwrap/benchwrap/internal/metrics"
	"go.uber.org/zap"
)

type fakeBenchmark struct {
	name       string
	setupErr   error
	collectErr error
	perSample  int

	setups   int
	collects []int
	cleanups int
}

func (f *fakeBenchmark) Name() string { return f.name }

func (f *fakeBenchmark) Setup(ctx context.Context) error {
	f.setups++
	return f.setupErr
}

func (f *fakeBenchmark) Collect(ctx context.Context, sample int) ([]core.Result, error) {
	f.collects = append(f.collects, sample)
	if f.collectErr != nil {
		return nil, f.collectErr
	}
	results := make([]core.Result, f.perSample)
	for i := range results {
		results[i] = core.Result{
			Benchmark: f.name,
			Label:     "results",
			Data:      map[string]any{"sample": sample, "n": i},
		}
	}
	return results, nil
}

func (f *fakeBenchmark) Cleanup() error {
	f.cleanups++
	return nil
}

type fakeExporter struct {
	batches [][]core.Result
	err     error
	closed  bool
}

func (f *fakeExporter) Export(ctx context.Context, results []core.Result) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, results)
	return nil
}

func (f *fakeExporter) Close() error {
	f.closed = true
	return nil
}

type fakeCollector struct {
	startups  int
	starts    []int
	stops     int
	shutdowns int
	startErr  error
}

func (f *fakeCollector) Name() string { return "fake" }

func (f *fakeCollector) Startup(ctx context.Context) error {
	f.startups++
	return f.startErr
}

func (f *fakeCollector) StartSample(ctx context.Context, sample int) (string, error) {
	f.starts = append(f.starts, sample)
	return fmt.Sprintf("/tmp/sample-%d", sample), nil
}

func (f *fakeCollector) StopSample(ctx context.Context) error {
	f.stops++
	return nil
}

func (f *fakeCollector) Shutdown(ctx context.Context) error {
	f.shutdowns++
	return nil
}

func TestRunner_Run(t *testing.T) {
	b := &fakeBenchmark{name: "fake", perSample: 2}
	exp := &fakeExporter{}
	runner := NewRunner(zap.NewNop(), metrics.NewRegistry(), exp, nil)

	err := runner.Run(context.Background(), b, Config{Samples: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.setups != 1 || b.cleanups != 1 {
		t.Errorf("expected one setup and one cleanup, got %d/%d", b.setups, b.cleanups)
	}
	if len(b.collects) != 3 {
		t.Fatalf("expected 3 samples, got %v", b.collects)
	}
	if len(exp.batches) != 3 || len(exp.batches[0]) != 2 {
		t.Errorf("expected 3 exported batches of 2 results, got %d", len(exp.batches))
	}
}

func TestRunner_SetupFailureAbortsRun(t *testing.T) {
	b := &fakeBenchmark{name: "fake", setupErr: errors.New("no workload")}
	exp := &fakeExporter{}
	runner := NewRunner(zap.NewNop(), metrics.NewRegistry(), exp, nil)

	err := runner.Run(context.Background(), b, Config{Samples: 2})
	if !errors.Is(err, core.ErrSetupFailed) {
		t.Fatalf("expected ErrSetupFailed, got %v", err)
	}
	if len(b.collects) != 0 {
		t.Error("expected no samples after failed setup")
	}
	if len(exp.batches) != 0 {
		t.Error("expected nothing exported after failed setup")
	}
}

func TestRunner_CollectFailureStopsSampling(t *testing.T) {
	b := &fakeBenchmark{name: "fake", collectErr: errors.New("tool crashed")}
	exp := &fakeExporter{}
	runner := NewRunner(zap.NewNop(), metrics.NewRegistry(), exp, nil)

	err := runner.Run(context.Background(), b, Config{Samples: 5})
	if err == nil {
		t.Fatal("expected error from failed sample")
	}
	if len(b.collects) != 1 {
		t.Errorf("expected sampling to stop after first failure, got %v", b.collects)
	}
	if b.cleanups != 1 {
		t.Error("expected cleanup to run even after failure")
	}
}

func TestRunner_CollectorBracketsSamples(t *testing.T) {
	b := &fakeBenchmark{name: "fake", perSample: 1}
	col := &fakeCollector{}
	runner := NewRunner(zap.NewNop(), metrics.NewRegistry(), &fakeExporter{}, col)

	err := runner.Run(context.Background(), b, Config{Samples: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if col.startups != 1 || col.shutdowns != 1 {
		t.Errorf("expected one startup and one shutdown, got %d/%d", col.startups, col.shutdowns)
	}
	if len(col.starts) != 2 || col.stops != 2 {
		t.Errorf("expected 2 start/stop sample pairs, got %v/%d", col.starts, col.stops)
	}
	if col.starts[0] != 1 || col.starts[1] != 2 {
		t.Errorf("expected 1-based sample numbers, got %v", col.starts)
	}
}

func TestRunner_CollectorStartupFailure(t *testing.T) {
	b := &fakeBenchmark{name: "fake", perSample: 1}
	col := &fakeCollector{startErr: errors.New("redis down")}
	runner := NewRunner(zap.NewNop(), metrics.NewRegistry(), &fakeExporter{}, col)

	err := runner.Run(context.Background(), b, Config{Samples: 1})
	if err == nil {
		t.Fatal("expected error from collector startup")
	}
	if len(b.collects) != 0 {
		t.Error("expected no samples after collector startup failure")
	}
	if b.cleanups != 1 {
		t.Error("expected benchmark cleanup after collector startup failure")
	}
}

func TestRunner_ExportFailure(t *testing.T) {
	b := &fakeBenchmark{name: "fake", perSample: 1}
	exp := &fakeExporter{err: errors.New("endpoint down")}
	runner := NewRunner(zap.NewNop(), metrics.NewRegistry(), exp, nil)

	err := runner.Run(context.Background(), b, Config{Samples: 3})
	if err == nil {
		t.Fatal("expected error from failed export")
	}
	if len(b.collects) != 1 {
		t.Errorf("expected run to stop after first failed export, got %v", b.collects)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &fakeBenchmark{name: "fake", perSample: 1}
	runner := NewRunner(zap.NewNop(), metrics.NewRegistry(), &fakeExporter{}, nil)

	err := runner.Run(ctx, b, Config{Samples: 3})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if len(b.collects) != 0 {
		t.Errorf("expected no samples on cancelled context, got %v", b.collects)
	}
}
