package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/benchwrap/benchwrap/internal/collector"
	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/benchwrap/benchwrap/internal/export"
	"github.com/benchwrap/benchwrap/internal/metrics"
	"go.uber.org/zap"
)

// Runner drives one benchmark through setup, sampling and cleanup, bracketing
// each sample with the side-channel collector when one is configured and
// handing every result batch to the exporter.
type Runner struct {
	log       *zap.Logger
	metrics   *metrics.Registry
	exporter  export.Exporter
	collector collector.Collector // nil when collection is disabled
}

// NewRunner creates a Runner. The collector may be nil.
func NewRunner(log *zap.Logger, m *metrics.Registry, exp export.Exporter, col collector.Collector) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		log:       log,
		metrics:   m,
		exporter:  exp,
		collector: col,
	}
}

// Run executes cfg.Samples samples of the benchmark. A failed sample aborts
// the run; cleanup and collector shutdown still happen.
func (r *Runner) Run(ctx context.Context, b Benchmark, cfg Config) error {
	log := r.log.With(zap.String("tool", b.Name()), zap.String("uuid", cfg.Run.UUID))
	log.Info("starting benchmark run", zap.Int("samples", cfg.Samples))

	if err := b.Setup(ctx); err != nil {
		r.metrics.RecordRun(b.Name(), "setup_failed")
		return core.WrapError(core.ErrSetupFailed, err)
	}

	if r.collector != nil {
		if err := r.collector.Startup(ctx); err != nil {
			r.metrics.RecordCollectorPhase(r.collector.Name(), "startup", "error")
			r.cleanup(b, log)
			return fmt.Errorf("collector startup: %w", err)
		}
		r.metrics.RecordCollectorPhase(r.collector.Name(), "startup", "ok")
	}

	runErr := r.collectSamples(ctx, b, cfg, log)

	r.cleanup(b, log)

	if r.collector != nil {
		if err := r.collector.Shutdown(ctx); err != nil {
			r.metrics.RecordCollectorPhase(r.collector.Name(), "shutdown", "error")
			log.Error("collector shutdown failed", zap.Error(err))
			if runErr == nil {
				runErr = fmt.Errorf("collector shutdown: %w", err)
			}
		} else {
			r.metrics.RecordCollectorPhase(r.collector.Name(), "shutdown", "ok")
		}
	}

	if runErr != nil {
		r.metrics.RecordRun(b.Name(), "error")
		return runErr
	}

	r.metrics.RecordRun(b.Name(), "ok")
	log.Info("benchmark run finished", zap.Int("samples", cfg.Samples))
	return nil
}

func (r *Runner) collectSamples(ctx context.Context, b Benchmark, cfg Config, log *zap.Logger) error {
	for sample := 1; sample <= cfg.Samples; sample++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Info("starting sample", zap.Int("sample", sample))

		if r.collector != nil {
			dir, err := r.collector.StartSample(ctx, sample)
			if err != nil {
				r.metrics.RecordCollectorPhase(r.collector.Name(), "start_sample", "error")
				return fmt.Errorf("collector start of sample %d: %w", sample, err)
			}
			r.metrics.RecordCollectorPhase(r.collector.Name(), "start_sample", "ok")
			log.Debug("collector sample started", zap.String("dir", dir))
		}

		start := time.Now()
		results, err := b.Collect(ctx, sample)
		elapsed := time.Since(start).Seconds()

		if r.collector != nil {
			if stopErr := r.collector.StopSample(ctx); stopErr != nil {
				r.metrics.RecordCollectorPhase(r.collector.Name(), "stop_sample", "error")
				log.Error("collector stop failed", zap.Int("sample", sample), zap.Error(stopErr))
			} else {
				r.metrics.RecordCollectorPhase(r.collector.Name(), "stop_sample", "ok")
			}
		}

		if err != nil {
			r.metrics.RecordSample(b.Name(), "error", elapsed)
			return fmt.Errorf("sample %d: %w", sample, err)
		}
		r.metrics.RecordSample(b.Name(), "ok", elapsed)

		if err := r.exporter.Export(ctx, results); err != nil {
			r.metrics.RecordResults(b.Name(), "error", len(results))
			return fmt.Errorf("exporting sample %d: %w", sample, err)
		}
		r.metrics.RecordResults(b.Name(), "ok", len(results))

		log.Info("sample finished",
			zap.Int("sample", sample),
			zap.Int("results", len(results)),
			zap.Float64("seconds", elapsed),
		)
	}
	return nil
}

func (r *Runner) cleanup(b Benchmark, log *zap.Logger) {
	if err := b.Cleanup(); err != nil {
		log.Error("cleanup failed", zap.Error(err))
	}
}
