package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/benchwrap/benchwrap/internal/benchmark"
	"github.com/benchwrap/benchwrap/internal/collector"
	"github.com/benchwrap/benchwrap/internal/config"
	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/benchwrap/benchwrap/internal/export"
	"github.com/benchwrap/benchwrap/internal/logger"
	"github.com/benchwrap/benchwrap/internal/metrics"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Run a benchmark tool by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	toolName := args[0]

	// Initialize logger
	log := logger.Must(debug)
	defer log.Sync()

	// Load config
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	labels, err := config.ParseLabels(cfg.Run.Labels)
	if err != nil {
		return fmt.Errorf("parsing labels: %w", err)
	}

	runUUID := cfg.Run.UUID
	if runUUID == "" {
		runUUID = uuid.NewString()
	}

	runInfo := core.RunInfo{
		UUID:   runUUID,
		User:   cfg.Run.User,
		Labels: labels,
	}

	benchCfg := cfg.Benchmarks[toolName]
	samples := benchCfg.Samples
	if samples < 1 {
		samples = 1
	}

	log.Info("starting benchwrap",
		zap.String("tool", toolName),
		zap.String("uuid", runUUID),
		zap.Int("samples", samples),
	)

	toolCfg := benchmark.Config{
		Run:     runInfo,
		Samples: samples,
		Retries: benchCfg.Retries,
		Timeout: benchCfg.Timeout,
		Params:  benchCfg.Params,
	}

	// Instantiate the tool before spinning anything else up, so an unknown
	// name fails before exporters or collectors touch the system.
	b, err := benchmark.New(toolName, toolCfg, log)
	if err != nil {
		return err
	}

	m := metrics.NewRegistry()
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error("metrics listener error", zap.Error(err))
			}
		}()
		log.Info("metrics listener started",
			zap.String("addr", cfg.Metrics.Addr),
			zap.String("path", cfg.Metrics.Path),
		)
	}

	exporter, err := export.New(cfg.Export)
	if err != nil {
		return fmt.Errorf("creating exporter: %w", err)
	}
	defer exporter.Close()

	var col collector.Collector
	if cfg.Collector.Enabled {
		col, err = collector.New(cfg.Collector.Name, collector.Config{
			Params: cfg.Collector.Params,
		}, log)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := benchmark.NewRunner(log, m, exporter, col)
	return runner.Run(ctx, b, toolCfg)
}
