package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c-m3-codin/gcollect/config"
	"github.com/c-m3-codin/gcollect/logging"
	"github.com/c-m3-codin/gcollect/metrics"
	"github.com/c-m3-codin/gcollect/processor"
	"github.com/c-m3-codin/gcollect/utility"
)

// runWatch collects once at start and again whenever the first task file
// changes. Every run uses a fresh processor so sources are not registered
// twice; metrics accumulate across runs.
func runWatch(ctx context.Context, cfg config.AppConfig, o collectOptions, out io.Writer) error {
	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, reg)
		defer stop()
	}

	path := o.files[0]
	slog.Info("Watching task file", "path", path)
	return utility.WatchFile(ctx, path, func() {
		p := processor.New(
			processor.WithConcurrency(cfg.Collect.Concurrency),
			processor.WithSourceTimeout(cfg.Collect.SourceTimeout),
			processor.WithMetrics(m),
			processor.WithLogger(logger),
		)
		if err := collectOnce(ctx, cfg, o, p, out); err != nil {
			slog.Error("Collection run failed", "path", path, "error", err)
		}
	})
}
