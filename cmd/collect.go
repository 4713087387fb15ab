package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c-m3-codin/gcollect/codec"
	"github.com/c-m3-codin/gcollect/config"
	"github.com/c-m3-codin/gcollect/logging"
	"github.com/c-m3-codin/gcollect/metrics"
	"github.com/c-m3-codin/gcollect/models"
	"github.com/c-m3-codin/gcollect/processor"
	"github.com/c-m3-codin/gcollect/sources"
	"github.com/c-m3-codin/gcollect/utility"
	"github.com/c-m3-codin/gcollect/worker"
)

// loadConfig reads the properties file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, o collectOptions) config.AppConfig {
	cfg := config.LoadConfig(o.configPath)
	flags := cmd.Flags()
	if flags.Changed("gen-count") {
		cfg.Generator.Count = o.genCount
	}
	if flags.Changed("gen-prefix") {
		cfg.Generator.Prefix = o.genPrefix
	}
	if flags.Changed("concurrency") {
		cfg.Collect.Concurrency = o.concurrency
	}
	if flags.Changed("timeout") {
		cfg.Collect.SourceTimeout = o.timeout
	}
	if flags.Changed("output") {
		cfg.OutputCodec = o.output
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = o.metricsAddr
	}
	return cfg
}

// buildSources returns the source candidates in registration order and a
// cleanup function releasing any Kafka consumer.
func buildSources(cfg config.AppConfig, o collectOptions, codecs *codec.Registry) ([]any, func(), error) {
	var candidates []any
	cleanup := func() {}

	for _, path := range o.files {
		candidates = append(candidates, sources.NewFileSource(path))
	}
	if len(o.payloads) > 0 {
		payloads := make([]any, len(o.payloads))
		for i, p := range o.payloads {
			payloads[i] = p
		}
		candidates = append(candidates, sources.NewStaticSource("cli", payloads...))
	}
	if cfg.Generator.Count > 0 {
		candidates = append(candidates, sources.NewGeneratorSource(cfg.Generator.Count, cfg.Generator.Prefix))
	}
	for _, endpoint := range o.apiEndpoints {
		if endpoint == "" {
			endpoint = cfg.API.Endpoint
		}
		candidates = append(candidates, sources.NewAPISource(endpoint, sources.WithLatency(cfg.API.Latency)))
	}
	if o.kafka {
		c, err := codecs.Lookup(cfg.OutputCodec)
		if err != nil {
			return nil, cleanup, err
		}
		consumer, err := utility.NewConsumer(cfg.BootstrapServers, cfg.ConsumerGroupID, cfg.SourceTopic)
		if err != nil {
			return nil, cleanup, fmt.Errorf("creating kafka consumer: %w", err)
		}
		cleanup = func() {
			if err := consumer.Close(); err != nil {
				slog.Error("Error closing Kafka consumer", "error", err)
			}
		}
		candidates = append(candidates, sources.NewKafkaSource(consumer,
			sources.WithCodec(c),
			sources.WithTopicName(cfg.SourceTopic)))
	}
	return candidates, cleanup, nil
}

func runCollect(ctx context.Context, cfg config.AppConfig, o collectOptions, out io.Writer) error {
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

	p := processor.New(
		processor.WithConcurrency(cfg.Collect.Concurrency),
		processor.WithSourceTimeout(cfg.Collect.SourceTimeout),
		processor.WithMetrics(m),
		processor.WithLogger(logger),
	)
	return collectOnce(ctx, cfg, o, p, out)
}

func collectOnce(ctx context.Context, cfg config.AppConfig, o collectOptions, p *processor.Processor, out io.Writer) error {
	codecs, err := codec.Default()
	if err != nil {
		return err
	}
	c, err := codecs.Lookup(cfg.OutputCodec)
	if err != nil {
		return err
	}

	candidates, cleanup, err := buildSources(cfg, o, codecs)
	defer cleanup()
	if err != nil {
		return err
	}
	for _, candidate := range candidates {
		p.Register(candidate)
	}

	report := p.Collect(ctx)
	if err := report.Err(); err != nil {
		slog.Warn("Some sources failed during collection", "failed_sources", len(report.Failed()), "error", err)
	}

	if o.publish {
		return publish(ctx, cfg, c, report.Tasks)
	}

	data, err := c.Marshal(report.Tasks)
	if err != nil {
		return fmt.Errorf("encoding collected tasks: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if c.ContentType() == "application/json" {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

func publish(ctx context.Context, cfg config.AppConfig, c codec.Codec, tasks []models.Task) error {
	producer, err := utility.NewProducer(cfg.BootstrapServers)
	if err != nil {
		return fmt.Errorf("creating kafka producer: %w", err)
	}
	defer producer.Close()

	pub := &utility.KafkaPublisher{Producer: producer, Topic: cfg.TaskTopic, Codec: c}
	result := worker.PublishAll(ctx, pub, tasks, cfg.PublishWorkers)
	producer.Flush(15 * 1000)

	if len(result.Failed) > 0 || result.Skipped > 0 {
		return fmt.Errorf("published %d of %d tasks (%d failed, %d skipped)",
			result.Published, len(tasks), len(result.Failed), result.Skipped)
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
