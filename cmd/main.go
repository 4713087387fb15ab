package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const version = "v0.1.0"

type collectOptions struct {
	configPath   string
	files        []string
	payloads     []string
	genCount     int
	genPrefix    string
	apiEndpoints []string
	kafka        bool
	publish      bool
	concurrency  int
	timeout      time.Duration
	output       string
	metricsAddr  string
}

var opts collectOptions

var rootCmd = &cobra.Command{
	Use:   "gcollect",
	Short: "Collect tasks from files, generators, APIs and Kafka into one ordered list",
	Long: `gcollect registers a set of task sources, collects their tasks in
registration order and either prints them or publishes them to Kafka.

A failing source never stops the others: its error is logged and the tasks
of every other source are still returned.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect tasks once from the configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := loadConfig(cmd, opts)
		return runCollect(ctx, cfg, opts, cmd.OutOrStdout())
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Collect again every time the first --file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(opts.files) == 0 {
			return fmt.Errorf("watch needs at least one --file")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := loadConfig(cmd, opts)
		return runWatch(ctx, cfg, opts, cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gcollect",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gcollect %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "gcollect.properties", "Path to the properties configuration file")

	bindCollectFlags(collectCmd, &opts)
	bindCollectFlags(watchCmd, &opts)

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func bindCollectFlags(cmd *cobra.Command, o *collectOptions) {
	f := cmd.Flags()
	f.StringArrayVarP(&o.files, "file", "f", nil, "Task file to read (.json, .yaml, .toml); repeatable")
	f.StringArrayVarP(&o.payloads, "payload", "p", nil, "Literal task payload; repeatable")
	f.IntVar(&o.genCount, "gen-count", 0, "Number of synthetic tasks to generate (overrides generator.count)")
	f.StringVar(&o.genPrefix, "gen-prefix", "", "Payload prefix for synthetic tasks (overrides generator.prefix)")
	f.StringArrayVar(&o.apiEndpoints, "api-endpoint", nil, "Endpoint name for an API stub source; repeatable")
	f.BoolVar(&o.kafka, "kafka", false, "Drain tasks from the Kafka source topic")
	f.BoolVar(&o.publish, "publish", false, "Publish collected tasks to the Kafka task topic instead of printing them")
	f.IntVar(&o.concurrency, "concurrency", 0, "Sources invoked at once (overrides collect.concurrency)")
	f.DurationVar(&o.timeout, "timeout", 0, "Per-source timeout (overrides collect.source.timeout)")
	f.StringVarP(&o.output, "output", "o", "", "Output codec: json, cbor or proto (overrides output.codec)")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address (overrides metrics.addr)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
