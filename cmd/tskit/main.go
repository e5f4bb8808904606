// Command tskit inspects, simplifies, copies and exports tree sequence
// files on local disk, S3 or MinIO.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/metrics/prom"
	"github.com/hupe1980/tskit/resource"
)

// Version is the CLI version.
var Version = "0.1.0"

// app is the state shared by every command of one invocation.
type app struct {
	out        io.Writer
	configPath string
	cfg        Config
	rc         *resource.Controller
	registry   *prometheus.Registry
	logger     *tskit.Logger
	collector  *prom.Collector
}

func (a *app) options() []tskit.Option {
	return []tskit.Option{
		tskit.WithLogger(a.logger),
		tskit.WithResourceController(a.rc),
		tskit.WithMetricsCollector(a.collector),
	}
}

// setup loads the configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("memory-limit") {
		cfg.Resources.MemoryLimitBytes, _ = flags.GetInt64("memory-limit")
	}
	if flags.Changed("max-files") {
		cfg.Resources.MaxConcurrentFiles, _ = flags.GetInt64("max-files")
	}
	if flags.Changed("io-limit") {
		cfg.Resources.IOLimitBytesPerSec, _ = flags.GetInt64("io-limit")
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.TextFile, _ = flags.GetString("metrics-file")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.rc = cfg.controller()
	a.logger = cfg.logger()
	a.registry = prometheus.NewRegistry()
	a.collector, err = prom.NewCollector(a.registry)
	return err
}

func (a *app) teardown() error {
	if a.registry == nil || a.cfg.Metrics.TextFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.Metrics.TextFile, a.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "tskit",
		Short:         "Inspect and transform tree sequence files",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.Int64("memory-limit", 0, "memory budget for loaded tables in bytes (0 = unlimited)")
	pf.Int64("max-files", 4, "files processed concurrently")
	pf.Int64("io-limit", 0, "dump and load rate limit in bytes per second (0 = unlimited)")
	pf.String("metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		newInfoCmd(a),
		newCopyCmd(a),
		newSimplifyCmd(a),
		newExportCmd(a),
		newVersionCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
