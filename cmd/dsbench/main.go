// Package main provides the CLI entry point for dsbench, a cycle-accurate
// benchmark of foundational data structures and algorithms.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/weiihann/dsbench/config"
	"github.com/weiihann/dsbench/cycles"
	"github.com/weiihann/dsbench/harness"
	"github.com/weiihann/dsbench/report"
	"github.com/weiihann/dsbench/workload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type logOptions struct {
	level  string
	format string
}

func (o logOptions) build(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	switch o.format {
	case "tint":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (tint, text, json)", o.format)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logOpts logOptions
		logger  = slog.New(slog.DiscardHandler)
	)

	root := &cobra.Command{
		Use:   "dsbench",
		Short: "Cycle-accurate data structure and algorithm benchmarks",
		Long: `Dsbench runs sorting, searching and graph algorithms and basic
container operations over deterministic workloads, timing each repetition
with the CPU cycle counter and reporting per-cell statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logOpts.build(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			*logger = *l

			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&logOpts.level, "log-level", "info",
		"Log level: debug, info, warn, error")
	flags.StringVar(&logOpts.format, "log-format", "tint",
		"Log format: tint, text, json")

	root.AddCommand(newRunCmd(logger), newListCmd())

	return root
}

type runOptions struct {
	configPath string
	outputPath string
	outputJSON bool
	withTrials bool
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		opts runOptions
		cfg  = config.Default()
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark matrix",
		Long: `Generate one workload per (size, distribution), run every applicable
(algorithm, container) pair over it and print aggregated statistics.

Flags override values loaded from --config.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := resolveConfig(cmd, opts.configPath, cfg)
			if err != nil {
				return err
			}

			return runBenchmark(cmd.Context(), logger, resolved, opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "",
		"Path to a YAML config file")
	flags.StringSliceVar(&cfg.Algorithms, "algorithms", cfg.Algorithms,
		"Algorithms to run (see `dsbench list`)")
	flags.StringSliceVar(&cfg.Containers, "containers", cfg.Containers,
		"Container kinds to run on")
	flags.IntSliceVar(&cfg.Sizes, "sizes", cfg.Sizes,
		"Workload sizes")
	flags.StringSliceVar(&cfg.Distributions, "distributions", cfg.Distributions,
		"Distributions: sorted, reverse, random, duplicate-heavy")
	flags.Float64Var(&cfg.DuplicateFraction, "dup-fraction", cfg.DuplicateFraction,
		"Fraction of duplicate-heavy values drawn from the small pool, in (0, 1]")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed,
		"Workload seed")
	flags.IntVar(&cfg.Warmup, "warmup", cfg.Warmup,
		"Discarded iterations per cell")
	flags.IntVar(&cfg.Repetitions, "reps", cfg.Repetitions,
		"Measured repetitions per cell")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout,
		"Wall-clock ceiling per cell (0 = none)")
	flags.IntVar(&cfg.Parallelism, "parallel", cfg.Parallelism,
		"Cells to run concurrently")
	flags.BoolVar(&cfg.Pin, "pin", cfg.Pin,
		"Pin cells to a CPU")
	flags.IntVar(&cfg.CPU, "cpu", cfg.CPU,
		"CPU to pin sequential runs to (-1 = current thread only)")
	flags.BoolVar(&cfg.CollectGarbage, "gc", cfg.CollectGarbage,
		"Force a GC before every repetition")
	flags.Float64Var(&cfg.NoiseThreshold, "noise", cfg.NoiseThreshold,
		"Coefficient of variation above which a cell is noisy")
	flags.StringVarP(&opts.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")
	flags.BoolVar(&opts.outputJSON, "json", false,
		"Output results as JSON instead of table")
	flags.BoolVar(&opts.withTrials, "trials", false,
		"Include raw per-repetition trials in JSON output")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file, or over
// the defaults when there is no file.
func resolveConfig(cmd *cobra.Command, path string, flagged config.Config) (config.Config, error) {
	if path == "" {
		return flagged, flagged.Validate()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	set("algorithms", func() { cfg.Algorithms = flagged.Algorithms })
	set("containers", func() { cfg.Containers = flagged.Containers })
	set("sizes", func() { cfg.Sizes = flagged.Sizes })
	set("distributions", func() { cfg.Distributions = flagged.Distributions })
	set("dup-fraction", func() { cfg.DuplicateFraction = flagged.DuplicateFraction })
	set("seed", func() { cfg.Seed = flagged.Seed })
	set("warmup", func() { cfg.Warmup = flagged.Warmup })
	set("reps", func() { cfg.Repetitions = flagged.Repetitions })
	set("timeout", func() { cfg.Timeout = flagged.Timeout })
	set("parallel", func() { cfg.Parallelism = flagged.Parallelism })
	set("pin", func() { cfg.Pin = flagged.Pin })
	set("cpu", func() { cfg.CPU = flagged.CPU })
	set("gc", func() { cfg.CollectGarbage = flagged.CollectGarbage })
	set("noise", func() { cfg.NoiseThreshold = flagged.NoiseThreshold })

	return cfg, cfg.Validate()
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	opts runOptions,
	stdout io.Writer,
) error {
	matrix, err := cfg.Matrix()
	if err != nil {
		return err
	}

	host := cycles.Host()

	logger.InfoContext(ctx, "starting benchmark",
		slog.Any("algorithms", cfg.Algorithms),
		slog.Any("containers", cfg.Containers),
		slog.Any("sizes", cfg.Sizes),
		slog.Any("distributions", cfg.Distributions),
		slog.Int64("seed", cfg.Seed),
		slog.Int("repetitions", cfg.Repetitions),
		slog.String("counter", host.Source),
		slog.Uint64("counter_overhead", cycles.Overhead()),
	)

	started := time.Now()

	cells, runErr := harness.RunMatrix(ctx, matrix, logger)
	if cells == nil && runErr != nil {
		return fmt.Errorf("run matrix: %w", runErr)
	}

	out := stdout
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()

		out = f
	}

	if opts.outputJSON {
		r := report.NewReport(started, host, cells, cfg.ReportOptions(), opts.withTrials)
		if err := report.GenerateJSON(out, r); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Generate(out, report.Aggregate(cells, cfg.ReportOptions())); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}

	logger.InfoContext(ctx, "benchmark complete",
		slog.Int("cells", len(cells)),
		slog.Duration("elapsed", time.Since(started)),
	)

	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List algorithms, containers, distributions and the host counter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd.OutOrStdout())
		},
	}
}

func list(w io.Writer) error {
	fmt.Fprintln(w, "Algorithms:")
	for _, name := range harness.KnownAlgorithms() {
		fmt.Fprintf(w, "  %-12s %s\n", name, strings.Join(harness.KnownContainers(name), ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Distributions:")
	for _, d := range workload.Distributions() {
		fmt.Fprintf(w, "  %s\n", d)
	}

	host := cycles.Host()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Host: %s (%s), %d physical / %d logical cores\n",
		host.Brand, host.Vendor, host.PhysicalCores, host.LogicalCores)
	fmt.Fprintf(w, "Counter: %s, overhead %d\n", host.Source, cycles.Overhead())

	return nil
}
