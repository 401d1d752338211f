package harness

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/weiihann/dsbench/cycles"
	"github.com/weiihann/dsbench/workload"
)

// MatrixConfig enumerates the benchmark matrix.
type MatrixConfig struct {
	Algorithms        []string
	Containers        []string
	Sizes             []int
	Distributions     []workload.Distribution
	DuplicateFraction float64
	Seed              int64
	Run               RunConfig

	// Parallelism > 1 runs independent cells concurrently. Each cell owns
	// its state; with Run.Pin set, running cells hold distinct CPUs.
	Parallelism int
}

type job struct {
	c Case
	w *workload.Workload
}

// Plan resolves the matrix into cases. Algorithm/container pairs that do
// not apply to each other are skipped; an algorithm with no applicable
// container, or an unknown name, is an error.
func Plan(cfg MatrixConfig) ([]Case, error) {
	var cases []Case

	for _, name := range cfg.Algorithms {
		supported := KnownContainers(name)
		if supported == nil {
			return nil, fmt.Errorf("unknown algorithm %q", name)
		}

		matched := false
		for _, kind := range cfg.Containers {
			c, err := Resolve(name, kind)
			if err != nil {
				continue
			}

			cases = append(cases, c)
			matched = true
		}

		if !matched {
			return nil, fmt.Errorf("algorithm %q runs on none of %v (supported: %v)",
				name, cfg.Containers, supported)
		}
	}

	return cases, nil
}

// RunMatrix generates each (size, distribution) workload once and runs
// every planned case against it. Cells run one after another unless
// Parallelism asks otherwise. A failing cell is recorded, not fatal; only
// configuration errors and cancellation stop the run.
func RunMatrix(ctx context.Context, cfg MatrixConfig, logger *slog.Logger) ([]Cell, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cases, err := Plan(cfg)
	if err != nil {
		return nil, err
	}

	var jobs []job

	for _, size := range cfg.Sizes {
		for _, dist := range cfg.Distributions {
			w, err := workload.Generate(workload.Config{
				Size:              size,
				Distribution:      dist,
				Seed:              cfg.Seed,
				DuplicateFraction: cfg.DuplicateFraction,
			})
			if err != nil {
				return nil, fmt.Errorf("generate %s/%d: %w", dist, size, err)
			}

			summary := w.Summarize()
			logger.DebugContext(ctx, "workload generated",
				slog.String("distribution", string(dist)),
				slog.Int("size", summary.Size),
				slog.Int("distinct", summary.Distinct),
				slog.Int("min", summary.Min),
				slog.Int("max", summary.Max),
			)

			for _, c := range cases {
				jobs = append(jobs, job{c: c, w: w})
			}
		}
	}

	logger.InfoContext(ctx, "running benchmark matrix",
		slog.Int("cells", len(jobs)),
		slog.Int("parallelism", max(cfg.Parallelism, 1)),
	)

	cells := make([]Cell, len(jobs))

	if cfg.Parallelism <= 1 {
		runner := NewRunner(cfg.Run, logger)
		for i, j := range jobs {
			cells[i] = runner.Run(ctx, j.c, j.w)
		}

		return cells, ctx.Err()
	}

	err = dispatch(ctx, len(jobs), cfg.Parallelism, cfg.Run.Pin, logger, func(ctx context.Context, i, cpu int) {
		runCfg := cfg.Run
		runCfg.CPU = cpu
		cells[i] = NewRunner(runCfg, logger).Run(ctx, jobs[i].c, jobs[i].w)
	})
	if err != nil {
		return cells, err
	}

	return cells, ctx.Err()
}

// dispatch runs n jobs on at most parallelism goroutines. With pin set each
// running job holds one CPU from the process's allowed set and hands it
// back when it returns, so no two live jobs share a CPU; parallelism is
// capped at the number of allowed CPUs. Without pin, cpu is -1.
func dispatch(
	ctx context.Context,
	n, parallelism int,
	pin bool,
	logger *slog.Logger,
	run func(ctx context.Context, i, cpu int),
) error {
	var pool chan int

	if pin {
		cpus, err := cycles.Allowed()
		if err != nil {
			return fmt.Errorf("list cpus: %w", err)
		}

		if parallelism > len(cpus) {
			logger.WarnContext(ctx, "parallelism capped at allowed cpus",
				slog.Int("requested", parallelism),
				slog.Int("cpus", len(cpus)),
			)
			parallelism = len(cpus)
		}

		pool = make(chan int, len(cpus))
		for _, cpu := range cpus {
			pool <- cpu
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := range n {
		g.Go(func() error {
			cpu := -1
			if pool != nil {
				cpu = <-pool
				defer func() { pool <- cpu }()
			}

			run(gctx, i, cpu)

			return nil
		})
	}

	return g.Wait()
}
