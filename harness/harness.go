package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/weiihann/dsbench/cycles"
	"github.com/weiihann/dsbench/workload"
)

var (
	// ErrTimeout marks a cell whose wall-clock ceiling expired before all
	// repetitions ran.
	ErrTimeout = errors.New("cell timeout exceeded")

	// ErrPanic wraps a panic raised by a case.
	ErrPanic = errors.New("case panicked")

	// ErrInvalidOutcome is recorded when a case's verifier rejects the result.
	ErrInvalidOutcome = errors.New("invalid outcome")
)

// RunConfig holds parameters for executing a single cell.
type RunConfig struct {
	Warmup      int
	Repetitions int
	Timeout     time.Duration

	// CPU is the processor to pin to; negative leaves affinity alone.
	CPU int
	Pin bool

	// CollectGarbage forces a GC before every timed repetition, outside the
	// timed window.
	CollectGarbage bool
}

// DefaultRunConfig returns sensible defaults.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Warmup:      3,
		Repetitions: 10,
		Timeout:     time.Minute,
		CPU:         -1,
		Pin:         true,
	}
}

// Runner times cases one repetition at a time.
type Runner struct {
	cfg      RunConfig
	overhead uint64
	Logger   *slog.Logger
}

// NewRunner creates a Runner. The counter overhead is calibrated once and
// subtracted from every sample.
func NewRunner(cfg RunConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Runner{
		cfg:      cfg,
		overhead: cycles.Overhead(),
		Logger:   logger,
	}
}

// Run executes c against w: Warmup discarded iterations followed by
// Repetitions measured ones. Only the prepared Run func is inside the timed
// window. The timeout and ctx are checked between repetitions, never during
// one; when either fires the cell is returned Incomplete with the trials
// gathered so far. Failures inside the case become failed trials.
func (r *Runner) Run(ctx context.Context, c Case, w *workload.Workload) Cell {
	cell := Cell{
		Algorithm:    c.Algorithm,
		Container:    c.Container,
		Distribution: w.Distribution(),
		Size:         w.Len(),
		Trials:       make([]Trial, 0, r.cfg.Repetitions),
	}

	logger := r.Logger.With(
		slog.String("algorithm", c.Algorithm),
		slog.String("container", c.Container),
		slog.String("distribution", string(w.Distribution())),
		slog.Int("size", w.Len()),
	)

	if r.cfg.Pin {
		unpin, err := cycles.Pin(r.cfg.CPU)
		if err != nil {
			logger.WarnContext(ctx, "failed to pin cell",
				slog.String("error", err.Error()),
			)
		} else {
			defer unpin()
		}
	}

	var deadline time.Time
	if r.cfg.Timeout > 0 {
		deadline = time.Now().Add(r.cfg.Timeout)
	}

	expired := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrTimeout
		}

		return nil
	}

	for i := 0; i < r.cfg.Warmup; i++ {
		if err := expired(); err != nil {
			return r.abort(ctx, logger, cell, err)
		}

		r.repeat(c, w, 0)
	}

	for rep := 0; rep < r.cfg.Repetitions; rep++ {
		if err := expired(); err != nil {
			return r.abort(ctx, logger, cell, err)
		}

		if r.cfg.CollectGarbage {
			runtime.GC()
		}

		cell.Trials = append(cell.Trials, r.repeat(c, w, rep))
	}

	logger.DebugContext(ctx, "cell finished",
		slog.Int("trials", len(cell.Trials)),
		slog.Int("failed", cell.Failed()),
	)

	return cell
}

func (r *Runner) abort(ctx context.Context, logger *slog.Logger, cell Cell, err error) Cell {
	cell.Incomplete = true
	cell.Error = err.Error()

	logger.WarnContext(ctx, "cell aborted",
		slog.Int("trials", len(cell.Trials)),
		slog.String("reason", err.Error()),
	)

	return cell
}

// repeat prepares, times and verifies one repetition.
func (r *Runner) repeat(c Case, w *workload.Workload, rep int) Trial {
	trial := Trial{
		Algorithm:    c.Algorithm,
		Container:    c.Container,
		Distribution: w.Distribution(),
		Size:         w.Len(),
		Repetition:   rep,
	}

	var p Prepared
	if err := guard(func() error {
		var err error
		p, err = c.Prepare(w)
		return err
	}); err != nil {
		trial.Error = fmt.Sprintf("prepare: %v", err)
		return trial
	}

	cyc, elapsed, err := timed(p.Run)
	if err != nil {
		trial.Error = err.Error()
		return trial
	}

	if cyc > r.overhead {
		cyc -= r.overhead
	} else {
		cyc = 0
	}

	trial.Cycles = cyc
	trial.Nanos = elapsed.Nanoseconds()

	if p.Verify != nil {
		if err := guard(p.Verify); err != nil {
			trial.Error = fmt.Sprintf("%v: %v", ErrInvalidOutcome, err)
			return trial
		}
	}

	trial.Valid = true

	return trial
}

// timed runs fn inside the measured window. The recover is registered
// before the counter is read so it adds nothing to the sample.
func timed(fn func()) (cyc uint64, elapsed time.Duration, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()

	wall := time.Now()
	start := cycles.Now()
	fn()
	cyc = cycles.Since(start)
	elapsed = time.Since(wall)

	return cyc, elapsed, nil
}

func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()

	return fn()
}
