// Package report reduces benchmark cells into per-tuple statistics and
// formats them as comparison tables.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/weiihann/dsbench/cycles"
	"github.com/weiihann/dsbench/harness"
	"github.com/weiihann/dsbench/workload"
)

// DefaultNoiseThreshold is the coefficient of variation above which an
// entry is flagged noisy.
const DefaultNoiseThreshold = 0.10

// ErrNoEntries is returned when there is nothing to report.
var ErrNoEntries = errors.New("no results to report")

// Options tunes aggregation.
type Options struct {
	// NoiseThreshold is the coefficient of variation above which an entry is
	// noisy. Zero means DefaultNoiseThreshold.
	NoiseThreshold float64
}

// Entry summarizes the valid trials of one (algorithm, container,
// distribution, size) tuple. Cycle statistics are in counter ticks.
type Entry struct {
	Algorithm    string                `json:"algorithm"`
	Container    string                `json:"container"`
	Distribution workload.Distribution `json:"distribution"`
	Size         int                   `json:"size"`

	Samples    int  `json:"samples"`
	Failed     int  `json:"failed"`
	Incomplete bool `json:"incomplete"`
	Noisy      bool `json:"noisy"`

	Min      uint64  `json:"min_cycles"`
	Median   float64 `json:"median_cycles"`
	Mean     float64 `json:"mean_cycles"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stddev"`
	CV       float64 `json:"cv"`

	MedianNanos float64 `json:"median_ns"`
	Error       string  `json:"error,omitempty"`
}

type key struct {
	algorithm    string
	container    string
	distribution workload.Distribution
	size         int
}

// Aggregate groups cells by tuple, keeping first-seen order, and computes
// the statistics of each group. Failed trials are counted but never
// contribute to the statistics. A tuple with any incomplete cell is
// incomplete.
func Aggregate(cells []harness.Cell, opts Options) []Entry {
	threshold := opts.NoiseThreshold
	if threshold <= 0 {
		threshold = DefaultNoiseThreshold
	}

	var order []key

	groups := make(map[key][]harness.Cell)

	for _, c := range cells {
		k := key{c.Algorithm, c.Container, c.Distribution, c.Size}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	entries := make([]Entry, 0, len(order))
	for _, k := range order {
		entries = append(entries, summarize(k, groups[k], threshold))
	}

	return entries
}

func summarize(k key, cells []harness.Cell, threshold float64) Entry {
	e := Entry{
		Algorithm:    k.algorithm,
		Container:    k.container,
		Distribution: k.distribution,
		Size:         k.size,
	}

	var samples, nanos stats.Float64Data

	for _, c := range cells {
		if c.Incomplete {
			e.Incomplete = true
			if e.Error == "" {
				e.Error = c.Error
			}
		}

		for _, t := range c.Trials {
			if !t.Valid {
				e.Failed++
				if e.Error == "" {
					e.Error = t.Error
				}
				continue
			}

			samples = append(samples, float64(t.Cycles))
			nanos = append(nanos, float64(t.Nanos))
		}
	}

	e.Samples = len(samples)
	if e.Samples == 0 {
		return e
	}

	if err := describe(&e, samples, nanos); err != nil {
		e.Error = fmt.Sprintf("statistics: %v", err)
		return e
	}

	if e.Mean > 0 {
		e.CV = e.StdDev / e.Mean
	}
	e.Noisy = e.CV > threshold

	return e
}

// describe fills the sample statistics of e. The stats functions only fail
// on empty input.
func describe(e *Entry, samples, nanos stats.Float64Data) error {
	lowest, err := stats.Min(samples)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	e.Min = uint64(lowest)

	if e.Median, err = stats.Median(samples); err != nil {
		return fmt.Errorf("median: %w", err)
	}

	if e.Mean, err = stats.Mean(samples); err != nil {
		return fmt.Errorf("mean: %w", err)
	}

	if e.Variance, err = stats.PopulationVariance(samples); err != nil {
		return fmt.Errorf("variance: %w", err)
	}

	if e.StdDev, err = stats.StandardDeviationPopulation(samples); err != nil {
		return fmt.Errorf("stddev: %w", err)
	}

	if e.MedianNanos, err = stats.Median(nanos); err != nil {
		return fmt.Errorf("median ns: %w", err)
	}

	return nil
}

// Report is the machine-readable result of one benchmark run.
type Report struct {
	RunID   string         `json:"run_id"`
	Started time.Time      `json:"started"`
	Host    cycles.Info    `json:"host"`
	Entries []Entry        `json:"entries"`
	Cells   []harness.Cell `json:"cells,omitempty"`
}

// NewReport aggregates cells into a report stamped with a fresh run ID.
// Raw trials are kept only when withTrials is set.
func NewReport(started time.Time, host cycles.Info, cells []harness.Cell, opts Options, withTrials bool) Report {
	r := Report{
		RunID:   uuid.NewString(),
		Started: started.UTC(),
		Host:    host,
		Entries: Aggregate(cells, opts),
	}

	if withTrials {
		r.Cells = cells
	}

	return r
}

// Generate writes a markdown comparison table. Speedup is relative to the
// fastest median sharing the entry's size and distribution.
func Generate(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}

	fastest := findFastest(entries)

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Algorithm | Container | Distribution | Size | Min | Median "+
		"| Mean | StdDev | CV | Median Time | Samples | Speedup | Notes |")
	fmt.Fprintln(w, "|-----------|-----------|--------------|------|-----|--------"+
		"|------|--------|----|-------------|---------|---------|-------|")

	for _, e := range entries {
		speedup := "-"
		if best := fastest[sizeDist{e.Size, e.Distribution}]; best > 0 && e.Samples > 0 {
			speedup = fmt.Sprintf("%.2fx", e.Median/best)
		}

		if e.Samples == 0 {
			fmt.Fprintf(w, "| %s | %s | %s | %d | - | - | - | - | - | - | 0 | %s | %s |\n",
				e.Algorithm, e.Container, e.Distribution, e.Size, speedup, notes(e))
			continue
		}

		fmt.Fprintf(w, "| %s | %s | %s | %d | %s | %s | %s | %s | %.1f%% | %s | %d | %s | %s |\n",
			e.Algorithm,
			e.Container,
			e.Distribution,
			e.Size,
			formatCycles(float64(e.Min)),
			formatCycles(e.Median),
			formatCycles(e.Mean),
			formatCycles(e.StdDev),
			e.CV*100,
			formatNanos(e.MedianNanos),
			e.Samples,
			speedup,
			notes(e),
		)
	}

	return nil
}

// GenerateJSON writes r as indented JSON to w.
func GenerateJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

type sizeDist struct {
	size int
	dist workload.Distribution
}

func findFastest(entries []Entry) map[sizeDist]float64 {
	fastest := make(map[sizeDist]float64)
	for _, e := range entries {
		if e.Samples == 0 || e.Median <= 0 {
			continue
		}

		k := sizeDist{e.Size, e.Distribution}
		if best, ok := fastest[k]; !ok || e.Median < best {
			fastest[k] = e.Median
		}
	}

	return fastest
}

func notes(e Entry) string {
	var parts []string
	if e.Incomplete {
		parts = append(parts, "incomplete")
	}
	if e.Noisy {
		parts = append(parts, "noisy")
	}
	if e.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", e.Failed))
	}

	if len(parts) == 0 {
		return ""
	}

	return strings.Join(parts, ", ")
}

func formatCycles(c float64) string {
	units := []string{"", "K", "M", "G", "T"}
	unit := 0

	for c >= 1000 && unit < len(units)-1 {
		c /= 1000
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%.0f", c)
	}

	formatted := fmt.Sprintf("%.2f", c)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + units[unit]
}

func formatNanos(ns float64) string {
	return time.Duration(ns).Round(time.Microsecond / 10).String()
}
