// Package workload generates deterministic integer input sequences for the
// benchmark matrix. A workload is fully determined by its size,
// distribution, seed and duplicate fraction; generating it twice yields the
// same sequence.
package workload

import (
	"errors"
	"fmt"
	"iter"
	mrand "math/rand"
	"strings"
)

// Distribution is the shape of a generated sequence.
type Distribution string

const (
	Sorted         Distribution = "sorted"
	Reverse        Distribution = "reverse"
	Random         Distribution = "random"
	DuplicateHeavy Distribution = "duplicate-heavy"
)

// DefaultDuplicateFraction is used for duplicate-heavy workloads when the
// Config leaves DuplicateFraction at zero.
const DefaultDuplicateFraction = 0.5

// ErrUnknownDistribution is returned for a distribution name outside the
// supported set.
var ErrUnknownDistribution = errors.New("unknown distribution")

// Distributions returns the supported distributions in a fixed order.
func Distributions() []Distribution {
	return []Distribution{Sorted, Reverse, Random, DuplicateHeavy}
}

// ParseDistribution maps a name to a Distribution. It accepts the canonical
// names plus "dup" and "duplicates" for duplicate-heavy.
func ParseDistribution(name string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sorted":
		return Sorted, nil
	case "reverse", "reversed":
		return Reverse, nil
	case "random":
		return Random, nil
	case "duplicate-heavy", "dup", "duplicates":
		return DuplicateHeavy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDistribution, name)
	}
}

// Config controls workload generation parameters.
type Config struct {
	Size         int
	Distribution Distribution
	Seed         int64

	// DuplicateFraction is the share of positions in a duplicate-heavy
	// workload that draw from a small pool of repeated values. Must be in
	// [0, 1]; zero selects DefaultDuplicateFraction.
	DuplicateFraction float64
}

// Workload is an immutable generated sequence.
type Workload struct {
	values       []int
	distribution Distribution
	seed         int64
}

func (w *Workload) Len() int { return len(w.values) }

func (w *Workload) Distribution() Distribution { return w.distribution }

func (w *Workload) Seed() int64 { return w.seed }

func (w *Workload) At(i int) int { return w.values[i] }

// Values returns a copy of the sequence.
func (w *Workload) Values() []int {
	out := make([]int, len(w.values))
	copy(out, w.values)

	return out
}

// All iterates the sequence in order.
func (w *Workload) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, v := range w.values {
			if !yield(v) {
				return
			}
		}
	}
}

// Summary contains statistics about the generated workload.
type Summary struct {
	Size     int
	Distinct int
	Min      int
	Max      int
}

// Summarize describes the workload.
func (w *Workload) Summarize() Summary {
	s := Summary{Size: len(w.values)}
	if len(w.values) == 0 {
		return s
	}

	seen := make(map[int]struct{}, len(w.values))
	s.Min, s.Max = w.values[0], w.values[0]
	for _, v := range w.values {
		seen[v] = struct{}{}
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Distinct = len(seen)

	return s
}

// Generator produces deterministic workloads from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Generate builds the workload described by cfg.
func Generate(cfg Config) (*Workload, error) {
	return NewGenerator(cfg).Generate()
}

// Generate builds the workload. Each call restarts from the configured seed.
func (g *Generator) Generate() (*Workload, error) {
	if g.cfg.Size < 0 {
		return nil, fmt.Errorf("workload size %d: must not be negative", g.cfg.Size)
	}

	g.rng.Seed(g.cfg.Seed)

	var values []int

	switch g.cfg.Distribution {
	case Sorted:
		values = g.ascending()

	case Reverse:
		values = g.ascending()
		for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
		}

	case Random:
		values = g.ascending()
		g.rng.Shuffle(len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})

	case DuplicateHeavy:
		frac := g.cfg.DuplicateFraction
		if frac == 0 {
			frac = DefaultDuplicateFraction
		}
		if frac < 0 || frac > 1 {
			return nil, fmt.Errorf("duplicate fraction %.3f: must be in [0, 1]", frac)
		}
		values = g.duplicates(frac)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDistribution, g.cfg.Distribution)
	}

	return &Workload{
		values:       values,
		distribution: g.cfg.Distribution,
		seed:         g.cfg.Seed,
	}, nil
}

// ascending returns 1..n.
func (g *Generator) ascending() []int {
	values := make([]int, g.cfg.Size)
	for i := range values {
		values[i] = i + 1
	}

	return values
}

// duplicates fills round(frac*n) positions from a pool of about sqrt(n)
// values and the rest from the wider range 1..n, then shuffles.
func (g *Generator) duplicates(frac float64) []int {
	n := g.cfg.Size
	values := make([]int, n)

	pool := 1
	for pool*pool < n {
		pool++
	}

	repeated := int(frac*float64(n) + 0.5)
	for i := range values {
		if i < repeated {
			values[i] = 1 + g.rng.Intn(pool)
		} else {
			values[i] = 1 + g.rng.Intn(max(n, 1))
		}
	}

	g.rng.Shuffle(n, func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	return values
}
