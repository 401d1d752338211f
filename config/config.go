// Package config loads and validates benchmark run configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/weiihann/dsbench/harness"
	"github.com/weiihann/dsbench/report"
	"github.com/weiihann/dsbench/workload"
)

// Config describes one benchmark run. DuplicateFraction must be in (0, 1]:
// the workload generator reads zero as unset, so an explicit zero is
// rejected rather than silently replaced by the default.
type Config struct {
	Algorithms        []string      `yaml:"algorithms" validate:"required,min=1,dive,algorithm"`
	Containers        []string      `yaml:"containers" validate:"required,min=1,dive,container"`
	Sizes             []int         `yaml:"sizes" validate:"required,min=1,dive,gte=0"`
	Distributions     []string      `yaml:"distributions" validate:"required,min=1,dive,distribution"`
	DuplicateFraction float64       `yaml:"duplicate_fraction" validate:"gt=0,lte=1"`
	Seed              int64         `yaml:"seed"`
	Warmup            int           `yaml:"warmup" validate:"gte=0"`
	Repetitions       int           `yaml:"repetitions" validate:"gte=1"`
	Timeout           time.Duration `yaml:"timeout" validate:"gte=0"`
	Parallelism       int           `yaml:"parallelism" validate:"gte=1"`
	Pin               bool          `yaml:"pin"`
	CPU               int           `yaml:"cpu" validate:"gte=-1"`
	CollectGarbage    bool          `yaml:"collect_garbage"`
	NoiseThreshold    float64       `yaml:"noise_threshold" validate:"gt=0,lt=1"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		return harness.KnownContainers(fl.Field().String()) != nil
	})
	_ = validate.RegisterValidation("container", func(fl validator.FieldLevel) bool {
		return slices.Contains(harness.Kinds(), fl.Field().String())
	})
	_ = validate.RegisterValidation("distribution", func(fl validator.FieldLevel) bool {
		_, err := workload.ParseDistribution(fl.Field().String())
		return err == nil
	})
}

// Default returns the full matrix at modest sizes.
func Default() Config {
	run := harness.DefaultRunConfig()

	dists := make([]string, 0, 4)
	for _, d := range workload.Distributions() {
		dists = append(dists, string(d))
	}

	return Config{
		Algorithms:        harness.KnownAlgorithms(),
		Containers:        harness.Kinds(),
		Sizes:             []int{100, 1000, 10000},
		Distributions:     dists,
		DuplicateFraction: workload.DefaultDuplicateFraction,
		Seed:              42,
		Warmup:            run.Warmup,
		Repetitions:       run.Repetitions,
		Timeout:           run.Timeout,
		Parallelism:       1,
		Pin:               run.Pin,
		CPU:               run.CPU,
		CollectGarbage:    run.CollectGarbage,
		NoiseThreshold:    report.DefaultNoiseThreshold,
	}
}

// Load reads a YAML file over the defaults and validates the result. Keys
// the file omits keep their default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks field ranges and that every name is known.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Matrix converts the configuration into a harness matrix.
func (c Config) Matrix() (harness.MatrixConfig, error) {
	dists := make([]workload.Distribution, 0, len(c.Distributions))
	for _, name := range c.Distributions {
		d, err := workload.ParseDistribution(name)
		if err != nil {
			return harness.MatrixConfig{}, err
		}
		dists = append(dists, d)
	}

	return harness.MatrixConfig{
		Algorithms:        slices.Clone(c.Algorithms),
		Containers:        slices.Clone(c.Containers),
		Sizes:             slices.Clone(c.Sizes),
		Distributions:     dists,
		DuplicateFraction: c.DuplicateFraction,
		Seed:              c.Seed,
		Run: harness.RunConfig{
			Warmup:         c.Warmup,
			Repetitions:    c.Repetitions,
			Timeout:        c.Timeout,
			CPU:            c.CPU,
			Pin:            c.Pin,
			CollectGarbage: c.CollectGarbage,
		},
		Parallelism: c.Parallelism,
	}, nil
}

// ReportOptions returns the aggregation options.
func (c Config) ReportOptions() report.Options {
	return report.Options{NoiseThreshold: c.NoiseThreshold}
}
