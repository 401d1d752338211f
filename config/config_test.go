package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/weiihann/dsbench/harness"
	"github.com/weiihann/dsbench/workload"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bench.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	m, err := cfg.Matrix()
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}

	if _, err := harness.Plan(m); err != nil {
		t.Errorf("default matrix does not plan: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
algorithms: [quick, merge]
containers: [array]
sizes: [1000]
distributions: [random, dup]
repetitions: 25
timeout: 30s
parallelism: 2
pin: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Repetitions != 25 {
		t.Errorf("repetitions = %d, want 25", cfg.Repetitions)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Warmup != Default().Warmup {
		t.Errorf("warmup = %d, want default", cfg.Warmup)
	}
	if cfg.Pin {
		t.Error("pin should be overridden to false")
	}

	m, err := cfg.Matrix()
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}

	if len(m.Distributions) != 2 || m.Distributions[1] != workload.DuplicateHeavy {
		t.Errorf("distributions = %v", m.Distributions)
	}
	if m.Run.Repetitions != 25 || m.Parallelism != 2 || m.Run.Pin {
		t.Errorf("matrix = %+v", m)
	}
	if cfg.ReportOptions().NoiseThreshold != cfg.NoiseThreshold {
		t.Error("noise threshold not carried")
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Seed != 42 || len(cfg.Algorithms) != len(harness.KnownAlgorithms()) {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown algorithm", "algorithms: [bogo]", "algorithm"},
		{"unknown container", "containers: [rope]", "container"},
		{"unknown distribution", "distributions: [zipf]", "distribution"},
		{"fraction out of range", "duplicate_fraction: 1.5", "DuplicateFraction"},
		{"zero fraction", "duplicate_fraction: 0", "DuplicateFraction"},
		{"zero repetitions", "repetitions: 0", "Repetitions"},
		{"negative size", "sizes: [-1]", "Sizes"},
		{"unknown key", "repetitons: 5", "repetitons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
