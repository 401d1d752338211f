package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/weiihann/dsbench/cycles"
	"github.com/weiihann/dsbench/harness"
	"github.com/weiihann/dsbench/workload"
)

func cell(alg, kind string, dist workload.Distribution, size int, samples ...uint64) harness.Cell {
	c := harness.Cell{Algorithm: alg, Container: kind, Distribution: dist, Size: size}
	for i, s := range samples {
		c.Trials = append(c.Trials, harness.Trial{
			Algorithm:    alg,
			Container:    kind,
			Distribution: dist,
			Size:         size,
			Repetition:   i,
			Cycles:       s,
			Nanos:        int64(s),
			Valid:        true,
		})
	}

	return c
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateStatistics(t *testing.T) {
	entries := Aggregate([]harness.Cell{
		cell("quick", "array", workload.Random, 1000, 40, 10, 30, 20),
	}, Options{})

	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	e := entries[0]

	if e.Samples != 4 || e.Min != 10 {
		t.Errorf("samples = %d, min = %d", e.Samples, e.Min)
	}
	if !approx(e.Median, 25) {
		t.Errorf("median = %v, want 25", e.Median)
	}
	if !approx(e.Mean, 25) {
		t.Errorf("mean = %v, want 25", e.Mean)
	}
	if !approx(e.Variance, 125) {
		t.Errorf("variance = %v, want 125", e.Variance)
	}
	if !approx(e.StdDev, math.Sqrt(125)) {
		t.Errorf("stddev = %v", e.StdDev)
	}
	if !e.Noisy {
		t.Error("cv of 0.45 should be noisy")
	}
}

func TestAggregateOddMedian(t *testing.T) {
	e := Aggregate([]harness.Cell{cell("merge", "slice", workload.Sorted, 10, 7, 3, 5)}, Options{})[0]

	if !approx(e.Median, 5) {
		t.Errorf("median = %v, want 5", e.Median)
	}
}

func TestAggregateNoiseThreshold(t *testing.T) {
	cells := []harness.Cell{cell("heap", "slice", workload.Random, 100, 100, 104, 96, 100)}

	if Aggregate(cells, Options{})[0].Noisy {
		t.Error("low variance entry flagged noisy at default threshold")
	}
	if !Aggregate(cells, Options{NoiseThreshold: 0.01})[0].Noisy {
		t.Error("expected noisy at a 1% threshold")
	}
}

func TestAggregateSkipsFailedTrials(t *testing.T) {
	c := cell("quick", "slice", workload.Random, 10, 10, 20)
	c.Trials = append(c.Trials, harness.Trial{Cycles: 1, Error: "invalid outcome: bad"})

	e := Aggregate([]harness.Cell{c}, Options{})[0]

	if e.Samples != 2 || e.Failed != 1 {
		t.Errorf("samples = %d, failed = %d", e.Samples, e.Failed)
	}
	if e.Min != 10 {
		t.Errorf("failed trial leaked into min: %d", e.Min)
	}
	if e.Error == "" {
		t.Error("expected failure reason to be carried")
	}
}

func TestAggregateIncomplete(t *testing.T) {
	c := cell("insertion", "array", workload.Reverse, 100000, 5)
	c.Incomplete = true
	c.Error = harness.ErrTimeout.Error()

	e := Aggregate([]harness.Cell{c}, Options{})[0]

	if !e.Incomplete {
		t.Error("expected incomplete entry")
	}
	if e.Samples != 1 {
		t.Errorf("partial sample dropped: %d", e.Samples)
	}
}

func TestAggregateGroupsInFirstSeenOrder(t *testing.T) {
	entries := Aggregate([]harness.Cell{
		cell("quick", "slice", workload.Random, 10, 1),
		cell("merge", "slice", workload.Random, 10, 2),
		cell("quick", "slice", workload.Random, 10, 3),
	}, Options{})

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Algorithm != "quick" || entries[0].Samples != 2 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Algorithm != "merge" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestAggregateEmptyCell(t *testing.T) {
	c := harness.Cell{Algorithm: "bfs", Container: "graph", Distribution: workload.Random, Size: 10, Incomplete: true}

	e := Aggregate([]harness.Cell{c}, Options{})[0]

	if e.Samples != 0 || e.Noisy || e.Mean != 0 {
		t.Errorf("unexpected statistics for empty cell: %+v", e)
	}
}

func TestDescribeEmptyInput(t *testing.T) {
	var e Entry
	if err := describe(&e, nil, nil); !errors.Is(err, stats.EmptyInputErr) {
		t.Errorf("error = %v, want empty input", err)
	}
}

func TestAggregateLargeCycleCounts(t *testing.T) {
	e := Aggregate([]harness.Cell{
		cell("insertion", "list", workload.Reverse, 100000, 3_000_000_000, 3_000_000_002),
	}, Options{})[0]

	if e.Min != 3_000_000_000 || !approx(e.Median, 3_000_000_001) || !approx(e.Variance, 1) {
		t.Errorf("min = %d, median = %v, variance = %v", e.Min, e.Median, e.Variance)
	}
}

func TestGenerate(t *testing.T) {
	entries := Aggregate([]harness.Cell{
		cell("quick", "array", workload.Random, 1000, 1000, 1000),
		cell("insertion", "array", workload.Random, 1000, 2000, 2000),
		cell("insertion", "array", workload.Sorted, 1000, 500, 500),
	}, Options{})

	var buf bytes.Buffer
	if err := Generate(&buf, entries); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{"quick", "insertion", "random", "sorted", "2.00x", "1K", "2K"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}

	// The sorted entry is alone in its group.
	lines := strings.Split(output, "\n")
	for _, line := range lines {
		if strings.Contains(line, "| sorted |") && !strings.Contains(line, "1.00x") {
			t.Errorf("sorted row should be its own baseline: %s", line)
		}
	}
}

func TestGenerateNotes(t *testing.T) {
	c := cell("quick", "slice", workload.Random, 10, 10, 100)
	c.Incomplete = true
	c.Trials = append(c.Trials, harness.Trial{Error: "boom"})

	var buf bytes.Buffer
	if err := Generate(&buf, Aggregate([]harness.Cell{c}, Options{})); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "incomplete, noisy, 1 failed") {
		t.Errorf("missing notes:\n%s", buf.String())
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, nil); !errors.Is(err, ErrNoEntries) {
		t.Errorf("error = %v, want ErrNoEntries", err)
	}
}

func TestGenerateJSON(t *testing.T) {
	cells := []harness.Cell{cell("quick", "array", workload.Random, 1000, 100, 200)}
	r := NewReport(time.Now(), cycles.Info{Brand: "test", Source: "tsc"}, cells, Options{}, true)

	var buf bytes.Buffer
	if err := GenerateJSON(&buf, r); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if decoded.RunID == "" || decoded.RunID != r.RunID {
		t.Errorf("run id = %q, want %q", decoded.RunID, r.RunID)
	}
	if len(decoded.Entries) != 1 || decoded.Entries[0].Median != 150 {
		t.Errorf("entries = %+v", decoded.Entries)
	}
	if len(decoded.Cells) != 1 || len(decoded.Cells[0].Trials) != 2 {
		t.Errorf("raw trials not kept: %+v", decoded.Cells)
	}
	if decoded.Host.Brand != "test" {
		t.Errorf("host = %+v", decoded.Host)
	}
}

func TestNewReportWithoutTrials(t *testing.T) {
	a := NewReport(time.Now(), cycles.Info{}, nil, Options{}, false)
	b := NewReport(time.Now(), cycles.Info{}, nil, Options{}, false)

	if a.Cells != nil {
		t.Error("cells kept without withTrials")
	}
	if a.RunID == b.RunID {
		t.Error("run ids should be unique")
	}
}

func TestFormatCycles(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5K"},
		{2_000_000, "2M"},
		{3_250_000_000, "3.25G"},
	}

	for _, tt := range tests {
		if got := formatCycles(tt.in); got != tt.want {
			t.Errorf("formatCycles(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
