// Package cycles reads a machine cycle counter and stabilizes the execution
// context around timed regions.
//
// On amd64 the counter is the time-stamp counter read with a fenced RDTSC.
// Elsewhere it falls back to monotonic nanoseconds, and Source reports
// which one is in use so results from different hosts are not mixed up.
package cycles

import (
	"slices"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

const calibrationRounds = 1001

// Now returns the current counter reading.
func Now() uint64 { return read() }

// Since returns the counter delta from start.
func Since(start uint64) uint64 { return read() - start }

// Source names the counter backing Now: "tsc" or "monotonic-ns".
func Source() string { return source }

// Info describes the host CPU.
type Info struct {
	Brand         string `json:"brand"`
	Vendor        string `json:"vendor"`
	PhysicalCores int    `json:"physical_cores"`
	LogicalCores  int    `json:"logical_cores"`
	NominalHz     int64  `json:"nominal_hz"`
	RDTSCP        bool   `json:"rdtscp"`
	Source        string `json:"source"`
}

// Host reports the CPU the process runs on.
func Host() Info {
	return Info{
		Brand:         cpuid.CPU.BrandName,
		Vendor:        cpuid.CPU.VendorString,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		NominalHz:     cpuid.CPU.Hz,
		RDTSCP:        cpuid.CPU.Has(cpuid.RDTSCP),
		Source:        source,
	}
}

var (
	overheadOnce sync.Once
	overhead     uint64
)

// Overhead is the median cost of an empty timed region: two back-to-back
// reads. The harness subtracts it from every sample. It is measured once
// per process.
func Overhead() uint64 {
	overheadOnce.Do(func() {
		overhead = calibrate(calibrationRounds)
	})

	return overhead
}

func calibrate(rounds int) uint64 {
	samples := make([]uint64, rounds)
	for i := range samples {
		start := read()
		samples[i] = read() - start
	}

	slices.Sort(samples)

	return samples[len(samples)/2]
}
