//go:build !linux

package cycles

import "runtime"

// Pin locks the calling goroutine to its OS thread. CPU affinity is only
// applied on linux; cpu is ignored elsewhere.
func Pin(cpu int) (func(), error) {
	runtime.LockOSThread()

	return runtime.UnlockOSThread, nil
}

// Allowed returns CPU ids 0 through NumCPU-1. Without an affinity mask to
// read they are only slots; Pin does not bind them.
func Allowed() ([]int, error) {
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}

	return cpus, nil
}
