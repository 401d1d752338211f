// Package harness times algorithm and container operations over generated
// workloads at cycle granularity and runs the benchmark matrix.
package harness

import "github.com/weiihann/dsbench/workload"

// Trial is one timed execution of a case against a workload. Trials are
// never modified after they are recorded.
type Trial struct {
	Algorithm    string                `json:"algorithm"`
	Container    string                `json:"container"`
	Distribution workload.Distribution `json:"distribution"`
	Size         int                   `json:"size"`
	Repetition   int                   `json:"repetition"`
	Cycles       uint64                `json:"cycles"`
	Nanos        int64                 `json:"nanos"`
	Valid        bool                  `json:"valid"`
	Error        string                `json:"error,omitempty"`
}

// Cell is the set of trials for one (algorithm, container, distribution,
// size) tuple. Incomplete marks a cell cut short by the timeout ceiling or
// by cancellation; its trials are a partial sample.
type Cell struct {
	Algorithm    string                `json:"algorithm"`
	Container    string                `json:"container"`
	Distribution workload.Distribution `json:"distribution"`
	Size         int                   `json:"size"`
	Trials       []Trial               `json:"trials"`
	Incomplete   bool                  `json:"incomplete"`
	Error        string                `json:"error,omitempty"`
}

// Failed counts the trials that did not produce a valid outcome.
func (c Cell) Failed() int {
	n := 0
	for _, t := range c.Trials {
		if !t.Valid {
			n++
		}
	}

	return n
}
