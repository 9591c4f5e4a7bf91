package model

import "time"

// Snapshot is a complete-tick view of the live simulation.
type Snapshot struct {
	State      RunState       `json:"state"`
	Algorithm  Algorithm      `json:"algorithm"`
	Quantum    int            `json:"quantum"`
	Time       int            `json:"time"`
	Running    string         `json:"running"`
	ReadyQueue []string       `json:"ready_queue"`
	Timeline   []string       `json:"timeline"`
	Segments   []Segment      `json:"segments"`
	Processes  []ProcessStats `json:"processes"`
	Completed  bool           `json:"completed"`
	Summary    *Summary       `json:"summary,omitempty"`
}

// Preview is the result of running the current definitions to completion
// without touching the live simulation.
type Preview struct {
	Algorithm Algorithm      `json:"algorithm"`
	Quantum   int            `json:"quantum"`
	Timeline  []string       `json:"timeline"`
	Segments  []Segment      `json:"segments"`
	Processes []ProcessStats `json:"processes"`
	Summary   *Summary       `json:"summary,omitempty"`
}

// Run is the archived record of a completed live simulation.
type Run struct {
	ID          string         `json:"id"`
	Algorithm   Algorithm      `json:"algorithm"`
	Quantum     int            `json:"quantum"`
	Definitions []ProcessDef   `json:"definitions"`
	Timeline    []string       `json:"timeline"`
	Processes   []ProcessStats `json:"processes"`
	Summary     Summary        `json:"summary"`
	CreatedAt   time.Time      `json:"created_at"`
}
