package model

import (
	"fmt"
	"strings"
)

// Algorithm identifies a CPU scheduling policy.
type Algorithm string

const (
	AlgorithmFCFS       Algorithm = "FCFS"
	AlgorithmSJF        Algorithm = "SJF"
	AlgorithmRoundRobin Algorithm = "RR"
)

// DefaultQuantum is the Round Robin time slice used when none (or a non-positive one) is given.
const DefaultQuantum = 2

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{AlgorithmFCFS, AlgorithmSJF, AlgorithmRoundRobin}

// String returns the string representation of the algorithm.
func (a Algorithm) String() string {
	return string(a)
}

// Description returns the long human-readable name.
func (a Algorithm) Description() string {
	switch a {
	case AlgorithmFCFS:
		return "First-Come-First-Served (non-preemptive)"
	case AlgorithmSJF:
		return "Shortest Job First (non-preemptive)"
	case AlgorithmRoundRobin:
		return "Round Robin (preemptive)"
	}
	return string(a)
}

// Preemptive reports whether the algorithm can take the CPU away from a running process.
func (a Algorithm) Preemptive() bool {
	return a == AlgorithmRoundRobin
}

// Valid returns true for the supported algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmFCFS, AlgorithmSJF, AlgorithmRoundRobin:
		return true
	}
	return false
}

// ParseAlgorithm converts user input to an Algorithm. Short names, hyphenated
// names and the long descriptions are all accepted, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch {
	case key == "fcfs", key == "fifo", strings.HasPrefix(key, "first-come"), strings.HasPrefix(key, "first come"):
		return AlgorithmFCFS, nil
	case key == "sjf", strings.HasPrefix(key, "shortest"):
		return AlgorithmSJF, nil
	case key == "rr", key == "roundrobin", strings.HasPrefix(key, "round-robin"), strings.HasPrefix(key, "round robin"):
		return AlgorithmRoundRobin, nil
	}
	return "", fmt.Errorf("unknown algorithm %q (want fcfs, sjf or rr)", s)
}

// NormalizeQuantum coerces a non-positive quantum to DefaultQuantum.
func NormalizeQuantum(q int) int {
	if q <= 0 {
		return DefaultQuantum
	}
	return q
}
