package engine

import (
	"fmt"

	"github.com/me/schedsim/pkg/model"
)

// Policy decides which ready process receives the CPU. The engine consults it
// only while no process is running, so a non-preemptive policy never sees its
// current process again until that process completes.
type Policy interface {
	Algorithm() model.Algorithm

	// Select returns the position in ready of the process to dispatch next,
	// or -1 when ready is empty.
	Select(ready *ReadyQueue) int

	// Expired reports whether a process that has run for slice consecutive
	// units must give up the CPU.
	Expired(slice int) bool
}

// NewPolicy returns the policy for alg. The quantum is only used by Round Robin
// and is raised to 1 if smaller.
func NewPolicy(alg model.Algorithm, quantum int) (Policy, error) {
	switch alg {
	case model.AlgorithmFCFS:
		return FCFS{}, nil
	case model.AlgorithmSJF:
		return SJF{}, nil
	case model.AlgorithmRoundRobin:
		return RoundRobin{Quantum: max(1, quantum)}, nil
	}
	return nil, fmt.Errorf("unsupported algorithm %q", alg)
}

// FCFS dispatches the head of the ready queue and never preempts.
type FCFS struct{}

func (FCFS) Algorithm() model.Algorithm { return model.AlgorithmFCFS }

func (FCFS) Select(ready *ReadyQueue) int {
	if ready.Len() == 0 {
		return -1
	}
	return 0
}

func (FCFS) Expired(int) bool { return false }

// SJF dispatches the ready process with the smallest original burst. Ties go to
// the earlier arrival, then to the earlier creation order. It never preempts.
type SJF struct{}

func (SJF) Algorithm() model.Algorithm { return model.AlgorithmSJF }

func (SJF) Select(ready *ReadyQueue) int {
	best := -1
	for i := 0; i < ready.Len(); i++ {
		if best < 0 || shorter(ready.At(i), ready.At(best)) {
			best = i
		}
	}
	return best
}

func (SJF) Expired(int) bool { return false }

func shorter(a, b *Process) bool {
	if a.Burst != b.Burst {
		return a.Burst < b.Burst
	}
	if a.Arrival != b.Arrival {
		return a.Arrival < b.Arrival
	}
	return a.Order < b.Order
}

// RoundRobin dispatches the head of the ready queue and preempts a process once
// it has used Quantum consecutive units.
type RoundRobin struct {
	Quantum int
}

func (RoundRobin) Algorithm() model.Algorithm { return model.AlgorithmRoundRobin }

func (RoundRobin) Select(ready *ReadyQueue) int {
	if ready.Len() == 0 {
		return -1
	}
	return 0
}

func (r RoundRobin) Expired(slice int) bool { return slice >= r.Quantum }
