package engine

import "github.com/me/schedsim/pkg/model"

// Process is the engine-owned record of one definition plus its runtime fields.
type Process struct {
	model.ProcessDef
	Remaining  int
	StartTime  int
	FinishTime int
	Enqueued   bool
	Completed  bool

	state model.ProcessState
}

func newProcess(def model.ProcessDef) *Process {
	p := &Process{ProcessDef: def}
	p.reset()
	return p
}

// reset restores the runtime fields without touching the definition.
func (p *Process) reset() {
	p.Remaining = p.Burst
	p.StartTime = model.Unset
	p.FinishTime = model.Unset
	p.Enqueued = false
	p.Completed = false
	p.state = model.ProcessStateNotArrived
}

// State returns the lifecycle state of the process.
func (p *Process) State() model.ProcessState {
	return p.state
}

// Snapshot returns a copy safe to hand outside the engine.
func (p *Process) Snapshot() model.Process {
	return model.Process{
		ProcessDef: p.ProcessDef,
		State:      p.state,
		Remaining:  p.Remaining,
		StartTime:  p.StartTime,
		FinishTime: p.FinishTime,
		Enqueued:   p.Enqueued,
		Completed:  p.Completed,
	}
}

// before orders processes for arrival admission: earlier arrival first, then
// earlier creation.
func before(a, b model.ProcessDef) bool {
	if a.Arrival != b.Arrival {
		return a.Arrival < b.Arrival
	}
	return a.Order < b.Order
}
