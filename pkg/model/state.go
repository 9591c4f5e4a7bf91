package model

// ProcessState represents where a Process sits in the scheduling lifecycle.
type ProcessState string

const (
	ProcessStateNotArrived ProcessState = "NOT_ARRIVED"
	ProcessStateReady      ProcessState = "READY"
	ProcessStateRunning    ProcessState = "RUNNING"
	ProcessStateDone       ProcessState = "DONE"
)

// String returns the string representation of the process state.
func (s ProcessState) String() string {
	return string(s)
}

// IsTerminal returns true if the process has completed.
func (s ProcessState) IsTerminal() bool {
	return s == ProcessStateDone
}

// ValidProcessTransitions defines the allowed state transitions for Processes.
// RUNNING → READY only happens on Round Robin preemption.
var ValidProcessTransitions = map[ProcessState][]ProcessState{
	ProcessStateNotArrived: {ProcessStateReady},
	ProcessStateReady:      {ProcessStateRunning},
	ProcessStateRunning:    {ProcessStateReady, ProcessStateDone},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s ProcessState) CanTransitionTo(next ProcessState) bool {
	for _, allowed := range ValidProcessTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RunState represents the lifecycle state of the live simulation.
type RunState string

const (
	RunStateReady     RunState = "READY"
	RunStateRunning   RunState = "RUNNING"
	RunStatePaused    RunState = "PAUSED"
	RunStateCompleted RunState = "COMPLETED"
)

// String returns the string representation of the run state.
func (s RunState) String() string {
	return string(s)
}

// IsTerminal returns true if the simulation has finished.
func (s RunState) IsTerminal() bool {
	return s == RunStateCompleted
}

// ValidRunTransitions defines the allowed state transitions for the live simulation.
// READY is reached from every state through Reset or Clear and is listed explicitly.
var ValidRunTransitions = map[RunState][]RunState{
	RunStateReady:     {RunStateRunning, RunStatePaused, RunStateCompleted},
	RunStateRunning:   {RunStatePaused, RunStateCompleted, RunStateReady},
	RunStatePaused:    {RunStateRunning, RunStateCompleted, RunStateReady},
	RunStateCompleted: {RunStateReady},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s RunState) CanTransitionTo(next RunState) bool {
	for _, allowed := range ValidRunTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
