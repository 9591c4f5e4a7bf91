package model

import "fmt"

// Unset marks a start/finish time or statistic that is not yet known.
const Unset = -1

// ProcessSpec is the caller-supplied part of a process definition.
type ProcessSpec struct {
	Arrival int `json:"arrival" yaml:"arrival"`
	Burst   int `json:"burst" yaml:"burst"`
}

// Workload bounds. A full schedule is at most MaxProcesses*MaxTime + MaxTime
// ticks long.
const (
	MaxTime      = 10_000
	MaxProcesses = 500
)

// Validate checks the arrival/burst bounds.
func (s ProcessSpec) Validate() []FieldError {
	var errs []FieldError
	switch {
	case s.Arrival < 0:
		errs = append(errs, FieldError{Field: "arrival", Message: "must be >= 0"})
	case s.Arrival > MaxTime:
		errs = append(errs, FieldError{Field: "arrival", Message: fmt.Sprintf("must be <= %d", MaxTime)})
	}
	switch {
	case s.Burst <= 0:
		errs = append(errs, FieldError{Field: "burst", Message: "must be > 0"})
	case s.Burst > MaxTime:
		errs = append(errs, FieldError{Field: "burst", Message: fmt.Sprintf("must be <= %d", MaxTime)})
	}
	return errs
}

// ValidateSpecs checks a whole process set. Field names are prefixed with
// the position, as in "processes[2].burst".
func ValidateSpecs(specs []ProcessSpec) []FieldError {
	var errs []FieldError
	if len(specs) > MaxProcesses {
		errs = append(errs, FieldError{Field: "processes", Message: fmt.Sprintf("at most %d processes", MaxProcesses)})
	}
	for i, spec := range specs {
		for _, fe := range spec.Validate() {
			fe.Field = fmt.Sprintf("processes[%d].%s", i, fe.Field)
			errs = append(errs, fe)
		}
	}
	return errs
}

// ProcessDef is an immutable process definition. Order is the creation order and
// is the final tie-breaker wherever two processes are otherwise equal.
type ProcessDef struct {
	ID      string `json:"id"`
	Order   int    `json:"order"`
	Arrival int    `json:"arrival"`
	Burst   int    `json:"burst"`
}

// Spec returns the caller-supplied part of the definition.
func (d ProcessDef) Spec() ProcessSpec {
	return ProcessSpec{Arrival: d.Arrival, Burst: d.Burst}
}

func (d ProcessDef) String() string {
	return fmt.Sprintf("%s (arrival:%d, burst:%d)", d.ID, d.Arrival, d.Burst)
}

// Process is a point-in-time copy of a process definition and its runtime fields.
// Values handed out by the simulator never alias engine state.
type Process struct {
	ProcessDef
	State      ProcessState `json:"state"`
	Remaining  int          `json:"remaining"`
	StartTime  int          `json:"start_time"`
	FinishTime int          `json:"finish_time"`
	Enqueued   bool         `json:"enqueued"`
	Completed  bool         `json:"completed"`
}

// Executed returns the number of CPU units the process has received so far.
func (p Process) Executed() int {
	return p.Burst - max(0, p.Remaining)
}
