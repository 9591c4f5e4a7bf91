package engine

import "github.com/me/schedsim/pkg/model"

// Result is a schedule computed to completion.
type Result struct {
	Timeline  []string
	Processes []model.Process
}

// Preview runs defs to completion on a private engine and returns the timeline
// together with the final process records. Nothing outside the private engine
// is read or written, so it may run concurrently with a live engine.
func Preview(policy Policy, defs []model.ProcessDef) Result {
	e := New(policy, defs)
	e.RunToCompletion()
	return Result{Timeline: e.timeline, Processes: e.Processes()}
}

// RunToCompletion advances until Advance reports there is nothing left to do
// and returns the number of ticks executed.
func (e *Engine) RunToCompletion() int {
	n := 0
	for {
		if _, ok := e.Advance(); !ok {
			return n
		}
		n++
	}
}
