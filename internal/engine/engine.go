// Package engine implements the single-CPU scheduling state machine: arrival
// admission, dispatch through a Policy, one unit of execution per tick, and
// completion/preemption bookkeeping. An Engine is not safe for concurrent use;
// callers serialize Advance themselves.
package engine

import "github.com/me/schedsim/pkg/model"

// Tick describes one call to Advance.
type Tick struct {
	Time   int           // simulated time at the start of the tick
	Slot   string        // process id that executed, or model.Idle
	Events []model.Event // in the order they happened
}

// Engine owns a process set, its ready queue and the append-only timeline.
type Engine struct {
	policy   Policy
	procs    []*Process // admission order: arrival, then creation order
	byID     map[string]*Process
	ready    ReadyQueue
	running  *Process
	slice    int
	now      int
	timeline []string
}

// New creates an engine over fresh records for defs.
func New(policy Policy, defs []model.ProcessDef) *Engine {
	e := &Engine{
		policy: policy,
		byID:   make(map[string]*Process, len(defs)),
	}
	for _, def := range defs {
		e.Add(def)
	}
	return e
}

// Add registers a new process. It becomes visible to arrival admission on the
// next tick.
func (e *Engine) Add(def model.ProcessDef) {
	p := newProcess(def)
	i := len(e.procs)
	for i > 0 && before(def, e.procs[i-1].ProcessDef) {
		i--
	}
	e.procs = append(e.procs, nil)
	copy(e.procs[i+1:], e.procs[i:])
	e.procs[i] = p
	e.byID[def.ID] = p
}

// Remove drops a process from the set, the ready queue and the CPU. Timeline
// entries already recorded for it are kept.
func (e *Engine) Remove(id string) bool {
	p, ok := e.byID[id]
	if !ok {
		return false
	}
	delete(e.byID, id)
	for i, q := range e.procs {
		if q == p {
			e.procs = append(e.procs[:i], e.procs[i+1:]...)
			break
		}
	}
	e.ready.Remove(id)
	if e.running == p {
		e.running = nil
		e.slice = 0
	}
	return true
}

// Reset restores every runtime field and clears time, queue and timeline while
// keeping the definitions.
func (e *Engine) Reset() {
	for _, p := range e.procs {
		p.reset()
	}
	e.ready.Clear()
	e.running = nil
	e.slice = 0
	e.now = 0
	e.timeline = nil
}

// SetPolicy replaces the policy. It applies from the next dispatch or
// preemption check.
func (e *Engine) SetPolicy(p Policy) {
	e.policy = p
}

// Policy returns the active policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Done reports whether every defined process has completed. An empty set is
// never done.
func (e *Engine) Done() bool {
	if len(e.procs) == 0 {
		return false
	}
	for _, p := range e.procs {
		if !p.Completed {
			return false
		}
	}
	return true
}

// Advance executes one tick. It returns false without changing anything when
// there is nothing to simulate: no processes, or all of them completed.
func (e *Engine) Advance() (Tick, bool) {
	if len(e.procs) == 0 || e.Done() {
		return Tick{}, false
	}
	tick := Tick{Time: e.now}

	e.admit(&tick)
	if e.running == nil {
		e.dispatch(&tick)
	}

	if e.running == nil {
		e.timeline = append(e.timeline, model.Idle)
		tick.Slot = model.Idle
		tick.Events = append(tick.Events, model.Event{Kind: model.EventIdle, Time: e.now})
		e.now++
		return tick, true
	}

	p := e.running
	p.Remaining--
	e.slice++
	e.timeline = append(e.timeline, p.ID)
	tick.Slot = p.ID
	tick.Events = append(tick.Events, model.Event{Kind: model.EventExecuted, Time: e.now, ProcessID: p.ID})

	end := e.now + 1
	switch {
	case p.Remaining == 0:
		p.Completed = true
		p.FinishTime = end
		p.state = model.ProcessStateDone
		e.running = nil
		e.slice = 0
		tick.Events = append(tick.Events, model.Event{Kind: model.EventCompleted, Time: end, ProcessID: p.ID})
	case e.policy.Expired(e.slice):
		p.state = model.ProcessStateReady
		e.ready.PushBack(p)
		e.running = nil
		e.slice = 0
		tick.Events = append(tick.Events, model.Event{Kind: model.EventPreempted, Time: end, ProcessID: p.ID})
	}

	e.now = end
	if e.Done() {
		tick.Events = append(tick.Events, model.Event{Kind: model.EventFinished, Time: e.now})
	}
	return tick, true
}

// admit moves every process whose arrival time has been reached into the ready queue.
func (e *Engine) admit(tick *Tick) {
	for _, p := range e.procs {
		if p.Enqueued || p.Arrival > e.now {
			continue
		}
		p.Enqueued = true
		p.state = model.ProcessStateReady
		e.ready.PushBack(p)
		tick.Events = append(tick.Events, model.Event{Kind: model.EventArrived, Time: e.now, ProcessID: p.ID})
	}
}

// dispatch asks the policy for the next process and puts it on the CPU.
func (e *Engine) dispatch(tick *Tick) {
	i := e.policy.Select(&e.ready)
	if i < 0 {
		return
	}
	p := e.ready.RemoveAt(i)
	if p.StartTime == model.Unset {
		p.StartTime = e.now
	}
	p.state = model.ProcessStateRunning
	e.running = p
	e.slice = 0
	tick.Events = append(tick.Events, model.Event{Kind: model.EventDispatched, Time: e.now, ProcessID: p.ID})
}

// Now returns the current simulated time.
func (e *Engine) Now() int {
	return e.now
}

// Running returns the id of the process on the CPU, or "" if none.
func (e *Engine) Running() string {
	if e.running == nil {
		return ""
	}
	return e.running.ID
}

// Slice returns how many consecutive units the running process has used.
func (e *Engine) Slice() int {
	return e.slice
}

// ReadyIDs returns the ready queue, head first.
func (e *Engine) ReadyIDs() []string {
	return e.ready.IDs()
}

// Timeline returns a copy of the per-tick execution record.
func (e *Engine) Timeline() []string {
	out := make([]string, len(e.timeline))
	copy(out, e.timeline)
	return out
}

// Len returns the number of defined processes.
func (e *Engine) Len() int {
	return len(e.procs)
}

// Process returns a snapshot of one process.
func (e *Engine) Process(id string) (model.Process, bool) {
	p, ok := e.byID[id]
	if !ok {
		return model.Process{}, false
	}
	return p.Snapshot(), true
}

// Processes returns snapshots of every process in admission order.
func (e *Engine) Processes() []model.Process {
	out := make([]model.Process, len(e.procs))
	for i, p := range e.procs {
		out[i] = p.Snapshot()
	}
	return out
}
