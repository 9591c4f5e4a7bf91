package model

// EventKind classifies what happened during a tick.
type EventKind string

const (
	EventArrived    EventKind = "ARRIVED"
	EventDispatched EventKind = "DISPATCHED"
	EventExecuted   EventKind = "EXECUTED"
	EventIdle       EventKind = "IDLE"
	EventPreempted  EventKind = "PREEMPTED"
	EventCompleted  EventKind = "COMPLETED"
	EventFinished   EventKind = "FINISHED"
)

// Event is one observable step of a tick. Time is the simulated time at which it
// took effect: arrivals and dispatches at the start of the tick, preemption and
// completion at its end.
type Event struct {
	Kind      EventKind `json:"kind"`
	Time      int       `json:"time"`
	ProcessID string    `json:"process_id,omitempty"`
}
