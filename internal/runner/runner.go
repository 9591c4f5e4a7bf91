// Package runner drives a tick target at a fixed wall-clock cadence. It is the
// only source of ticks for a live simulation; the target itself holds no timer.
package runner

import "context"

// Target is advanced once per tick.
type Target interface {
	// Tick runs a single step and reports whether more steps remain.
	Tick(ctx context.Context) (bool, error)
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(ctx context.Context) (bool, error)

// Tick calls f(ctx).
func (f TargetFunc) Tick(ctx context.Context) (bool, error) {
	return f(ctx)
}
