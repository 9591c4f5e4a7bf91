package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MinInterval is the shortest allowed wall-clock time per simulated unit.
const MinInterval = 8 * time.Millisecond

// Config holds loop configuration.
type Config struct {
	Interval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Interval: 60 * time.Millisecond}
}

// ClampInterval raises d to MinInterval.
func ClampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	return d
}

// Loop ticks a Target on a time.Ticker until the target runs out of work, Stop
// is called, or the context is cancelled. Ticks never overlap.
type Loop struct {
	target   Target
	config   Config
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a new loop. It does nothing until Start is called.
func NewLoop(target Target, cfg Config, logger *slog.Logger) *Loop {
	cfg.Interval = ClampInterval(cfg.Interval)
	return &Loop{
		target: target,
		config: cfg,
		logger: logger.With("component", "runner"),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins ticking. Blocks until the target is exhausted, ctx is cancelled
// or Stop is called. A Loop can be started once.
func (l *Loop) Start(ctx context.Context) error {
	defer close(l.doneCh)

	l.logger.Debug("loop started", "interval", l.config.Interval)
	ticker := time.NewTicker(l.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("loop stopping (context cancelled)")
			return ctx.Err()
		case <-l.stopCh:
			l.logger.Debug("loop stopping (stop called)")
			return nil
		case <-ticker.C:
			more, err := l.Tick(ctx)
			if err != nil {
				l.logger.Error("tick error", "error", err)
			}
			if !more {
				l.logger.Debug("loop stopping (target exhausted)")
				return nil
			}
		}
	}
}

// Stop asks the loop to exit and waits for the tick in progress to finish.
// It is safe to call more than once, and after the loop has exited on its own.
func (l *Loop) Stop() error {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.doneCh
	return nil
}

// Done is closed once Start has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.doneCh
}

// Tick runs a single iteration of the target. Used for testing.
func (l *Loop) Tick(ctx context.Context) (bool, error) {
	return l.target.Tick(ctx)
}

// Interval returns the effective tick interval.
func (l *Loop) Interval() time.Duration {
	return l.config.Interval
}
