// Package simulator is the boundary between callers (HTTP API, CLI, tests) and
// the tick engine. It validates input, assigns process ids, owns the live run
// loop and hands out complete-tick snapshots only.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/me/schedsim/internal/engine"
	"github.com/me/schedsim/internal/logging"
	"github.com/me/schedsim/internal/runner"
	"github.com/me/schedsim/internal/timeline"
	"github.com/me/schedsim/pkg/model"
)

// Recorder archives completed live runs.
type Recorder interface {
	CreateRun(ctx context.Context, run *model.Run) error
}

// Config holds the initial simulator settings.
type Config struct {
	Algorithm    model.Algorithm
	Quantum      int
	TickInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Algorithm:    model.AlgorithmFCFS,
		Quantum:      model.DefaultQuantum,
		TickInterval: runner.DefaultConfig().Interval,
	}
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRecorder archives every run that completes while the simulator is live.
func WithRecorder(r Recorder) Option {
	return func(s *Simulator) { s.recorder = r }
}

// Simulator guards a single engine. Ticks from the run loop and from Advance
// are serialized by mu; control operations (start, pause, reset...) are
// serialized by ctl so that at most one run loop exists at a time.
type Simulator struct {
	ctl sync.Mutex

	mu        sync.Mutex
	engine    *engine.Engine
	algorithm model.Algorithm
	quantum   int
	interval  time.Duration
	state     model.RunState
	nextID    int
	loop      *runner.Loop
	archived  bool

	recorder Recorder
	logger   *slog.Logger
}

// New creates a simulator with an empty process set.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Simulator, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = model.AlgorithmFCFS
	}
	if !cfg.Algorithm.Valid() {
		return nil, fmt.Errorf("unknown algorithm %q", cfg.Algorithm)
	}
	cfg.Quantum = model.NormalizeQuantum(cfg.Quantum)
	policy, err := engine.NewPolicy(cfg.Algorithm, cfg.Quantum)
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		engine:    engine.New(policy, nil),
		algorithm: cfg.Algorithm,
		quantum:   cfg.Quantum,
		interval:  runner.ClampInterval(cfg.TickInterval),
		state:     model.RunStateReady,
		logger:    logger.With("component", "simulator"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// --- Process set ---

// AddProcess validates spec and registers a new process with the next id.
// Processes may be added while a run is in progress; they are admitted once the
// clock reaches their arrival time.
func (s *Simulator) AddProcess(spec model.ProcessSpec) (model.Process, error) {
	if errs := spec.Validate(); len(errs) > 0 {
		return model.Process{}, model.NewValidationError("invalid process", errs...)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.Len() >= model.MaxProcesses {
		return model.Process{}, model.NewConflictError(fmt.Sprintf("process set is full (%d processes)", model.MaxProcesses))
	}
	def := s.addLocked(spec)
	p, _ := s.engine.Process(def.ID)
	s.logger.Debug("process added", "id", def.ID, "arrival", def.Arrival, "burst", def.Burst)
	return p, nil
}

func (s *Simulator) addLocked(spec model.ProcessSpec) model.ProcessDef {
	s.nextID++
	def := model.ProcessDef{
		ID:      "P" + strconv.Itoa(s.nextID),
		Order:   s.nextID,
		Arrival: spec.Arrival,
		Burst:   spec.Burst,
	}
	s.engine.Add(def)
	s.archived = false
	if s.state == model.RunStateCompleted {
		s.state = model.RunStateReady
	}
	return def
}

// RemoveProcess removes the process with the given id.
func (s *Simulator) RemoveProcess(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

// RemoveProcessAt removes the process at a zero-based position in the
// admission-ordered process list.
func (s *Simulator) RemoveProcessAt(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAtLocked(index)
}

// Remove resolves ref as a process id first and as a zero-based index second,
// both against the same view of the process set.
func (s *Simulator) Remove(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.engine.Process(ref); ok {
		return s.removeLocked(ref)
	}
	index, err := strconv.Atoi(ref)
	if err != nil {
		return "", model.NewNotFoundError("process", ref)
	}
	return s.removeAtLocked(index)
}

func (s *Simulator) removeAtLocked(index int) (string, error) {
	procs := s.engine.Processes()
	if index < 0 || index >= len(procs) {
		return "", model.NewNotFoundError("process", strconv.Itoa(index))
	}
	return s.removeLocked(procs[index].ID)
}

func (s *Simulator) removeLocked(id string) (string, error) {
	if !s.engine.Remove(id) {
		return "", model.NewNotFoundError("process", id)
	}
	s.logger.Debug("process removed", "id", id)
	if s.engine.Done() && s.state != model.RunStateReady {
		s.state = model.RunStateCompleted
	}
	return id, nil
}

// Clear stops any run in progress, drops every process and rewinds the clock.
// Process ids start over from P1.
func (s *Simulator) Clear() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopLoop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine.New(s.engine.Policy(), nil)
	s.nextID = 0
	s.state = model.RunStateReady
	s.archived = false
	s.logger.Info("process set cleared")
}

// Replace stops any run in progress and swaps the whole process set for specs.
// Nothing changes unless every spec is valid.
func (s *Simulator) Replace(specs []model.ProcessSpec) ([]model.Process, error) {
	if errs := model.ValidateSpecs(specs); len(errs) > 0 {
		return nil, model.NewValidationError("invalid process set", errs...)
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopLoop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine.New(s.engine.Policy(), nil)
	s.nextID = 0
	s.state = model.RunStateReady
	s.archived = false
	for _, spec := range specs {
		s.addLocked(spec)
	}
	s.logger.Info("process set replaced", "count", len(specs))
	return s.engine.Processes(), nil
}

// Processes returns copies of every process in admission order.
func (s *Simulator) Processes() []model.Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Processes()
}

// --- Configuration ---

// SetAlgorithm selects the scheduling policy for the next run. The policy cannot
// change in the middle of a run.
func (s *Simulator) SetAlgorithm(alg model.Algorithm) error {
	if !alg.Valid() {
		return model.NewValidationError("invalid algorithm",
			model.FieldError{Field: "algorithm", Message: fmt.Sprintf("unknown algorithm %q", alg)})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if alg == s.algorithm {
		return nil
	}
	if err := s.configurableLocked(); err != nil {
		return err
	}
	return s.applyPolicyLocked(alg, s.quantum)
}

// SetQuantum sets the Round Robin time slice. Non-positive values are rejected.
func (s *Simulator) SetQuantum(q int) error {
	if q <= 0 {
		return model.NewValidationError("invalid quantum",
			model.FieldError{Field: "quantum", Message: "must be > 0"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if q == s.quantum {
		return nil
	}
	if err := s.configurableLocked(); err != nil {
		return err
	}
	return s.applyPolicyLocked(s.algorithm, q)
}

// configurableLocked rejects policy changes while a run is live or paused, or
// once the clock has moved and the run has not completed.
func (s *Simulator) configurableLocked() error {
	switch {
	case s.state == model.RunStateRunning, s.state == model.RunStatePaused,
		s.engine.Now() > 0 && s.state != model.RunStateCompleted:
		return model.NewConflictError("simulation in progress; reset before changing the scheduling policy")
	}
	return nil
}

func (s *Simulator) applyPolicyLocked(alg model.Algorithm, q int) error {
	policy, err := engine.NewPolicy(alg, q)
	if err != nil {
		return model.NewValidationError(err.Error())
	}
	s.engine.SetPolicy(policy)
	s.algorithm = alg
	s.quantum = q
	s.logger.Info("policy updated", "algorithm", alg, "quantum", q)
	return nil
}

// SetTickInterval changes the wall-clock time per simulated unit. Values below
// runner.MinInterval are raised to it. A running loop picks up the new interval
// immediately.
func (s *Simulator) SetTickInterval(d time.Duration) time.Duration {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	d = runner.ClampInterval(d)
	s.mu.Lock()
	s.interval = d
	restart := s.loop != nil
	s.mu.Unlock()

	if restart {
		s.stopLoop()
		s.mu.Lock()
		if s.state == model.RunStateRunning {
			s.startLoopLocked()
		}
		s.mu.Unlock()
	}
	return d
}

// Algorithm returns the configured scheduling algorithm.
func (s *Simulator) Algorithm() model.Algorithm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.algorithm
}

// Quantum returns the configured Round Robin quantum.
func (s *Simulator) Quantum() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantum
}

// TickInterval returns the wall-clock time per simulated unit.
func (s *Simulator) TickInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// --- Run control ---

// Start resets every runtime field and begins ticking on the run loop.
func (s *Simulator) Start() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopLoop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.Len() == 0 {
		return model.NewConflictError("no processes to simulate")
	}
	s.engine.Reset()
	s.archived = false
	s.state = model.RunStateReady
	if err := s.transitionLocked(model.RunStateRunning); err != nil {
		return err
	}
	s.startLoopLocked()
	s.logger.Info("simulation started",
		"algorithm", s.algorithm, "quantum", s.quantum,
		"processes", s.engine.Len(), "interval", s.interval)
	return nil
}

// Pause stops ticking. All runtime state is kept.
func (s *Simulator) Pause() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if s.state == model.RunStatePaused {
		s.mu.Unlock()
		return nil
	}
	if s.state != model.RunStateRunning {
		err := s.invalidTransition(model.RunStatePaused)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.stopLoop()

	s.mu.Lock()
	defer s.mu.Unlock()
	// The last tick may have completed the run while the loop was stopping.
	if s.state == model.RunStateRunning {
		s.state = model.RunStatePaused
		s.logger.Info("simulation paused", logging.SimTime(s.engine.Now()))
	}
	return nil
}

// Resume continues ticking from the current state without resetting it.
func (s *Simulator) Resume() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case model.RunStateRunning:
		return nil
	case model.RunStateCompleted:
		return s.invalidTransition(model.RunStateRunning)
	}
	if s.engine.Len() == 0 {
		return model.NewConflictError("no processes to simulate")
	}
	if err := s.transitionLocked(model.RunStateRunning); err != nil {
		return err
	}
	s.startLoopLocked()
	s.logger.Info("simulation resumed", logging.SimTime(s.engine.Now()))
	return nil
}

// Reset stops ticking and restores every runtime field to its initial value.
// Process definitions are kept.
func (s *Simulator) Reset() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopLoop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
	s.state = model.RunStateReady
	s.archived = false
	s.logger.Info("simulation reset")
}

// Close stops the run loop, if any.
func (s *Simulator) Close() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopLoop()
}

// Advance executes exactly one tick and reports whether anything happened.
// Manual advancing of a run that is not live leaves it paused.
func (s *Simulator) Advance() (engine.Tick, bool) {
	s.mu.Lock()
	tick, ok, run := s.advanceLocked()
	if ok && s.state == model.RunStateReady {
		s.state = model.RunStatePaused
	}
	s.mu.Unlock()
	s.archive(run)
	return tick, ok
}

// Step advances up to n ticks and returns how many were executed.
func (s *Simulator) Step(n int) int {
	done := 0
	for ; done < n; done++ {
		if _, ok := s.Advance(); !ok {
			break
		}
	}
	return done
}

// tick is the run loop target.
func (s *Simulator) tick(context.Context) (bool, error) {
	s.mu.Lock()
	_, ok, run := s.advanceLocked()
	if !ok && s.state == model.RunStateRunning {
		// The process set was emptied under the loop.
		s.state = model.RunStateReady
	}
	more := ok && s.state == model.RunStateRunning
	s.mu.Unlock()
	s.archive(run)
	return more, nil
}

// advanceLocked runs one engine tick, logs its events and, when it finishes the
// run, returns the record to archive.
func (s *Simulator) advanceLocked() (engine.Tick, bool, *model.Run) {
	tick, ok := s.engine.Advance()
	if !ok {
		return tick, false, nil
	}
	for _, ev := range tick.Events {
		s.logEvent(ev)
	}
	if !s.engine.Done() {
		return tick, true, nil
	}
	return tick, true, s.finishLocked()
}

func (s *Simulator) finishLocked() *model.Run {
	s.state = model.RunStateCompleted
	if s.archived || s.recorder == nil {
		return nil
	}
	s.archived = true
	procs := s.engine.Processes()
	tl := s.engine.Timeline()
	sum, _ := timeline.Summarize(procs, tl)
	run := &model.Run{
		ID:        "run_" + uuid.New().String(),
		Algorithm: s.algorithm,
		Quantum:   s.quantum,
		Timeline:  tl,
		Summary:   sum,
		CreatedAt: time.Now().UTC(),
	}
	for _, p := range procs {
		run.Definitions = append(run.Definitions, p.ProcessDef)
		run.Processes = append(run.Processes, timeline.Final(p))
	}
	return run
}

func (s *Simulator) archive(run *model.Run) {
	if run == nil {
		return
	}
	if err := s.recorder.CreateRun(context.Background(), run); err != nil {
		s.logger.Error("archive run", "run_id", run.ID, "error", err)
		return
	}
	s.logger.Debug("run archived", "run_id", run.ID)
}

func (s *Simulator) logEvent(ev model.Event) {
	switch ev.Kind {
	case model.EventArrived, model.EventDispatched, model.EventPreempted:
		s.logger.Debug("process "+strings.ToLower(string(ev.Kind)), "id", ev.ProcessID, logging.SimTime(ev.Time))
	case model.EventIdle:
		s.logger.Debug("cpu idle", logging.SimTime(ev.Time))
	case model.EventCompleted:
		p, _ := s.engine.Process(ev.ProcessID)
		st := timeline.Final(p)
		s.logger.Info("process completed", "id", ev.ProcessID, logging.SimTime(ev.Time),
			"turnaround", st.Turnaround, "waiting", st.Waiting)
	case model.EventFinished:
		sum, _ := timeline.Summarize(s.engine.Processes(), s.engine.Timeline())
		s.logger.Info("simulation finished", logging.SimTime(ev.Time),
			"avg_waiting", sum.AverageWaiting, "avg_turnaround", sum.AverageTurnaround)
	}
}

// startLoopLocked launches a run loop. The caller holds ctl and mu, and no loop
// is running.
func (s *Simulator) startLoopLocked() {
	l := runner.NewLoop(runner.TargetFunc(s.tick), runner.Config{Interval: s.interval}, s.logger)
	s.loop = l
	go func() {
		l.Start(context.Background())
		s.mu.Lock()
		if s.loop == l {
			s.loop = nil
		}
		s.mu.Unlock()
	}()
}

// stopLoop stops the current run loop and waits for its last tick. The caller
// holds ctl but not mu, since the tick in progress needs mu to finish.
func (s *Simulator) stopLoop() {
	s.mu.Lock()
	l := s.loop
	s.loop = nil
	s.mu.Unlock()
	if l != nil {
		l.Stop()
	}
}

func (s *Simulator) transitionLocked(to model.RunState) error {
	if s.state == to {
		return nil
	}
	if !s.state.CanTransitionTo(to) {
		return s.invalidTransition(to)
	}
	s.state = to
	return nil
}

func (s *Simulator) invalidTransition(to model.RunState) error {
	return &model.InvalidTransitionError{From: s.state, To: to}
}
