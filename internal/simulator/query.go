package simulator

import (
	"github.com/me/schedsim/internal/engine"
	"github.com/me/schedsim/internal/timeline"
	"github.com/me/schedsim/pkg/model"
)

// Snapshot returns a complete-tick view of the live simulation. Statistics of
// unfinished processes are provisional.
func (s *Simulator) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.engine.Now()
	procs := s.engine.Processes()
	tl := s.engine.Timeline()
	snap := model.Snapshot{
		State:      s.state,
		Algorithm:  s.algorithm,
		Quantum:    s.quantum,
		Time:       now,
		Running:    s.engine.Running(),
		ReadyQueue: s.engine.ReadyIDs(),
		Timeline:   tl,
		Segments:   timeline.Segments(tl),
		Processes:  make([]model.ProcessStats, 0, len(procs)),
		Completed:  s.engine.Done(),
	}
	for _, p := range procs {
		snap.Processes = append(snap.Processes, timeline.Provisional(p, now))
	}
	if sum, ok := timeline.Summarize(procs, tl); ok {
		snap.Summary = &sum
	}
	return snap
}

// State returns the run state.
func (s *Simulator) State() model.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Now returns the current simulated time.
func (s *Simulator) Now() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Now()
}

// Timeline returns a copy of the live timeline.
func (s *Simulator) Timeline() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Timeline()
}

// Completed reports whether every process has finished.
func (s *Simulator) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Done()
}

// Preview computes the full schedule of the current definitions under the
// configured policy. The live simulation is not touched.
func (s *Simulator) Preview() model.Preview {
	s.mu.Lock()
	alg, q := s.algorithm, s.quantum
	policy := s.engine.Policy()
	defs := s.definitionsLocked()
	s.mu.Unlock()
	return buildPreview(alg, q, policy, defs)
}

// PreviewWith is Preview under an explicit algorithm and quantum. The
// configured policy is left unchanged.
func (s *Simulator) PreviewWith(alg model.Algorithm, quantum int) (model.Preview, error) {
	if !alg.Valid() {
		return model.Preview{}, model.NewValidationError("invalid algorithm",
			model.FieldError{Field: "algorithm", Message: "unknown algorithm " + string(alg)})
	}
	if quantum <= 0 {
		return model.Preview{}, model.NewValidationError("invalid quantum",
			model.FieldError{Field: "quantum", Message: "must be > 0"})
	}
	policy, err := engine.NewPolicy(alg, quantum)
	if err != nil {
		return model.Preview{}, model.NewValidationError(err.Error())
	}
	s.mu.Lock()
	defs := s.definitionsLocked()
	s.mu.Unlock()
	return buildPreview(alg, quantum, policy, defs), nil
}

func (s *Simulator) definitionsLocked() []model.ProcessDef {
	procs := s.engine.Processes()
	defs := make([]model.ProcessDef, len(procs))
	for i, p := range procs {
		defs[i] = p.ProcessDef
	}
	return defs
}

// Schedule runs defs to completion under alg and quantum without a Simulator.
func Schedule(alg model.Algorithm, quantum int, defs []model.ProcessDef) (model.Preview, error) {
	specs := make([]model.ProcessSpec, len(defs))
	for i, def := range defs {
		specs[i] = def.Spec()
	}
	if errs := model.ValidateSpecs(specs); len(errs) > 0 {
		return model.Preview{}, model.NewValidationError("invalid process set", errs...)
	}
	policy, err := engine.NewPolicy(alg, model.NormalizeQuantum(quantum))
	if err != nil {
		return model.Preview{}, err
	}
	return buildPreview(alg, model.NormalizeQuantum(quantum), policy, defs), nil
}

func buildPreview(alg model.Algorithm, quantum int, policy engine.Policy, defs []model.ProcessDef) model.Preview {
	res := engine.Preview(policy, defs)
	pv := model.Preview{
		Algorithm: alg,
		Quantum:   quantum,
		Timeline:  res.Timeline,
		Segments:  timeline.Segments(res.Timeline),
		Processes: make([]model.ProcessStats, 0, len(res.Processes)),
	}
	if pv.Timeline == nil {
		pv.Timeline = []string{}
	}
	for _, p := range res.Processes {
		pv.Processes = append(pv.Processes, timeline.Final(p))
	}
	if sum, ok := timeline.Summarize(res.Processes, res.Timeline); ok {
		pv.Summary = &sum
	}
	return pv
}
