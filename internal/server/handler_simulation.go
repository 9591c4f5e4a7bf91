package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/me/schedsim/pkg/model"
)

// maxStepCount bounds a single synchronous step request.
const maxStepCount = 100000

type configResponse struct {
	Algorithm      model.Algorithm `json:"algorithm"`
	Description    string          `json:"description"`
	Quantum        int             `json:"quantum"`
	TickInterval   string          `json:"tick_interval"`
	TickIntervalMS int64           `json:"tick_interval_ms"`
}

type stepResponse struct {
	Requested int            `json:"requested"`
	Executed  int            `json:"executed"`
	Snapshot  model.Snapshot `json:"snapshot"`
}

func (s *Server) configView() configResponse {
	alg := s.sim.Algorithm()
	d := s.sim.TickInterval()
	return configResponse{
		Algorithm:      alg,
		Description:    alg.Description(),
		Quantum:        s.sim.Quantum(),
		TickInterval:   d.String(),
		TickIntervalMS: d.Milliseconds(),
	}
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, s.sim.Snapshot())
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, s.configView())
}

// handleUpdateConfig applies any of algorithm, quantum and tick_interval.
// PUT /api/v1/simulation/config
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req struct {
		Algorithm    *string `json:"algorithm"`
		Quantum      *int    `json:"quantum"`
		TickInterval *string `json:"tick_interval"`
	}
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	var interval time.Duration
	if req.TickInterval != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*req.TickInterval))
		if err != nil || d <= 0 {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid tick interval",
				model.FieldError{Field: "tick_interval", Message: "must be a positive duration such as 60ms"}))
			return
		}
		interval = d
	}
	if req.Algorithm != nil {
		alg, err := model.ParseAlgorithm(*req.Algorithm)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid algorithm",
				model.FieldError{Field: "algorithm", Message: err.Error()}))
			return
		}
		if err := s.sim.SetAlgorithm(alg); err != nil {
			respondErr(w, reqID, err)
			return
		}
	}
	if req.Quantum != nil {
		if err := s.sim.SetQuantum(*req.Quantum); err != nil {
			respondErr(w, reqID, err)
			return
		}
	}
	if interval > 0 {
		s.sim.SetTickInterval(interval)
	}
	respondOK(w, reqID, s.configView())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, s.sim.Start)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, s.sim.Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, s.sim.Resume)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.control(w, r, func() error {
		s.sim.Reset()
		return nil
	})
}

// control runs a lifecycle operation and responds with the resulting snapshot.
func (s *Server) control(w http.ResponseWriter, r *http.Request, op func() error) {
	reqID := RequestIDFromContext(r.Context())
	if err := op(); err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, s.sim.Snapshot())
}

// handleStep advances the simulation synchronously.
// POST /api/v1/simulation/step {"count": n}
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	req := struct {
		Count int `json:"count"`
	}{Count: 1}
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}
	if req.Count <= 0 || req.Count > maxStepCount {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid count",
			model.FieldError{Field: "count", Message: "must be between 1 and 100000"}))
		return
	}

	executed := s.sim.Step(req.Count)
	respondOK(w, reqID, stepResponse{
		Requested: req.Count,
		Executed:  executed,
		Snapshot:  s.sim.Snapshot(),
	})
}

// handlePreview computes the full schedule without touching the live run.
// An optional body {"algorithm", "quantum"} overrides the configured policy.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req struct {
		Algorithm string `json:"algorithm"`
		Quantum   int    `json:"quantum"`
	}
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}
	if req.Algorithm == "" && req.Quantum == 0 {
		respondOK(w, reqID, s.sim.Preview())
		return
	}

	alg := s.sim.Algorithm()
	if req.Algorithm != "" {
		parsed, err := model.ParseAlgorithm(req.Algorithm)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid algorithm",
				model.FieldError{Field: "algorithm", Message: err.Error()}))
			return
		}
		alg = parsed
	}
	quantum := req.Quantum
	if quantum == 0 {
		quantum = s.sim.Quantum()
	}
	pv, err := s.sim.PreviewWith(alg, quantum)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, pv)
}
