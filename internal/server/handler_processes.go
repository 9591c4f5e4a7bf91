package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/schedsim/internal/scenario"
	"github.com/me/schedsim/pkg/model"
)

type importResponse struct {
	Algorithm model.Algorithm `json:"algorithm"`
	Quantum   int             `json:"quantum"`
	Processes []model.Process `json:"processes"`
}

func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	procs := s.sim.Processes()
	respondList(w, reqID, procs, &model.Pagination{
		Total:  len(procs),
		Limit:  len(procs),
		Offset: 0,
	})
}

func (s *Server) handleAddProcess(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req struct {
		Arrival *int `json:"arrival"`
		Burst   *int `json:"burst"`
	}
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}
	var missing []model.FieldError
	if req.Arrival == nil {
		missing = append(missing, model.FieldError{Field: "arrival", Message: "arrival is required"})
	}
	if req.Burst == nil {
		missing = append(missing, model.FieldError{Field: "burst", Message: "burst is required"})
	}
	if len(missing) > 0 {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("missing required field", missing...))
		return
	}

	p, err := s.sim.AddProcess(model.ProcessSpec{Arrival: *req.Arrival, Burst: *req.Burst})
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondCreated(w, reqID, p)
}

func (s *Server) handleClearProcesses(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	s.sim.Clear()
	respondOK(w, reqID, map[string]any{"cleared": true})
}

func (s *Server) handleRemoveProcess(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	ref := chi.URLParam(r, "ref")

	id, err := s.sim.Remove(ref)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, map[string]any{"removed": id})
}

func (s *Server) handleLoadSample(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	s.replace(w, reqID, scenario.Sample())
}

// handleImportScenario replaces the process set from a YAML or CSV body.
// POST /api/v1/processes/import?format=yaml|csv
func (s *Server) handleImportScenario(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(scenario.FormatYAML)
	}
	format, err := scenario.ParseFormat(formatParam)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid format", model.FieldError{Field: "format", Message: err.Error()}))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("read body: "+err.Error()))
		return
	}
	sc, err := s.parser.Parse(data, format)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			respondError(w, reqID, statusFor(apiErr.Code), apiErr)
			return
		}
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError(err.Error()))
		return
	}
	s.replace(w, reqID, sc)
}

// replace swaps in the scenario's process set and applies its optional
// algorithm and quantum.
func (s *Server) replace(w http.ResponseWriter, reqID string, sc *scenario.Scenario) {
	procs, err := s.sim.Replace(sc.Processes)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	if sc.Algorithm != "" {
		if err := s.sim.SetAlgorithm(sc.Algorithm); err != nil {
			respondErr(w, reqID, err)
			return
		}
	}
	if sc.Quantum > 0 {
		if err := s.sim.SetQuantum(sc.Quantum); err != nil {
			respondErr(w, reqID, err)
			return
		}
	}
	s.logger.Info("process set loaded", "processes", len(procs), "algorithm", s.sim.Algorithm())
	respondCreated(w, reqID, importResponse{
		Algorithm: s.sim.Algorithm(),
		Quantum:   s.sim.Quantum(),
		Processes: procs,
	})
}
