package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/me/schedsim/pkg/model"
)

// streamKey identifies an observable change of the live simulation.
type streamKey struct {
	state       model.RunState
	time        int
	algorithm   model.Algorithm
	quantum     int
	running     string
	ready       int
	definitions string // ids with arrival and burst, admission order
}

func keyOf(snap model.Snapshot) streamKey {
	var defs strings.Builder
	for _, p := range snap.Processes {
		fmt.Fprintf(&defs, "%s:%d:%d,", p.ID, p.Arrival, p.Burst)
	}
	return streamKey{
		state:       snap.State,
		time:        snap.Time,
		algorithm:   snap.Algorithm,
		quantum:     snap.Quantum,
		running:     snap.Running,
		ready:       len(snap.ReadyQueue),
		definitions: defs.String(),
	}
}

// handleSSESimulation streams live snapshots via Server-Sent Events.
// GET /api/v1/sse/simulation
func (s *Server) handleSSESimulation(w http.ResponseWriter, r *http.Request) {
	// Set headers for SSE.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Send initial state.
	snap := s.sim.Snapshot()
	if err := sendSSEEvent(w, flusher, "init", snap); err != nil {
		s.logger.Debug("sse client disconnected", "error", err)
		return
	}
	if snap.State == model.RunStateCompleted {
		sendSSEEvent(w, flusher, "complete", snap)
		return
	}

	// Poll for updates until the run completes or the client disconnects.
	ticker := time.NewTicker(s.config.StreamInterval)
	defer ticker.Stop()

	last := keyOf(snap)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			snap = s.sim.Snapshot()

			if snap.State == model.RunStateCompleted {
				if err := sendSSEEvent(w, flusher, "complete", snap); err != nil {
					s.logger.Debug("sse client disconnected")
				}
				return
			}

			// Send update if anything observable changed.
			if key := keyOf(snap); key != last {
				if err := sendSSEEvent(w, flusher, "update", snap); err != nil {
					s.logger.Debug("sse client disconnected")
					return
				}
				last = key
			} else {
				// Send heartbeat.
				fmt.Fprintf(w, ": heartbeat\n\n")
				flusher.Flush()
			}
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	if err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
