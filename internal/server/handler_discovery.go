package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Algorithms  []string       `json:"algorithms"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "schedsim API",
		Version:     "v1",
		Description: "Single-CPU scheduling simulator: FCFS, SJF and Round Robin with live ticking and previews",
		Algorithms:  []string{"FCFS", "SJF", "RR"},
		Endpoints: []endpointInfo{
			{"/api/v1/processes", []string{"GET", "POST", "DELETE"}, "List, add or clear process definitions"},
			{"/api/v1/processes/{ref}", []string{"DELETE"}, "Remove a process by id or zero-based index"},
			{"/api/v1/processes/sample", []string{"POST"}, "Replace the process set with the sample workload"},
			{"/api/v1/processes/import", []string{"POST"}, "Replace the process set from a scenario (?format=yaml|csv)"},
			{"/api/v1/simulation", []string{"GET"}, "Live snapshot: time, queue, timeline and statistics"},
			{"/api/v1/simulation/config", []string{"GET", "PUT"}, "Algorithm, quantum and tick interval"},
			{"/api/v1/simulation/start", []string{"POST"}, "Reset runtime state and start ticking"},
			{"/api/v1/simulation/pause", []string{"POST"}, "Stop ticking, keep state"},
			{"/api/v1/simulation/resume", []string{"POST"}, "Continue ticking from the current state"},
			{"/api/v1/simulation/reset", []string{"POST"}, "Stop ticking and restore initial runtime state"},
			{"/api/v1/simulation/step", []string{"POST"}, "Advance a number of ticks synchronously"},
			{"/api/v1/simulation/preview", []string{"POST"}, "Compute the full schedule without touching the live run"},
			{"/api/v1/runs", []string{"GET"}, "Archived completed runs"},
			{"/api/v1/runs/{id}", []string{"GET"}, "Single archived run"},
			{"/api/v1/sse/simulation", []string{"GET"}, "Server-Sent Events stream of live snapshots"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
