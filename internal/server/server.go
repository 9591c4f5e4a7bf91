package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/schedsim/internal/config"
	"github.com/me/schedsim/internal/scenario"
	"github.com/me/schedsim/internal/simulator"
	"github.com/me/schedsim/internal/store"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Server is the schedsim REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	sim       *simulator.Simulator
	parser    *scenario.Parser
	store     store.Store // optional; nil disables the run archive endpoints
}

// New creates a new Server with all routes registered.
// st may be nil when runs are not archived (e.g. in tests).
func New(cfg config.ServerConfig, sim *simulator.Simulator, st store.Store, logger *slog.Logger) *Server {
	cfg.Normalize()
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		sim:       sim,
		parser:    scenario.NewParser(logger),
		store:     st,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)

		// Process definitions
		r.Route("/processes", func(r chi.Router) {
			r.Get("/", s.handleListProcesses)
			r.Post("/", s.handleAddProcess)
			r.Delete("/", s.handleClearProcesses)
			r.Post("/sample", s.handleLoadSample)
			r.Post("/import", s.handleImportScenario)
			r.Delete("/{ref}", s.handleRemoveProcess)
		})

		// Live simulation
		r.Route("/simulation", func(r chi.Router) {
			r.Get("/", s.handleGetSimulation)
			r.Get("/config", s.handleGetConfig)
			r.Put("/config", s.handleUpdateConfig)
			r.Post("/start", s.handleStart)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
			r.Post("/reset", s.handleReset)
			r.Post("/step", s.handleStep)
			r.Post("/preview", s.handlePreview)
		})

		// Archived runs
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
		})

		// SSE endpoints for real-time updates
		r.Route("/sse", func(r chi.Router) {
			r.Get("/simulation", s.handleSSESimulation)
		})
	})
}
