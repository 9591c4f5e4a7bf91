package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/schedsim/internal/config"
	"github.com/me/schedsim/internal/logging"
	"github.com/me/schedsim/internal/scenario"
	"github.com/me/schedsim/internal/server"
	"github.com/me/schedsim/internal/simulator"
	"github.com/me/schedsim/internal/store"
	"github.com/me/schedsim/pkg/model"
)

func main() {
	cfg := config.DefaultServerConfig()
	algorithm := string(cfg.Algorithm)

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Run archive database path (\":memory:\" keeps it in-process)")
	flag.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Wall-clock time per simulated unit (min 8ms)")
	flag.DurationVar(&cfg.StreamInterval, "stream-interval", cfg.StreamInterval, "SSE polling interval")
	flag.StringVar(&algorithm, "algorithm", algorithm, "Initial scheduling algorithm: fcfs, sjf, rr")
	flag.IntVar(&cfg.Quantum, "quantum", cfg.Quantum, "Initial Round Robin quantum")
	scenarioFile := flag.String("scenario", "", "Preload processes from a scenario file (.yaml or .csv)")
	sample := flag.Bool("sample", false, "Preload the sample workload")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	alg, err := model.ParseAlgorithm(algorithm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	cfg.Algorithm = alg
	cfg.Normalize()

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.DBPath)

	sim, err := simulator.New(simulator.Config{
		Algorithm:    cfg.Algorithm,
		Quantum:      cfg.Quantum,
		TickInterval: cfg.TickInterval,
	}, logger, simulator.WithRecorder(st))
	if err != nil {
		fmt.Fprintf(os.Stderr, "create simulator: %v\n", err)
		os.Exit(1)
	}

	// Preload processes.
	var preload *scenario.Scenario
	switch {
	case *scenarioFile != "":
		preload, err = scenario.NewParser(logger).LoadFile(*scenarioFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load scenario: %v\n", err)
			os.Exit(1)
		}
	case *sample:
		preload = scenario.Sample()
	}
	if preload != nil {
		if _, err := sim.Replace(preload.Processes); err != nil {
			fmt.Fprintf(os.Stderr, "load scenario: %v\n", err)
			os.Exit(1)
		}
		if preload.Algorithm != "" {
			if err := sim.SetAlgorithm(preload.Algorithm); err != nil {
				fmt.Fprintf(os.Stderr, "load scenario: %v\n", err)
				os.Exit(1)
			}
		}
		if preload.Quantum > 0 {
			if err := sim.SetQuantum(preload.Quantum); err != nil {
				fmt.Fprintf(os.Stderr, "load scenario: %v\n", err)
				os.Exit(1)
			}
		}
		logger.Info("processes preloaded", "count", len(preload.Processes))
	}

	srv := server.New(cfg, sim, st, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr,
			"algorithm", sim.Algorithm(), "quantum", sim.Quantum(), "tick", sim.TickInterval())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Stop the run loop before the HTTP server.
	sim.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
