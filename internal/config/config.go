package config

import (
	"time"

	"github.com/me/schedsim/pkg/model"
)

// MinTickInterval is the fastest supported simulation speed.
const MinTickInterval = 8 * time.Millisecond

// ServerConfig holds configuration for the schedsim server.
type ServerConfig struct {
	Addr           string          // Listen address (default ":8080")
	LogLevel       string          // Log level: debug, info, warn, error
	LogFormat      string          // Log format: text, json
	DBPath         string          // SQLite database path for the run archive (":memory:" keeps it in-process)
	TickInterval   time.Duration   // Wall-clock time per simulated unit
	StreamInterval time.Duration   // SSE polling interval
	Algorithm      model.Algorithm // Initial scheduling algorithm
	Quantum        int             // Initial Round Robin quantum
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		LogLevel:       "info",
		LogFormat:      "text",
		DBPath:         ":memory:",
		TickInterval:   60 * time.Millisecond,
		StreamInterval: 250 * time.Millisecond,
		Algorithm:      model.AlgorithmFCFS,
		Quantum:        model.DefaultQuantum,
	}
}

// ClampTickInterval raises d to MinTickInterval.
func ClampTickInterval(d time.Duration) time.Duration {
	if d < MinTickInterval {
		return MinTickInterval
	}
	return d
}

// Normalize fills zero values with defaults and clamps out-of-range ones.
func (c *ServerConfig) Normalize() {
	def := DefaultServerConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Algorithm == "" {
		c.Algorithm = def.Algorithm
	}
	if c.StreamInterval <= 0 {
		c.StreamInterval = def.StreamInterval
	}
	c.TickInterval = ClampTickInterval(c.TickInterval)
	c.Quantum = model.NormalizeQuantum(c.Quantum)
}
