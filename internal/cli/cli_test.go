package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/schedsim/internal/config"
	"github.com/me/schedsim/internal/server"
	"github.com/me/schedsim/internal/simulator"
	"github.com/me/schedsim/internal/store"
	"github.com/me/schedsim/pkg/model"
)

// startTestServer starts a server with an in-memory SQLite store and returns the URL.
func startTestServer(t *testing.T) string {
	t.Helper()
	srvLogger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := store.NewSQLiteStore(":memory:", srvLogger)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	sim, err := simulator.New(simulator.DefaultConfig(), srvLogger, simulator.WithRecorder(st))
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	t.Cleanup(func() {
		sim.Close()
		st.Close()
	})

	srv := server.New(config.DefaultServerConfig(), sim, st, srvLogger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func mustRunCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("schedsim %s: %v\noutput: %s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q:\n%s", w, output)
		}
	}
}

func TestPreviewCommand(t *testing.T) {
	out := mustRunCLI(t, "preview", "-p", "0:5", "-p", "1:3", "-p", "2:1", "--algorithm", "sjf")
	assertContains(t, out, "Shortest Job First", "Gantt schedule", "P3", "Average", "Makespan: 9")
}

func TestPreviewCommand_Sample(t *testing.T) {
	out := mustRunCLI(t, "preview", "--sample", "-a", "rr", "-q", "3")
	assertContains(t, out, "Round Robin", "P6", "Makespan: 28")
}

func TestPreviewCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no processes", []string{"preview"}},
		{"bad process", []string{"preview", "-p", "0-5"}},
		{"zero burst", []string{"preview", "-p", "0:0"}},
		{"bad algorithm", []string{"preview", "--sample", "-a", "lottery"}},
		{"file and sample", []string{"preview", "--sample", "--file", "x.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("schedsim %v succeeded", tt.args)
			}
		})
	}
}

func TestPreviewCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.yaml")
	doc := "algorithm: rr\nquantum: 2\nprocesses:\n  - {arrival: 0, burst: 4}\n  - {arrival: 1, burst: 3}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out := mustRunCLI(t, "preview", "--file", path)
	assertContains(t, out, "Round Robin", "Makespan: 7")
}

func TestRunCommand(t *testing.T) {
	out := mustRunCLI(t, "run", "-p", "0:2", "-p", "4:1")
	assertContains(t, out,
		"ARRIVED P1, DISPATCHED P1",
		"COMPLETED P1",
		"idle",
		"COMPLETED P2, FINISHED",
		"Makespan: 5",
	)
}

func TestParseProcessFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    model.ProcessSpec
		wantErr bool
	}{
		{"0:5", model.ProcessSpec{Arrival: 0, Burst: 5}, false},
		{" 3 : 2 ", model.ProcessSpec{Arrival: 3, Burst: 2}, false},
		{"5", model.ProcessSpec{}, true},
		{"a:1", model.ProcessSpec{}, true},
		{"1:b", model.ProcessSpec{}, true},
		{"-1:2", model.ProcessSpec{}, true},
		{"1:0", model.ProcessSpec{}, true},
		{"2000000000:1", model.ProcessSpec{}, true},
	}
	for _, tt := range tests {
		got, err := parseProcessFlag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseProcessFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseProcessFlag(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRemoteWorkflow(t *testing.T) {
	url := startTestServer(t)

	out := mustRunCLI(t, "--server", url, "add", "0", "5")
	assertContains(t, out, "Added P1 (arrival:0, burst:5)")
	mustRunCLI(t, "--server", url, "add", "1", "3")

	out = mustRunCLI(t, "--server", url, "list")
	assertContains(t, out, "P1", "P2", "NOT_ARRIVED")

	out = mustRunCLI(t, "--server", url, "config")
	assertContains(t, out, "FCFS", "Quantum:       2")

	out = mustRunCLI(t, "--server", url, "remote-preview", "-a", "rr")
	assertContains(t, out, "Round Robin", "Makespan: 8")

	out = mustRunCLI(t, "--server", url, "step", "-n", "3")
	assertContains(t, out, "Advanced 3 tick(s)", "Time:      3", "Running:   P1", "Ready:     [P2]")

	out = mustRunCLI(t, "--server", url, "step", "-n", "100")
	assertContains(t, out, "Advanced 5 tick(s)", "COMPLETED")

	out = mustRunCLI(t, "--server", url, "runs")
	assertContains(t, out, "run_", "FCFS")

	out = mustRunCLI(t, "--server", url, "status")
	assertContains(t, out, "State:     COMPLETED", "Makespan: 8")

	out = mustRunCLI(t, "--server", url, "reset")
	assertContains(t, out, "Simulation ready at t=0")

	out = mustRunCLI(t, "--server", url, "remove", "P1")
	assertContains(t, out, "Removed P1")

	if _, err := runCLI(t, "--server", url, "remove", "P9"); err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("remove P9 error = %v, want NOT_FOUND", err)
	}

	out = mustRunCLI(t, "--server", url, "clear")
	assertContains(t, out, "Cleared")
	out = mustRunCLI(t, "--server", url, "list")
	assertContains(t, out, "No processes defined.")
}

func TestRemoteLifecycle(t *testing.T) {
	url := startTestServer(t)
	mustRunCLI(t, "--server", url, "add", "0", "100000")

	out := mustRunCLI(t, "--server", url, "config", "--interval", "8ms", "-a", "rr", "-q", "4")
	assertContains(t, out, "RR", "Quantum:       4", "8ms")

	out = mustRunCLI(t, "--server", url, "start")
	assertContains(t, out, "Simulation running")
	out = mustRunCLI(t, "--server", url, "pause")
	assertContains(t, out, "Simulation paused")
	out = mustRunCLI(t, "--server", url, "resume")
	assertContains(t, out, "Simulation running")

	if _, err := runCLI(t, "--server", url, "config", "-a", "sjf"); err == nil {
		t.Error("changing the algorithm mid-run succeeded")
	}
	mustRunCLI(t, "--server", url, "reset")
}

func TestLoadCommand(t *testing.T) {
	url := startTestServer(t)

	out := mustRunCLI(t, "--server", url, "load", "--sample")
	assertContains(t, out, "Loaded 6 processes", "P6")

	path := filepath.Join(t.TempDir(), "work.csv")
	if err := os.WriteFile(path, []byte("arrival,burst\n0,3\n2,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out = mustRunCLI(t, "--server", url, "load", path)
	assertContains(t, out, "Loaded 2 processes")

	if _, err := runCLI(t, "--server", url, "load"); err == nil {
		t.Error("load without arguments succeeded")
	}
}
