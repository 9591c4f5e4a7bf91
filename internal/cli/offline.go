package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/schedsim/internal/scenario"
	"github.com/me/schedsim/internal/simulator"
	"github.com/me/schedsim/pkg/model"
)

// scenarioFlags are shared by the commands that take a process set.
type scenarioFlags struct {
	file      string
	sample    bool
	processes []string
	algorithm string
	quantum   int
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Scenario file (.yaml, .yml or .csv)")
	cmd.Flags().BoolVar(&f.sample, "sample", false, "Use the built-in sample workload")
	cmd.Flags().StringArrayVarP(&f.processes, "process", "p", nil, "Process as arrival:burst (repeatable)")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "Scheduling algorithm: fcfs, sjf or rr")
	cmd.Flags().IntVarP(&f.quantum, "quantum", "q", 0, "Round Robin quantum (default 2)")
}

// load builds the scenario from --file or --sample, appends --process entries
// and applies the --algorithm and --quantum overrides.
func (f *scenarioFlags) load() (*scenario.Scenario, error) {
	sc := &scenario.Scenario{}
	switch {
	case f.file != "" && f.sample:
		return nil, fmt.Errorf("--file and --sample are mutually exclusive")
	case f.file != "":
		loaded, err := scenario.NewParser(logger).LoadFile(f.file)
		if err != nil {
			return nil, err
		}
		sc = loaded
	case f.sample:
		sc = scenario.Sample()
	}
	for _, p := range f.processes {
		spec, err := parseProcessFlag(p)
		if err != nil {
			return nil, err
		}
		sc.Processes = append(sc.Processes, spec)
	}
	if f.algorithm != "" {
		alg, err := model.ParseAlgorithm(f.algorithm)
		if err != nil {
			return nil, err
		}
		sc.Algorithm = alg
	}
	if f.quantum != 0 {
		sc.Quantum = f.quantum
	}
	if sc.Algorithm == "" {
		sc.Algorithm = model.AlgorithmFCFS
	}
	sc.Quantum = model.NormalizeQuantum(sc.Quantum)
	if len(sc.Processes) == 0 {
		return nil, fmt.Errorf("no processes: use --file, --sample or --process")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// parseProcessFlag parses "arrival:burst".
func parseProcessFlag(s string) (model.ProcessSpec, error) {
	arrival, burst, ok := strings.Cut(s, ":")
	if !ok {
		return model.ProcessSpec{}, fmt.Errorf("invalid --process %q: want arrival:burst", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(arrival))
	if err != nil {
		return model.ProcessSpec{}, fmt.Errorf("invalid --process %q: arrival is not an integer", s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(burst))
	if err != nil {
		return model.ProcessSpec{}, fmt.Errorf("invalid --process %q: burst is not an integer", s)
	}
	spec := model.ProcessSpec{Arrival: a, Burst: b}
	if errs := spec.Validate(); len(errs) > 0 {
		return model.ProcessSpec{}, fmt.Errorf("invalid --process %q: %s %s", s, errs[0].Field, errs[0].Message)
	}
	return spec, nil
}

func newPreviewCmd() *cobra.Command {
	var f scenarioFlags
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute a full schedule offline",
		Example: `  schedsim preview --sample --algorithm rr --quantum 3
  schedsim preview -p 0:5 -p 1:3 -p 2:1 -a sjf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := f.load()
			if err != nil {
				return err
			}
			pv, err := simulator.Schedule(sc.Algorithm, sc.Quantum, sc.Definitions())
			if err != nil {
				return err
			}
			outputPreview(cmd.OutOrStdout(), pv)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newRunCmd() *cobra.Command {
	var f scenarioFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate offline, printing every tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := f.load()
			if err != nil {
				return err
			}
			sim, err := simulator.New(simulator.Config{Algorithm: sc.Algorithm, Quantum: sc.Quantum}, logger)
			if err != nil {
				return err
			}
			defer sim.Close()
			if _, err := sim.Replace(sc.Processes); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			outputTitle(out, sc.Algorithm.Description())
			fmt.Fprintf(out, "%5s  %-6s  %s\n", "TIME", "CPU", "EVENTS")
			for {
				tick, ok := sim.Advance()
				if !ok {
					break
				}
				slot := tick.Slot
				if slot == model.Idle {
					slot = "idle"
				}
				fmt.Fprintf(out, "%5d  %-6s  %s\n", tick.Time, slot, formatEvents(tick.Events))
			}
			fmt.Fprintln(out)

			snap := sim.Snapshot()
			outputGantt(out, snap.Segments)
			outputStats(out, snap.Processes, snap.Summary)
			outputSummary(out, snap.Summary)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
