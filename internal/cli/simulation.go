package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/schedsim/pkg/model"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the live simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/simulation")
			if err != nil {
				return fmt.Errorf("get simulation: %w", err)
			}
			var snap model.Snapshot
			if err := resp.Decode(&snap); err != nil {
				return err
			}
			outputSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var algorithm string
	var quantum int
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change algorithm, quantum and tick interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if cmd.Flags().Changed("algorithm") {
				body["algorithm"] = algorithm
			}
			if cmd.Flags().Changed("quantum") {
				body["quantum"] = quantum
			}
			if cmd.Flags().Changed("interval") {
				body["tick_interval"] = interval.String()
			}

			var resp *apiResponse
			var err error
			if len(body) == 0 {
				resp, err = client.Get("/api/v1/simulation/config")
			} else {
				resp, err = client.Put("/api/v1/simulation/config", body)
			}
			if err != nil {
				return fmt.Errorf("simulation config: %w", err)
			}

			var cfg struct {
				Algorithm    model.Algorithm `json:"algorithm"`
				Description  string          `json:"description"`
				Quantum      int             `json:"quantum"`
				TickInterval string          `json:"tick_interval"`
			}
			if err := resp.Decode(&cfg); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Algorithm:     %s (%s)\n", cfg.Algorithm, cfg.Description)
			fmt.Fprintf(out, "Quantum:       %d\n", cfg.Quantum)
			fmt.Fprintf(out, "Tick interval: %s\n", cfg.TickInterval)
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Scheduling algorithm: fcfs, sjf or rr")
	cmd.Flags().IntVarP(&quantum, "quantum", "q", 0, "Round Robin quantum")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Wall-clock time per simulated unit (min 8ms)")
	return cmd
}

// newLifecycleCmd builds start, pause, resume and reset.
func newLifecycleCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/simulation/"+action, nil)
			if err != nil {
				return fmt.Errorf("%s simulation: %w", action, err)
			}
			var snap model.Snapshot
			if err := resp.Decode(&snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Simulation %s at t=%d\n", strings.ToLower(string(snap.State)), snap.Time)
			return nil
		},
	}
}

func newStartCmd() *cobra.Command {
	return newLifecycleCmd("start", "Reset runtime state and start ticking")
}

func newPauseCmd() *cobra.Command {
	return newLifecycleCmd("pause", "Stop ticking, keeping all state")
}

func newResumeCmd() *cobra.Command {
	return newLifecycleCmd("resume", "Continue ticking from the current state")
}

func newResetCmd() *cobra.Command {
	return newLifecycleCmd("reset", "Stop ticking and restore the initial runtime state")
}

func newStepCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Advance the simulation synchronously",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/simulation/step", map[string]int{"count": count})
			if err != nil {
				return fmt.Errorf("step simulation: %w", err)
			}
			var data struct {
				Executed int            `json:"executed"`
				Snapshot model.Snapshot `json:"snapshot"`
			}
			if err := resp.Decode(&data); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Advanced %d tick(s)\n\n", data.Executed)
			outputSnapshot(out, data.Snapshot)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of ticks")
	return cmd
}

func newRemotePreviewCmd() *cobra.Command {
	var algorithm string
	var quantum int
	cmd := &cobra.Command{
		Use:   "remote-preview",
		Short: "Preview the server's process set without touching the live run",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if algorithm != "" {
				body["algorithm"] = algorithm
			}
			if quantum > 0 {
				body["quantum"] = quantum
			}
			resp, err := client.Post("/api/v1/simulation/preview", body)
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			var pv model.Preview
			if err := resp.Decode(&pv); err != nil {
				return err
			}
			outputPreview(cmd.OutOrStdout(), pv)
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Override the configured algorithm")
	cmd.Flags().IntVarP(&quantum, "quantum", "q", 0, "Override the configured quantum")
	return cmd
}
