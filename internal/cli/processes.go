package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/schedsim/internal/scenario"
	"github.com/me/schedsim/pkg/model"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <arrival> <burst>",
		Short: "Add a process to the server's process set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arrival, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("arrival %q is not an integer", args[0])
			}
			burst, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("burst %q is not an integer", args[1])
			}

			resp, err := client.Post("/api/v1/processes", model.ProcessSpec{Arrival: arrival, Burst: burst})
			if err != nil {
				return fmt.Errorf("add process: %w", err)
			}
			var p model.Process
			if err := resp.Decode(&p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", p.ProcessDef)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|index>",
		Aliases: []string{"rm"},
		Short:   "Remove a process by id or zero-based index",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Delete("/api/v1/processes/" + url.PathEscape(args[0]))
			if err != nil {
				return fmt.Errorf("remove process: %w", err)
			}
			var data struct {
				Removed string `json:"removed"`
			}
			if err := resp.Decode(&data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", data.Removed)
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Stop the simulation and remove every process",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Delete("/api/v1/processes"); err != nil {
				return fmt.Errorf("clear processes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all processes.")
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the server's processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/processes")
			if err != nil {
				return fmt.Errorf("list processes: %w", err)
			}
			var procs []model.Process
			if err := resp.Decode(&procs); err != nil {
				return err
			}
			if len(procs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No processes defined.")
				return nil
			}
			outputProcesses(cmd.OutOrStdout(), procs)
			return nil
		},
	}
}

func newLoadCmd() *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "load [scenario-file]",
		Short: "Replace the server's process set from a scenario file or the sample workload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp *apiResponse
			var err error
			switch {
			case sample && len(args) > 0:
				return fmt.Errorf("give either a scenario file or --sample")
			case sample:
				resp, err = client.Post("/api/v1/processes/sample", nil)
			case len(args) == 1:
				format, ferr := scenario.ParseFormat(filepath.Ext(args[0]))
				if ferr != nil {
					return ferr
				}
				data, rerr := os.ReadFile(args[0])
				if rerr != nil {
					return fmt.Errorf("read scenario: %w", rerr)
				}
				contentType := "application/yaml"
				if format == scenario.FormatCSV {
					contentType = "text/csv"
				}
				resp, err = client.PostRaw("/api/v1/processes/import?format="+string(format), data, contentType)
			default:
				return fmt.Errorf("a scenario file or --sample is required")
			}
			if err != nil {
				return fmt.Errorf("load processes: %w", err)
			}

			var data struct {
				Algorithm model.Algorithm `json:"algorithm"`
				Quantum   int             `json:"quantum"`
				Processes []model.Process `json:"processes"`
			}
			if err := resp.Decode(&data); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d processes (%s, quantum %d)\n", len(data.Processes), data.Algorithm, data.Quantum)
			outputProcesses(out, data.Processes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "Load the built-in sample workload")
	return cmd
}
