package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/me/schedsim/pkg/model"
)

func newRunsCmd() *cobra.Command {
	var algorithm string
	var limit int
	cmd := &cobra.Command{
		Use:   "runs [run_id]",
		Short: "List archived runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				resp, err := client.Get("/api/v1/runs/" + url.PathEscape(args[0]))
				if err != nil {
					return fmt.Errorf("get run: %w", err)
				}
				var run model.Run
				if err := resp.Decode(&run); err != nil {
					return err
				}
				outputTitle(out, fmt.Sprintf("%s  %s (quantum %d)", run.ID, run.Algorithm, run.Quantum))
				outputStats(out, run.Processes, &run.Summary)
				outputSummary(out, &run.Summary)
				return nil
			}

			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			if algorithm != "" {
				q.Set("algorithm", algorithm)
			}
			resp, err := client.Get("/api/v1/runs?" + q.Encode())
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			var runs []model.Run
			if err := resp.Decode(&runs); err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs archived.")
				return nil
			}
			outputRuns(out, runs)
			if resp.Pagination != nil && resp.Pagination.HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(runs), resp.Pagination.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Only runs of this algorithm")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")
	return cmd
}
