package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"arcrun/internal/errors"
	"arcrun/internal/slurm"
)

var statusCmd = &cobra.Command{
	Use:   "status [scenario]",
	Short: "Show queue state for a scenario's submitted jobs",
	Long: `Status looks up the job IDs recorded for the scenario's submissions and
queries the scheduler for their current state. Without a scenario it
covers every known scenario.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	names := a.Scenarios.Names()
	if len(args) == 1 {
		sc, err := lookupScenario(a, args[0])
		if err != nil {
			return err
		}
		names = []string{sc.Name}
	}

	var jobIDs []string
	jobScenario := map[string]string{}
	for _, name := range names {
		ids, err := a.Audit.JobIDs(name)
		if err != nil {
			return errors.Wrap(errors.ExitGeneralError, "failed to read audit log", err)
		}
		for _, id := range ids {
			jobIDs = append(jobIDs, id)
			jobScenario[id] = name
		}
	}

	if len(jobIDs) == 0 {
		logInfo("No submitted jobs recorded")
		return nil
	}

	jobs, err := slurm.Queue(context.Background(), a.Exec, jobIDs)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to query scheduler", err)
	}

	inQueue := map[string]slurm.JobInfo{}
	for _, j := range jobs {
		inQueue[j.ID] = j
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tSCENARIO\tSTATE\tELAPSED\tTIME LEFT")
	for _, id := range jobIDs {
		if j, ok := inQueue[id]; ok {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.ID, jobScenario[id], j.State, j.Elapsed, j.TimeLeft)
		} else {
			fmt.Fprintf(w, "%s\t%s\tFINISHED\t-\t-\n", id, jobScenario[id])
		}
	}
	return w.Flush()
}
