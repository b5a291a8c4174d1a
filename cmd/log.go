package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"arcrun/internal/errors"
)

var logCmd = &cobra.Command{
	Use:   "log <scenario>",
	Short: "Show a scenario's recorded lifecycle events",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	sc, err := scenarioArg(a, args)
	if err != nil {
		return err
	}

	events, err := a.Audit.Events(sc.Name)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to read audit log", err)
	}

	if len(events) == 0 {
		logInfo("No events recorded for %s", sc.Name)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tEVENT\tJOB\tEXIT\tDETAILS")
	for _, e := range events {
		exit := "-"
		if e.ExitCode != nil {
			exit = fmt.Sprintf("%d", *e.ExitCode)
		}
		job := e.JobID
		if job == "" {
			job = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, job, exit, e.Details)
	}
	return w.Flush()
}
