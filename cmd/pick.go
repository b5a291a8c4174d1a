package cmd

import (
	"github.com/spf13/cobra"

	"arcrun/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively pick a scenario to run or submit",
	Args:  cobra.NoArgs,
	RunE:  runPick,
}

var pickSimple bool

func init() {
	pickCmd.Flags().BoolVar(&pickSimple, "simple", false, "Print a plain listing instead of the interactive picker")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	scenarios := a.Scenarios.All()

	if pickSimple {
		cmd.Print(tui.SimplePicker(scenarios))
		return nil
	}

	result, err := tui.RunPicker(scenarios)
	if err != nil {
		return err
	}

	switch result.Action {
	case tui.ActionRun:
		return runRun(cmd, []string{result.Scenario.Name})
	case tui.ActionSubmit:
		return runSubmit(cmd, []string{result.Scenario.Name})
	}
	return nil
}
