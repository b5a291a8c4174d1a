package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the declared scenarios",
	Args:  cobra.NoArgs,
	RunE:  runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCONFIG LAYERS\tDESCRIPTION")
	for _, sc := range a.Scenarios.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", sc.Name, strings.Join(sc.ConfigFiles, ", "), sc.Description)
	}
	return w.Flush()
}
