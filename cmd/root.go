package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"arcrun/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "arcrun",
	Short: "PyPSA-Earth scenario runner for the ARC cluster",
	Long: `arcrun drives PyPSA-Earth optimisation scenarios on a Slurm cluster.

A scenario is an ordered stack of YAML config layers applied over the
base configuration. arcrun merges the layers, validates the result,
provisions the conda environment, and runs or submits the workflow:
  - run: execute snakemake in the current allocation
  - submit: render an sbatch script and queue it
  - check: validate scenario configs without running anything`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to arcrun.toml (default: $ARCRUN_CONFIG, ./arcrun.toml)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
