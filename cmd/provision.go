package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arcrun/internal/audit"
	"arcrun/internal/conda"
	"arcrun/internal/errors"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Rebuild the conda environment from its manifest",
	Long: `Provision removes any existing environment of the configured name and
recreates it from the declarative manifest, then installs the pinned pip
extras. The operation is idempotent: running it twice yields the same
environment. Package list and pip freeze snapshots are written to the
log directory after every build.`,
	Args: cobra.NoArgs,
	RunE: runProvision,
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	env := a.Config.Environment
	spec := conda.Spec{
		Name:     env.Name,
		Manifest: env.Manifest,
		PipExtra: env.PipExtra,
	}

	logInfo("Provisioning environment %s from %s...", spec.Name, spec.Manifest)

	builder := conda.NewBuilder(a.Exec, a.FS, a.Paths.Workdir, a.Paths.LogDir)
	result, err := builder.Provision(context.Background(), spec)
	if err != nil {
		return errors.ProvisionFailed("environment build", err)
	}

	_ = a.Audit.Log(audit.Event{
		Type:     audit.EventProvision,
		Scenario: spec.Name,
		RunID:    audit.NewRunID(),
		Details:  fmt.Sprintf("tool=%s recreated=%t", result.Tool, result.Recreated),
	})

	logSuccess("Environment %s ready (built with %s)", spec.Name, result.Tool)
	fmt.Fprintf(cmd.OutOrStdout(), "  Packages: %s\n", result.PackagesLog)
	fmt.Fprintf(cmd.OutOrStdout(), "  Freeze:   %s\n", result.FreezeLog)
	return nil
}
