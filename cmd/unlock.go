package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"arcrun/internal/audit"
	"arcrun/internal/errors"
	"arcrun/internal/snakemake"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock [scenario]",
	Short: "Release a stale workflow lock on the working directory",
	Long: `A killed or timed-out job leaves the workflow engine's lock behind,
blocking every later run against the same working directory. Unlock asks
the engine to release it, falling back to removing the lock directory
when the engine itself cannot run.

Only use this after confirming no job is still active on the directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUnlock,
}

var unlockForce bool

func init() {
	unlockCmd.Flags().BoolVarP(&unlockForce, "force", "f", false, "Remove the lock directory directly, skipping the engine")
	rootCmd.AddCommand(unlockCmd)
}

func runUnlock(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	scenarioName := "workdir"
	var configFiles []string
	if len(args) == 1 {
		sc, err := lookupScenario(a, args[0])
		if err != nil {
			return err
		}
		scenarioName = sc.Name
		configFiles, err = sc.ConfigPaths(a.Paths.ConfigDir)
		if err != nil {
			return errors.ConfigInvalid(scenarioName, err)
		}
	}

	if !snakemake.Locked(a.FS, a.Paths.LockDir) {
		logInfo("No lock present in %s", a.Paths.LockDir)
		return nil
	}

	var desc string
	if unlockForce {
		if err := a.FS.RemoveAll(a.Paths.LockDir); err != nil {
			return errors.Wrap(errors.ExitGeneralError, "failed to remove lock directory", err)
		}
		desc = "lock directory removed (forced)"
	} else {
		desc, err = snakemake.Unlock(context.Background(), a.Exec, a.FS, a.Paths.Workdir, a.Paths.LockDir, configFiles)
		if err != nil {
			return errors.Wrap(errors.ExitGeneralError, "failed to release lock", err)
		}
	}

	_ = a.Audit.Log(audit.Event{
		Type:     audit.EventUnlock,
		Scenario: scenarioName,
		RunID:    audit.NewRunID(),
		Details:  desc,
	})

	logSuccess("Lock released: %s", desc)
	return nil
}
