package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arcrun/internal/audit"
	"arcrun/internal/config"
	"arcrun/internal/errors"
	"arcrun/internal/logging"
	"arcrun/internal/slurm"
	"arcrun/internal/snakemake"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario's workflow in the current allocation",
	Long: `Run merges the scenario's config layers, validates the result, and
invokes snakemake directly. Intended for use inside an interactive
allocation (salloc) or from a submitted batch script.

The workflow engine's exit code is propagated unmodified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var (
	runDryRun          bool
	runRerunIncomplete bool
	runTouch           bool
	runExtraArgs       []string
)

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the composed snakemake command without executing it")
	runCmd.Flags().BoolVar(&runRerunIncomplete, "rerun-incomplete", true, "Re-run jobs left incomplete by a previous attempt")
	runCmd.Flags().BoolVar(&runTouch, "touch", false, "Refresh output timestamps instead of recomputing")
	runCmd.Flags().StringArrayVar(&runExtraArgs, "snakemake-arg", nil, "Extra argument passed through to snakemake (repeatable)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	sc, err := scenarioArg(a, args)
	if err != nil {
		return err
	}

	doc, paths, err := loadMergedConfig(a, sc)
	if err != nil {
		return err
	}
	if err := validateMergedConfig(sc, doc); err != nil {
		return err
	}
	warnMissingGurobiLicense(doc)

	fallback := slurm.Resources{
		CPUs:  a.Config.Cluster.CPUs,
		MemMB: a.Config.Cluster.MemMB,
	}
	res := slurm.ResourcesFromEnv(os.Getenv, fallback)

	inv := snakemake.Invocation{
		ConfigFiles:     paths,
		Target:          sc.Target,
		Cores:           res.CPUs,
		MemMB:           snakemake.ReserveMem(res.MemMB),
		RerunIncomplete: runRerunIncomplete,
		Touch:           runTouch,
		ExtraArgs:       runExtraArgs,
	}

	if runDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), inv.CommandLine())
		return nil
	}

	if snakemake.Locked(a.FS, a.Paths.LockDir) {
		logError("working directory is locked; run 'arcrun unlock' after confirming no job is active")
		return errors.WorkdirLocked(a.Paths.LockDir)
	}

	runID := audit.NewRunID()

	merged, err := writeMergedConfig(a, sc, doc, runID)
	if err != nil {
		return err
	}
	logging.Debug("merged config written", "path", merged)

	_ = a.Audit.Log(audit.Event{
		Type:     audit.EventRunStart,
		Scenario: sc.Name,
		RunID:    runID,
		JobID:    os.Getenv(config.EnvSlurmJobID),
		Details:  inv.CommandLine(),
	})

	ctx := context.Background()
	logInfo("Running scenario %s...", sc.Name)
	code, runErr := snakemake.Run(ctx, a.Exec, a.Paths.Workdir, inv, nil)

	_ = a.Audit.Log(audit.Event{
		Type:     audit.EventRunEnd,
		Scenario: sc.Name,
		RunID:    runID,
		ExitCode: &code,
	})

	if runErr != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to invoke snakemake", runErr)
	}
	if code != 0 {
		return errors.ExternalExit("snakemake", code)
	}

	logSuccess("Scenario %s completed", sc.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  Target: %s\n", sc.Target)
	return nil
}
