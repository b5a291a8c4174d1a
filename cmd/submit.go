package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"arcrun/internal/audit"
	"arcrun/internal/errors"
	"arcrun/internal/slurm"
	"arcrun/internal/snakemake"
)

var submitCmd = &cobra.Command{
	Use:   "submit <scenario>",
	Short: "Render an sbatch script for a scenario and queue it",
	Long: `Submit merges and validates the scenario's config layers, renders an
sbatch script that activates the conda environment and invokes snakemake,
writes the script under the state directory, and hands it to sbatch.

The script is kept on disk so the exact submission can be inspected or
resubmitted by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubmit,
}

var submitDryRun bool

func init() {
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "Print the rendered sbatch script without submitting")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
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

	cluster := a.Config.Cluster
	inv := snakemake.Invocation{
		ConfigFiles:     paths,
		Target:          sc.Target,
		Cores:           cluster.CPUs,
		MemMB:           snakemake.ReserveMem(cluster.MemMB),
		RerunIncomplete: true,
	}

	spec := slurm.BatchSpec{
		JobName:   "arcrun-" + sc.Name,
		Account:   cluster.Account,
		Partition: cluster.Partition,
		Walltime:  cluster.Walltime,
		Nodes:     cluster.Nodes,
		CPUs:      cluster.CPUs,
		MemMB:     cluster.MemMB,
		MailTo:    cluster.MailTo,
		LogDir:    a.Paths.LogDir,
		Workdir:   a.Paths.Workdir,
		EnvName:   a.Config.Environment.Name,
		Command:   append([]string{"snakemake"}, inv.Args()...),
	}
	script := slurm.RenderScript(spec)

	if submitDryRun {
		fmt.Fprint(cmd.OutOrStdout(), script)
		return nil
	}

	runID := audit.NewRunID()

	if _, err := writeMergedConfig(a, sc, doc, runID); err != nil {
		return err
	}

	scriptDir := filepath.Join(a.Paths.StateDir, "sbatch")
	if err := a.FS.MkdirAll(scriptDir, 0755); err != nil {
		return errors.SubmitFailed(err)
	}
	scriptPath := filepath.Join(scriptDir, fmt.Sprintf("%s-%s.sh", sc.Name, runID))
	if err := a.FS.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		return errors.SubmitFailed(err)
	}

	jobID, err := slurm.Submit(context.Background(), a.Exec, scriptPath)
	if err != nil {
		return errors.SubmitFailed(err)
	}

	_ = a.Audit.Log(audit.Event{
		Type:     audit.EventSubmit,
		Scenario: sc.Name,
		RunID:    runID,
		JobID:    jobID,
		Details:  scriptPath,
	})

	logSuccess("Scenario %s submitted", sc.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  Job ID: %s\n", jobID)
	fmt.Fprintf(cmd.OutOrStdout(), "  Script: %s\n", scriptPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  Watch:  arcrun status %s\n", sc.Name)
	return nil
}
