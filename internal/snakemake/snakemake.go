package snakemake

import (
	"context"
	"fmt"
	"strconv"

	shellquote "github.com/kballard/go-shellquote"

	"arcrun/internal/logging"
	"arcrun/internal/system"
)

// memReserveMB is held back from the scheduler's memory grant so the
// workflow engine's own bookkeeping does not push the job over its
// allocation and get it OOM-killed.
const memReserveMB = 2048

// Invocation describes one workflow engine run.
type Invocation struct {
	ConfigFiles     []string // ordered, base first
	Target          string
	Cores           int
	MemMB           int // passed as --resources mem_mb=
	RerunIncomplete bool
	Touch           bool     // --touch, refresh timestamps only
	ExtraArgs       []string // passed through verbatim
}

// Args composes the snakemake argument list.
func (inv Invocation) Args() []string {
	args := []string{}

	for _, f := range inv.ConfigFiles {
		args = append(args, "--configfile", f)
	}

	if inv.Cores > 0 {
		args = append(args, "--cores", strconv.Itoa(inv.Cores))
	}
	if inv.MemMB > 0 {
		args = append(args, "--resources", fmt.Sprintf("mem_mb=%d", inv.MemMB))
	}
	if inv.RerunIncomplete {
		args = append(args, "--rerun-incomplete")
	}
	if inv.Touch {
		args = append(args, "--touch")
	}

	args = append(args, inv.ExtraArgs...)

	if inv.Target != "" {
		args = append(args, inv.Target)
	}
	return args
}

// CommandLine renders the full invocation for display (dry runs, debug logs).
func (inv Invocation) CommandLine() string {
	return shellquote.Join(append([]string{"snakemake"}, inv.Args()...)...)
}

// ReserveMem derives the workflow engine's memory budget from the
// scheduler's grant.
func ReserveMem(grantMB int) int {
	if grantMB <= memReserveMB {
		return grantMB
	}
	return grantMB - memReserveMB
}

// Run executes the invocation in workdir, streaming output and returning the
// engine's exit code unmodified. extraEnv entries are appended to the
// inherited environment.
func Run(ctx context.Context, exec system.CommandExecutor, workdir string, inv Invocation, extraEnv []string) (int, error) {
	logging.Debug("invoking snakemake", "workdir", workdir, "cmd", inv.CommandLine())
	return exec.ExecuteRun(ctx, system.RunSpec{
		Dir:  workdir,
		Env:  extraEnv,
		Name: "snakemake",
		Args: inv.Args(),
	})
}

// Locked reports whether the workflow engine's lock directory holds live
// lock entries. A stale lock after a killed job blocks every subsequent run
// against the same working directory.
func Locked(fs system.FileSystem, lockDir string) bool {
	entries, err := fs.ReadDir(lockDir)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// Unlock asks the engine to release its locks, falling back to removing the
// lock directory contents when the engine itself cannot run (e.g. a broken
// environment). Returns a description of what was done.
func Unlock(ctx context.Context, exec system.CommandExecutor, fs system.FileSystem, workdir, lockDir string, configFiles []string) (string, error) {
	inv := Invocation{ConfigFiles: configFiles, ExtraArgs: []string{"--unlock"}}

	code, err := exec.ExecuteRun(ctx, system.RunSpec{
		Dir:  workdir,
		Name: "snakemake",
		Args: inv.Args(),
	})
	if err == nil && code == 0 {
		return "released via snakemake --unlock", nil
	}

	logging.Warn("snakemake --unlock failed, removing lock directory", "dir", lockDir, "exit", code, "error", err)

	if err := fs.RemoveAll(lockDir); err != nil {
		return "", fmt.Errorf("failed to remove lock directory %s: %w", lockDir, err)
	}
	return "lock directory removed", nil
}
