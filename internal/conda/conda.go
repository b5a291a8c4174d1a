package conda

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"arcrun/internal/logging"
	"arcrun/internal/system"
)

// Spec describes the environment to build.
type Spec struct {
	Name     string
	Manifest string   // declarative manifest (environment.yaml), relative to workdir
	PipExtra []string // pinned extras installed after the manifest solve
}

// Result reports what a provisioning run produced.
type Result struct {
	Tool        string // "mamba" or "conda"
	Recreated   bool   // true when a pre-existing environment was removed first
	PackagesLog string // explicit package list snapshot
	FreezeLog   string // pip-style freeze snapshot
}

// Builder provisions conda environments through the system executor.
type Builder struct {
	Exec    system.CommandExecutor
	FS      system.FileSystem
	Workdir string
	LogDir  string

	// Now is injectable for deterministic log names in tests.
	Now func() time.Time
}

// NewBuilder creates a Builder with the default clock.
func NewBuilder(exec system.CommandExecutor, fs system.FileSystem, workdir, logDir string) *Builder {
	return &Builder{Exec: exec, FS: fs, Workdir: workdir, LogDir: logDir, Now: time.Now}
}

// tool prefers mamba when installed; the solver difference is an order of
// magnitude on the full manifest.
func (b *Builder) tool() string {
	if _, err := b.Exec.LookPath("mamba"); err == nil {
		return "mamba"
	}
	return "conda"
}

// Provision builds the environment from scratch: any pre-existing
// environment with the same name is removed first, so reruns are
// idempotent. After the manifest solve and pip extras, two audit snapshots
// are written to the log directory. There is no rollback on partial
// failure; the next run starts from the removal step again.
func (b *Builder) Provision(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("environment name is empty")
	}

	tool := b.tool()
	result := &Result{Tool: tool}
	logging.Debug("provisioning environment", "tool", tool, "name", spec.Name, "manifest", spec.Manifest)

	// Removal failure just means the environment did not exist.
	if out, err := b.Exec.Execute(ctx, tool, "env", "remove", "-n", spec.Name, "-y"); err == nil {
		result.Recreated = true
	} else {
		logging.Debug("environment removal skipped", "name", spec.Name, "output", strings.TrimSpace(string(out)))
	}

	manifest := spec.Manifest
	if manifest != "" && !filepath.IsAbs(manifest) {
		manifest = filepath.Join(b.Workdir, manifest)
	}

	if out, err := b.Exec.Execute(ctx, tool, "env", "create", "-n", spec.Name, "-f", manifest); err != nil {
		return nil, fmt.Errorf("env create from %s failed: %w (output: %s)", manifest, err, tail(out))
	}

	if len(spec.PipExtra) > 0 {
		args := append([]string{"run", "-n", spec.Name, "pip", "install"}, spec.PipExtra...)
		if out, err := b.Exec.Execute(ctx, tool, args...); err != nil {
			return nil, fmt.Errorf("pip extras failed: %w (output: %s)", err, tail(out))
		}
	}

	if err := b.snapshot(ctx, tool, spec.Name, result); err != nil {
		return nil, err
	}

	return result, nil
}

// snapshot writes the two audit logs: the explicit package list and the
// pip freeze of the final environment.
func (b *Builder) snapshot(ctx context.Context, tool, name string, result *Result) error {
	if err := b.FS.MkdirAll(b.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	stamp := b.Now().Format("20060102-150405")

	pkgs, err := b.Exec.Execute(ctx, tool, "list", "-n", name, "--export")
	if err != nil {
		return fmt.Errorf("package list snapshot failed: %w", err)
	}
	result.PackagesLog = filepath.Join(b.LogDir, fmt.Sprintf("packages-%s-%s.txt", name, stamp))
	if err := b.FS.WriteFile(result.PackagesLog, pkgs, 0644); err != nil {
		return fmt.Errorf("failed to write package snapshot: %w", err)
	}

	frozen, err := b.Exec.Execute(ctx, tool, "run", "-n", name, "pip", "freeze")
	if err != nil {
		return fmt.Errorf("pip freeze snapshot failed: %w", err)
	}
	result.FreezeLog = filepath.Join(b.LogDir, fmt.Sprintf("freeze-%s-%s.txt", name, stamp))
	if err := b.FS.WriteFile(result.FreezeLog, frozen, 0644); err != nil {
		return fmt.Errorf("failed to write freeze snapshot: %w", err)
	}

	return nil
}

func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	const max = 400
	if len(s) > max {
		return "..." + s[len(s)-max:]
	}
	return s
}
