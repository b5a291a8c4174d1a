// Package testutil provides test utilities for command-level tests
package testutil

import (
	"path/filepath"
	"testing"

	"arcrun/internal/app"
	"arcrun/internal/config"
	"arcrun/internal/system"
)

// BaseConfigYAML is a minimal valid scenario base configuration.
const BaseConfigYAML = `
countries: ["ES", "PT"]
scenario:
  clusters: [10]
  opts: ["24H"]
focus_weights:
  ES: 0.7
  PT: 0.3
electricity:
  renewable_carriers: [solar, onwind, offwind-ac, hydro]
  extendable_carriers:
    Generator: [solar, onwind]
    StorageUnit: [battery, H2]
solving:
  solver:
    name: gurobi
`

// AmmoniaOverrideYAML is a minimal green ammonia overlay.
const AmmoniaOverrideYAML = `
custom:
  green_ammonia:
    enable: true
    country_code: ES
  technology_filter:
    generators: [solar, onwind]
`

// TestEnv holds a fully mocked application environment.
type TestEnv struct {
	T      *testing.T
	Config *config.ToolConfig
	FS     *system.MockFS
	Exec   *system.MockExecutor
	App    *app.App
}

// NewTestEnv creates a mocked application with the built-in scenarios'
// config files present on the mock filesystem and installs it as the
// default app for the duration of the test.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg := config.DefaultToolConfig()
	cfg.Workdir = "/work/pypsa-earth"
	cfg.ConfigDir = "/work/pypsa-earth/config"
	cfg.StateDir = "/work/pypsa-earth/.arcrun"
	cfg.LogDir = "/work/pypsa-earth/.arcrun/logs"
	cfg.Cluster.Account = "energy-lab"

	fs := system.NewMockFS()
	fs.AddDir(cfg.Workdir)
	fs.AddFile(filepath.Join(cfg.ConfigDir, config.BaseConfigFile), []byte(BaseConfigYAML), 0644)
	fs.AddFile(filepath.Join(cfg.ConfigDir, config.AmmoniaConfigFile), []byte(AmmoniaOverrideYAML), 0644)
	fs.AddFile(filepath.Join(cfg.Workdir, cfg.Environment.Manifest), []byte("name: pypsa-earth\n"), 0644)

	exec := system.NewMockExecutor()

	a := app.New(app.WithConfig(cfg), app.WithFS(fs), app.WithExecutor(exec))
	app.SetDefault(a)
	t.Cleanup(app.ResetDefault)

	return &TestEnv{
		T:      t,
		Config: cfg,
		FS:     fs,
		Exec:   exec,
		App:    a,
	}
}

// WriteConfig places an additional scenario config file under the config dir.
func (e *TestEnv) WriteConfig(rel, content string) {
	e.T.Helper()
	e.FS.AddFile(filepath.Join(e.Config.ConfigDir, rel), []byte(content), 0644)
}

// AddLock simulates a stale workdir lock left behind by an aborted run.
func (e *TestEnv) AddLock() string {
	e.T.Helper()
	lockDir := e.App.Paths.LockDir
	e.FS.AddFile(filepath.Join(lockDir, "0.lock"), []byte("locked"), 0644)
	return lockDir
}
