package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"arcrun/internal/app"
	"arcrun/internal/config"
	"arcrun/internal/errors"
	"arcrun/internal/overlay"
)

// getApp returns the application context, honoring an explicit --config path.
func getApp() (*app.App, error) {
	if configPath == "" {
		return app.Default(), nil
	}
	cfg, err := config.LoadToolConfig(configPath)
	if err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("failed to load %s", configPath), err)
	}
	return app.New(app.WithConfig(cfg)), nil
}

// scenarioArg resolves the positional scenario argument. A missing argument
// and an undeclared scenario are distinct failures with distinct exit codes.
func scenarioArg(a *app.App, args []string) (config.Scenario, error) {
	if len(args) == 0 {
		return config.Scenario{}, errors.MissingScenario()
	}
	return lookupScenario(a, args[0])
}

// lookupScenario resolves a scenario by name against the registry.
func lookupScenario(a *app.App, name string) (config.Scenario, error) {
	sc, ok := a.Scenarios.Lookup(name)
	if !ok {
		return config.Scenario{}, errors.UnknownScenario(name, a.Scenarios.Names())
	}
	return sc, nil
}

// loadMergedConfig layers the scenario's config files in declaration order
// and returns the merged document together with the resolved file paths.
func loadMergedConfig(a *app.App, sc config.Scenario) (overlay.Document, []string, error) {
	paths, err := sc.ConfigPaths(a.Paths.ConfigDir)
	if err != nil {
		return nil, nil, errors.ConfigInvalid(fmt.Sprintf("scenario %s", sc.Name), err)
	}
	for _, p := range paths {
		if !a.FS.Exists(p) {
			return nil, nil, errors.ConfigInvalid(fmt.Sprintf("scenario %s: missing config file %s", sc.Name, p), nil)
		}
	}
	doc, err := overlay.LoadAll(a.FS, paths)
	if err != nil {
		return nil, nil, errors.ConfigInvalid(fmt.Sprintf("scenario %s", sc.Name), err)
	}
	return doc, paths, nil
}

// validateMergedConfig runs the shape checks on a merged document and
// converts violations into a single config error listing all of them.
func validateMergedConfig(sc config.Scenario, doc overlay.Document) error {
	violations := overlay.Validate(doc)
	if len(violations) == 0 {
		return nil
	}
	for _, v := range violations {
		logError("%s: %s", sc.Name, v)
	}
	return errors.New(errors.ExitConfigInvalid,
		fmt.Sprintf("scenario %s: %d config violation(s)", sc.Name, len(violations)))
}

// writeMergedConfig persists the merged document under the state dir so the
// exact config a run saw survives next to its logs.
func writeMergedConfig(a *app.App, sc config.Scenario, doc overlay.Document, runID string) (string, error) {
	data, err := doc.Marshal()
	if err != nil {
		return "", errors.ConfigInvalid("failed to render merged config", err)
	}
	dir := filepath.Join(a.Paths.StateDir, "merged")
	if err := a.FS.MkdirAll(dir, 0755); err != nil {
		return "", errors.ConfigInvalid("failed to create state dir", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", sc.Name, runID))
	if err := a.FS.WriteFile(path, data, 0644); err != nil {
		return "", errors.ConfigInvalid("failed to write merged config", err)
	}
	return path, nil
}

// warnMissingGurobiLicense flags a solver misconfiguration before it costs a
// queue slot. Only consulted when the merged config selects gurobi.
func warnMissingGurobiLicense(doc overlay.Document) {
	name, ok := doc.Lookup("solving", "solver", "name")
	if !ok || name != "gurobi" {
		return
	}
	if os.Getenv(config.EnvGurobiLic) == "" {
		logWarning("solver is gurobi but %s is not set", config.EnvGurobiLic)
	}
}
