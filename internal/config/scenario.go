package config

import (
	"fmt"
	"sort"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Scenario is a named combination of configuration overlays selecting
// technology mix and objective. ConfigFiles are relative to the config
// directory and ordered: the base file always comes first, overrides after.
type Scenario struct {
	Name        string
	Description string
	ConfigFiles []string
	Target      string
}

// Built-in scenarios. The base geography/solver file is always layered first;
// scenario overrides follow.
const (
	BaseConfigFile    = "config.arc.yaml"
	AmmoniaConfigFile = "overrides/green-ammonia.yaml"
)

func builtinScenarios() map[string]Scenario {
	return map[string]Scenario{
		"baseline": {
			Name:        "baseline",
			Description: "Base Iberian system, no technology overrides",
			ConfigFiles: []string{BaseConfigFile},
			Target:      "results/networks/elec_s_10_ec_lcopt_24H.nc",
		},
		"green-ammonia": {
			Name:        "green-ammonia",
			Description: "Base system plus green-ammonia electrolyser/store/CCGT chain",
			ConfigFiles: []string{BaseConfigFile, AmmoniaConfigFile},
			Target:      "results/networks/elec_s_10_ec_lcopt_24H.nc",
		},
	}
}

// Registry maps scenario names to their definitions.
type Registry struct {
	scenarios map[string]Scenario
}

// NewRegistry builds the registry from the built-ins plus any scenarios
// declared in the tool config. A declared scenario with a built-in name
// replaces the built-in.
func NewRegistry(cfg *ToolConfig) (*Registry, error) {
	scenarios := builtinScenarios()

	for name, raw := range cfg.Scenarios {
		if err := ValidateScenarioName(name); err != nil {
			return nil, err
		}
		if len(raw.ConfigFiles) == 0 {
			return nil, fmt.Errorf("scenario %q declares no config files", name)
		}
		s := Scenario{
			Name:        name,
			Description: raw.Description,
			ConfigFiles: raw.ConfigFiles,
			Target:      raw.Target,
		}
		if s.Target == "" {
			s.Target = builtinScenarios()["baseline"].Target
		}
		scenarios[name] = s
	}

	return &Registry{scenarios: scenarios}, nil
}

// Lookup returns the scenario for name.
func (r *Registry) Lookup(name string) (Scenario, bool) {
	s, ok := r.scenarios[name]
	return s, ok
}

// Names returns all scenario names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all scenarios sorted by name.
func (r *Registry) All() []Scenario {
	all := make([]Scenario, 0, len(r.scenarios))
	for _, name := range r.Names() {
		all = append(all, r.scenarios[name])
	}
	return all
}

// ConfigPaths resolves a scenario's config files under configDir, in order.
// Relative entries may not escape the config directory; a scenario declared
// with "../secrets.yaml" is rejected rather than resolved.
func (s Scenario) ConfigPaths(configDir string) ([]string, error) {
	paths := make([]string, 0, len(s.ConfigFiles))
	for _, f := range s.ConfigFiles {
		p, err := securejoin.SecureJoin(configDir, f)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: config file %q: %w", s.Name, f, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
