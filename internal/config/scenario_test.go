package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r, err := NewRegistry(DefaultToolConfig())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	base, ok := r.Lookup("baseline")
	if !ok {
		t.Fatal("baseline scenario missing")
	}
	if len(base.ConfigFiles) != 1 || base.ConfigFiles[0] != BaseConfigFile {
		t.Errorf("baseline config files = %v, want [%s]", base.ConfigFiles, BaseConfigFile)
	}

	ga, ok := r.Lookup("green-ammonia")
	if !ok {
		t.Fatal("green-ammonia scenario missing")
	}
	if len(ga.ConfigFiles) != 2 {
		t.Fatalf("green-ammonia config files = %v", ga.ConfigFiles)
	}
	if ga.ConfigFiles[0] != BaseConfigFile || ga.ConfigFiles[1] != AmmoniaConfigFile {
		t.Errorf("green-ammonia must layer base first then override, got %v", ga.ConfigFiles)
	}

	if _, ok := r.Lookup("coal-heavy"); ok {
		t.Error("unexpected scenario coal-heavy")
	}
}

func TestNewRegistry_ToolConfigScenarios(t *testing.T) {
	cfg := DefaultToolConfig()
	cfg.Scenarios = map[string]RawScenario{
		"offshore-only": {
			Description: "Offshore wind only",
			ConfigFiles: []string{"config.arc.yaml", "overrides/offshore.yaml"},
		},
	}

	r, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	s, ok := r.Lookup("offshore-only")
	if !ok {
		t.Fatal("offshore-only missing")
	}
	if s.Target == "" {
		t.Error("declared scenario should inherit the default target")
	}

	names := r.Names()
	if len(names) != 3 {
		t.Errorf("Names() = %v, want 3 entries", names)
	}
}

func TestNewRegistry_RejectsBadDeclarations(t *testing.T) {
	cfg := DefaultToolConfig()
	cfg.Scenarios = map[string]RawScenario{
		"Bad_Name": {ConfigFiles: []string{"a.yaml"}},
	}
	if _, err := NewRegistry(cfg); err == nil {
		t.Error("expected error for invalid scenario name")
	}

	cfg = DefaultToolConfig()
	cfg.Scenarios = map[string]RawScenario{
		"empty": {},
	}
	if _, err := NewRegistry(cfg); err == nil {
		t.Error("expected error for scenario without config files")
	}
}

func TestScenario_ConfigPaths(t *testing.T) {
	s := Scenario{
		Name:        "green-ammonia",
		ConfigFiles: []string{BaseConfigFile, AmmoniaConfigFile},
	}

	paths, err := s.ConfigPaths("/work/config")
	if err != nil {
		t.Fatalf("ConfigPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	if paths[0] != filepath.Join("/work/config", BaseConfigFile) {
		t.Errorf("paths[0] = %q", paths[0])
	}
}

func TestScenario_ConfigPaths_NoEscape(t *testing.T) {
	s := Scenario{
		Name:        "sneaky",
		ConfigFiles: []string{"../../etc/passwd"},
	}

	paths, err := s.ConfigPaths("/work/config")
	if err != nil {
		return // rejected outright is fine
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, "/work/config") {
			t.Errorf("path %q escapes the config directory", p)
		}
	}
}
