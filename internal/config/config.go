package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// scenarioNameRegex validates scenario names.
// Names must start with a lowercase letter or digit, followed by lowercase
// letters, digits, or hyphens. Maximum length is 63 characters.
var scenarioNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)

// ValidateScenarioName checks if a scenario name is valid.
func ValidateScenarioName(name string) error {
	if name == "" {
		return fmt.Errorf("scenario name cannot be empty")
	}

	if !scenarioNameRegex.MatchString(name) {
		return fmt.Errorf("invalid scenario name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

// Environment variables honored across commands.
const (
	EnvWorkdir     = "ARCRUN_WORKDIR"     // overrides the workflow checkout directory
	EnvCondaEnv    = "ARCRUN_ENV"         // overrides the conda environment name
	EnvToolConfig  = "ARCRUN_CONFIG"      // overrides the arcrun.toml location
	EnvGurobiLic   = "GRB_LICENSE_FILE"   // Gurobi license path, forwarded to the solver
	EnvSlurmMem    = "SLURM_MEM_PER_NODE" // MB, set by the batch scheduler
	EnvSlurmCPUs   = "SLURM_CPUS_PER_TASK"
	EnvSlurmJobID  = "SLURM_JOB_ID"
	DefaultEnvName = "pypsa-earth"
)

// ClusterConfig holds batch-scheduler submission settings.
type ClusterConfig struct {
	Account   string `toml:"account"`
	Partition string `toml:"partition"`
	Walltime  string `toml:"walltime"` // e.g. "48:00:00"
	Nodes     int    `toml:"nodes"`
	CPUs      int    `toml:"cpus"`   // cpus-per-task when SLURM vars are absent
	MemMB     int    `toml:"mem_mb"` // memory request when SLURM vars are absent
	MailTo    string `toml:"mail_to"`
}

// EnvironmentConfig holds conda environment provisioning settings.
type EnvironmentConfig struct {
	Name     string   `toml:"name"`
	Manifest string   `toml:"manifest"` // environment.yaml path, relative to the workdir
	PipExtra []string `toml:"pip_extra"`
}

// ToolConfig is the on-disk tool configuration (arcrun.toml).
type ToolConfig struct {
	Workdir   string `toml:"workdir"`    // PyPSA-Earth checkout
	ConfigDir string `toml:"config_dir"` // scenario YAML root, default <workdir>/config
	StateDir  string `toml:"state_dir"`  // sbatch scripts, audit logs, merged configs
	LogDir    string `toml:"log_dir"`    // provisioning audit logs, job stdout/stderr

	Cluster     ClusterConfig          `toml:"cluster"`
	Environment EnvironmentConfig      `toml:"environment"`
	Scenarios   map[string]RawScenario `toml:"scenarios"`
}

// RawScenario is a scenario declaration as written in arcrun.toml.
type RawScenario struct {
	Description string   `toml:"description"`
	ConfigFiles []string `toml:"config_files"`
	Target      string   `toml:"target"`
}

// DefaultToolConfig returns the built-in defaults, used when no arcrun.toml
// exists. The zero workdir means "current directory".
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		Environment: EnvironmentConfig{
			Name:     DefaultEnvName,
			Manifest: "envs/environment.yaml",
		},
		Cluster: ClusterConfig{
			Partition: "medium",
			Walltime:  "48:00:00",
			Nodes:     1,
			CPUs:      8,
			MemMB:     64000,
		},
	}
}

// LoadToolConfig reads arcrun.toml from path. When path is empty the
// ARCRUN_CONFIG variable, then ./arcrun.toml, then
// ~/.config/arcrun/arcrun.toml are tried; absence of all of them is not an
// error and yields the defaults.
func LoadToolConfig(path string) (*ToolConfig, error) {
	cfg := DefaultToolConfig()

	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvToolConfig)
		explicit = path != ""
	}
	if path == "" {
		for _, cand := range defaultConfigPaths() {
			if _, err := os.Stat(cand); err == nil {
				path = cand
				break
			}
		}
		if path == "" {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load tool config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func defaultConfigPaths() []string {
	paths := []string{"arcrun.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "arcrun", "arcrun.toml"))
	}
	return paths
}

func (c *ToolConfig) applyEnvOverrides() {
	if wd := os.Getenv(EnvWorkdir); wd != "" {
		c.Workdir = wd
	}
	if env := os.Getenv(EnvCondaEnv); env != "" {
		c.Environment.Name = env
	}
}

// Paths resolves the directory layout from the tool config.
func (c *ToolConfig) Paths() *Paths {
	workdir := c.Workdir
	if workdir == "" {
		workdir = "."
	}

	configDir := c.ConfigDir
	if configDir == "" {
		configDir = filepath.Join(workdir, "config")
	}

	stateDir := c.StateDir
	if stateDir == "" {
		stateDir = filepath.Join(workdir, ".arcrun")
	}

	logDir := c.LogDir
	if logDir == "" {
		logDir = filepath.Join(stateDir, "logs")
	}

	return &Paths{
		Workdir:    workdir,
		ConfigDir:  configDir,
		StateDir:   stateDir,
		LogDir:     logDir,
		ResultsDir: filepath.Join(workdir, "results"),
		LockDir:    filepath.Join(workdir, ".snakemake", "locks"),
	}
}

// Paths holds the resolved directory layout.
type Paths struct {
	Workdir    string
	ConfigDir  string
	StateDir   string
	LogDir     string
	ResultsDir string
	LockDir    string
}
