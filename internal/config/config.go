// Package config holds the sitedeploy configuration. Every field has a
// conventional default so the bare `sitedeploy` invocation needs no
// configuration file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the conventional configuration file name.
const DefaultPath = "sitedeploy.yaml"

// Config represents the application configuration.
type Config struct {
	Installer InstallerConfig `yaml:"installer"`
	Generator GeneratorConfig `yaml:"generator"`
	Deploy    DeployConfig    `yaml:"deploy"`
	Watch     WatchConfig     `yaml:"watch"`
	History   HistoryConfig   `yaml:"history"`
}

// InstallerConfig describes the package-manager invocation that materializes
// the build environment's declared dependencies.
type InstallerConfig struct {
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args,omitempty"`
	Manifest string   `yaml:"manifest,omitempty"`
}

// GeneratorConfig describes the static-site-generator invocation. The tool
// locates its own configuration file; only the output directory name is part
// of the contract.
type GeneratorConfig struct {
	Command   string   `yaml:"command"`
	Args      []string `yaml:"args,omitempty"`
	OutputDir string   `yaml:"output_dir"`
}

// DeployConfig describes where generated output is relocated to.
type DeployConfig struct {
	TargetDir string `yaml:"target_dir"`
}

// WatchConfig controls the continuous redeploy mode. Durations are strings
// in time.ParseDuration format ("2s", "5m").
type WatchConfig struct {
	Paths       []string `yaml:"paths,omitempty"`
	QuietWindow string   `yaml:"quiet_window,omitempty"`
	Interval    string   `yaml:"interval,omitempty"`     // non-empty enables scheduled redeploys
	MetricsAddr string   `yaml:"metrics_addr,omitempty"` // e.g. ":9090" enables /metrics
}

// QuietWindowDuration parses the quiet window, falling back to the default
// on a malformed value.
func (w WatchConfig) QuietWindowDuration() time.Duration {
	d, err := time.ParseDuration(w.QuietWindow)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// IntervalDuration parses the scheduled redeploy interval. Zero means no
// schedule.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// HistoryConfig controls the deploy run store.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// HistoryEnabled reports whether run history should be recorded.
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled == nil {
		return true
	}
	return *c.History.Enabled
}

// Default returns the zero-configuration conventional setup: pip installs
// requirements.txt, mkdocs builds into site/, output lands in the working
// directory.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified file. A missing file is not an
// error: conventional defaults apply.
func Load(configPath string) (*Config, error) {
	// Load .env files if present; existing process env wins.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", envPath, err)
				continue
			}
			break
		}
	}

	if configPath == "" {
		configPath = DefaultPath
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Installer.Command == "" {
		c.Installer.Command = "pip"
	}
	if c.Installer.Manifest == "" {
		c.Installer.Manifest = "requirements.txt"
	}
	if len(c.Installer.Args) == 0 {
		c.Installer.Args = []string{"install", "-r", c.Installer.Manifest}
	}
	if c.Generator.Command == "" {
		c.Generator.Command = "mkdocs"
	}
	if len(c.Generator.Args) == 0 {
		c.Generator.Args = []string{"build"}
	}
	if c.Generator.OutputDir == "" {
		c.Generator.OutputDir = "site"
	}
	if c.Deploy.TargetDir == "" {
		c.Deploy.TargetDir = "."
	}
	if len(c.Watch.Paths) == 0 {
		c.Watch.Paths = []string{"docs", "mkdocs.yml"}
	}
	if c.Watch.QuietWindow == "" {
		c.Watch.QuietWindow = "2s"
	}
	if c.History.Path == "" {
		c.History.Path = ".sitedeploy/history.db"
	}
}
