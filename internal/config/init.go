package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if configPath == "" {
		configPath = DefaultPath
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Installer: InstallerConfig{
			Command:  "pip",
			Args:     []string{"install", "-r", "requirements.txt"},
			Manifest: "requirements.txt",
		},
		Generator: GeneratorConfig{
			Command:   "mkdocs",
			Args:      []string{"build"},
			OutputDir: "site",
		},
		Deploy: DeployConfig{
			TargetDir: ".",
		},
		Watch: WatchConfig{
			Paths:       []string{"docs", "mkdocs.yml"},
			QuietWindow: "2s",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
