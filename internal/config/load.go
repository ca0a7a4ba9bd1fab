package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file. Unknown
// keys are rejected so typos in hand-edited files surface right away
// instead of silently falling back to defaults.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)
	if cfg.Token == "" {
		cfg.Token = tokenFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// FindConfigFile locates the fleet configuration in the working directory.
// Both the .yaml and .yml spellings are accepted, preferring .yaml. The
// returned error wraps os.ErrNotExist when neither file is present.
func FindConfigFile() (string, error) {
	for _, name := range []string{DefaultFileName, "forkfleet.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s: %w", DefaultFileName, os.ErrNotExist)
}

// applyDefaults fills empty fields with the standard fleet defaults.
func applyDefaults(cfg *Config) {
	if cfg.Organization == "" {
		cfg.Organization = DefaultOrganization
	}
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = DefaultBranchName
	}
	if cfg.CloneRoot == "" {
		cfg.CloneRoot = DefaultCloneRoot
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = DefaultReportDir
	}
	if len(cfg.Services) == 0 {
		cfg.Services = DefaultServices()
	}
}

// tokenFromEnv reads the GitHub token from the environment, accepting both
// the Actions-style and gh-CLI-style variable names.
func tokenFromEnv() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}

// WriteFile marshals the configuration to YAML and writes it to path.
// The file may carry credentials, so it is written owner-only.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
