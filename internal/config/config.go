// Package config handles reading and writing .farmeye/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .farmeye/config.yaml.
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ServerConfig identifies the diagnostic service.
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AnalysisConfig controls submission policy.
type AnalysisConfig struct {
	// RequireSymptoms makes submission invalid until at least one
	// symptom is selected.
	RequireSymptoms bool `yaml:"require_symptoms"`
}

const configDir = ".farmeye"
const configFile = "config.yaml"

// Dir returns the .farmeye directory under home, creating it if needed.
func Dir(home string) (string, error) {
	dir := filepath.Join(home, configDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// ReadConfig reads .farmeye/config.yaml from the given home directory.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(home string) (*Config, error) {
	path := filepath.Join(home, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .farmeye/config.yaml in the given home directory.
// Creates the .farmeye/ directory if it does not exist.
func WriteConfig(home string, cfg *Config) error {
	dir, err := Dir(home)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
		},
		Analysis: AnalysisConfig{
			RequireSymptoms: false,
		},
	}
}
