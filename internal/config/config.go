// Package config loads and persists the tidyplan application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// RulesPath points at the rules file; empty means built-in rules.
	RulesPath string `yaml:"rules_path"`
	// CategoryRoot is where category folders are proposed; empty means the
	// scanned folder itself.
	CategoryRoot string `yaml:"category_root"`
	// ScanDepth bounds how deep roots are scanned (1 = top level only).
	ScanDepth int `yaml:"scan_depth"`
	// IncludeHidden also plans dotfiles.
	IncludeHidden bool `yaml:"include_hidden"`
	// BestEffort skips unreadable roots with a warning instead of failing.
	BestEffort bool `yaml:"best_effort"`
	// MaxSuffix bounds "name (N).ext" conflict disambiguation.
	MaxSuffix int  `yaml:"max_suffix"`
	Verbose   bool `yaml:"verbose"`
}

// LoadError wraps a failure to read, parse or validate a config file. The
// CLI maps it to the configuration exit code.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// GetDefault returns the default configuration.
func GetDefault() *Config {
	return &Config{
		ScanDepth:  1, // never descend by default
		BestEffort: false,
		MaxSuffix:  100,
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, &LoadError{Path: configPath, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, &LoadError{Path: configPath, Err: fmt.Errorf("failed to parse config file: %w", err)}
	}

	if err := config.Validate(); err != nil {
		return nil, &LoadError{Path: configPath, Err: fmt.Errorf("invalid configuration: %w", err)}
	}

	return config, nil
}

// Save saves configuration to a file.
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ScanDepth < 1 {
		return fmt.Errorf("scan depth must be >= 1")
	}
	if c.MaxSuffix < 1 {
		return fmt.Errorf("max suffix must be >= 1")
	}
	if c.CategoryRoot != "" && !filepath.IsAbs(c.CategoryRoot) {
		return fmt.Errorf("category root must be absolute: %s", c.CategoryRoot)
	}
	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); err != nil {
			return fmt.Errorf("rules path: %w", err)
		}
	}
	return nil
}

// GetConfigPath returns the default config path.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "tidyplan")
	return filepath.Join(configDir, "config.yaml"), nil
}
