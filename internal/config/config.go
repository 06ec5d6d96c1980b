// Package config holds the configuration for the jsontree CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Key case styles accepted by RenameKey.
const (
	CaseNone   = ""
	CaseCamel  = "camel"
	CaseSnake  = "snake"
	CaseKebab  = "kebab"
	CasePascal = "pascal"
)

// Config represents the complete configuration for the jsontree CLI
type Config struct {
	// KeyCase rewrites every object key to the given style on output.
	KeyCase string `yaml:"key_case"`
	// Check validates the input without printing the document.
	Check bool `yaml:"check"`
	// FieldMappings are exact-name key overrides, applied before KeyCase.
	FieldMappings map[string]string `yaml:"field_mappings"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		KeyCase:       CaseNone,
		Check:         false,
		FieldMappings: make(map[string]string),
	}
}

// Validate checks that the configured values are usable
func (c *Config) Validate() error {
	switch c.KeyCase {
	case CaseNone, CaseCamel, CaseSnake, CaseKebab, CasePascal:
		return nil
	default:
		return fmt.Errorf("invalid key_case %q: expected camel, snake, kebab or pascal", c.KeyCase)
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.FieldMappings == nil {
		cfg.FieldMappings = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontree.yml", ".jsontree.yaml", "jsontree.yml", "jsontree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// RenameKey returns the output name for an object key, applying the exact
// mapping first and the case rule second
func (c *Config) RenameKey(key string) string {
	if mapped, exists := c.FieldMappings[key]; exists {
		return mapped
	}

	switch c.KeyCase {
	case CaseCamel:
		return strcase.ToLowerCamel(key)
	case CaseSnake:
		return strcase.ToSnake(key)
	case CaseKebab:
		return strcase.ToKebab(key)
	case CasePascal:
		return strcase.ToCamel(key)
	default:
		return key
	}
}
