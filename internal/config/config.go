// Package config handles configuration loading and validation for bulkrename.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bulkrename/internal/logging"
	"bulkrename/internal/naming"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidYAML     ConfigErrorType = "INVALID_YAML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// DefaultPath is where the CLI looks for a configuration file when none is given.
const DefaultPath = "config/config.yaml"

// DefaultLogFile is the log file used when the configuration names none.
const DefaultLogFile = "bulk_file_organizer.log"

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		if e.Message != "" {
			return fmt.Sprintf("configuration file not found: %s (%s)", e.Path, e.Message)
		}
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidYAML:
		return fmt.Sprintf("invalid YAML in configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// LoggingConfig controls the console and rotating file logger.
type LoggingConfig struct {
	File     string `yaml:"file"`
	MaxBytes int64  `yaml:"maxBytes"`
	Backups  int    `yaml:"backups"`
	Level    string `yaml:"level"`
	Color    string `yaml:"color"`
}

// RenameConfig holds defaults for rename runs; command-line flags override them.
type RenameConfig struct {
	Pattern    string `yaml:"pattern"`
	DryRun     bool   `yaml:"dryRun"`
	Contiguous bool   `yaml:"contiguous"`
}

// Configuration holds all settings for bulkrename.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging"`
	Rename  RenameConfig  `yaml:"rename"`
}

// Default returns a Configuration with every default applied.
func Default() *Configuration {
	cfg := &Configuration{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Configuration) ApplyDefaults() {
	if c.Logging.File == "" {
		c.Logging.File = DefaultLogFile
	}
	if c.Logging.MaxBytes == 0 {
		c.Logging.MaxBytes = logging.DefaultMaxBytes
	}
	if c.Logging.Backups == 0 {
		c.Logging.Backups = logging.DefaultBackups
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.Color == "" {
		c.Logging.Color = string(logging.ColorAuto)
	}
}

// Validate checks field values that cannot be defaulted.
func (c *Configuration) Validate() error {
	if c.Logging.MaxBytes < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "logging.maxBytes cannot be negative",
		}
	}
	if c.Logging.Backups < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "logging.backups cannot be negative",
		}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("logging.level: %s", err.Error()),
		}
	}
	switch logging.ColorMode(c.Logging.Color) {
	case "", logging.ColorAuto, logging.ColorAlways, logging.ColorNever:
	default:
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("logging.color must be auto, always or never, got %q", c.Logging.Color),
		}
	}
	if c.Rename.Pattern != "" {
		if err := naming.ValidatePattern(c.Rename.Pattern); err != nil {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("rename.pattern: %s", err.Error()),
			}
		}
	}
	return nil
}

// LoggingOptions converts the logging section into logger options.
func (c *Configuration) LoggingOptions() (logging.Options, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.Options{}, err
	}
	return logging.Options{
		Level: level,
		File:  c.Logging.File,
		Rotation: logging.RotationConfig{
			MaxBytes: c.Logging.MaxBytes,
			Backups:  c.Logging.Backups,
		},
		Color: logging.ColorMode(c.Logging.Color),
	}, nil
}

// Load reads and parses a configuration file from the given path.
// The document root must be a mapping.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	return parse(filePath, data)
}

// LoadOrDefault loads the config if it exists, or returns Default() if the file doesn't exist.
func LoadOrDefault(filePath string) (*Configuration, error) {
	cfg, err := Load(filePath)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == FileNotFound && cfgErr.Message == "" {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func parse(filePath string, data []byte) (*Configuration, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{
			Type:    InvalidYAML,
			Path:    filePath,
			Message: err.Error(),
		}
	}
	if raw == nil {
		return nil, &ConfigError{
			Type:    InvalidYAML,
			Path:    filePath,
			Message: "expected a mapping at the document root",
		}
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidYAML,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.ApplyDefaults()

	return &config, nil
}
