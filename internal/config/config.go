// Package config loads application configuration from environment variables
// (SPREAD_ prefix) merged with an optional YAML file, and spread definitions
// from their own YAML file. Environment variables win over file values.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"spreadcli/internal/errors"
)

// Config is the root application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Resolver ResolverConfig `yaml:"resolver" envconfig:"RESOLVER"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout stderr file"`
	File   string `yaml:"file" envconfig:"FILE"`
}

// ResolverConfig carries relative-period resolution defaults
type ResolverConfig struct {
	// DefaultNS is the transition threshold in business days applied when a
	// spread definition does not set its own
	DefaultNS int `yaml:"default_n_s" envconfig:"DEFAULT_NS" default:"3" validate:"min=0"`
}

// PathsConfig holds input and output directories for the CLIs
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	OutDir  string `yaml:"out_dir" envconfig:"OUT_DIR" default:"out"`
}

var validate = validator.New()

// Load builds the configuration: defaults, then the optional YAML file named
// by SPREAD_CONFIG_FILE, then environment variables on top
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SPREAD", &cfg); err != nil {
		return nil, errors.NewConfigError("load config from environment", err)
	}

	if path := os.Getenv("SPREAD_CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, err
		}
		// Re-apply environment so explicit env vars win over file values.
		if err := envconfig.Process("SPREAD", &cfg); err != nil {
			return nil, errors.NewConfigError("load config from environment", err)
		}
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.NewConfigError("config validation failed", err)
	}
	if cfg.Logging.Output == "file" && cfg.Logging.File == "" {
		return nil, errors.NewConfigError("logging.output is \"file\" but logging.file is unset", nil)
	}
	return &cfg, nil
}

// applyFile overlays YAML file values onto cfg
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewConfigError(fmt.Sprintf("read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewConfigError(fmt.Sprintf("parse config file %s", path), err)
	}
	return nil
}
