// Package config handles loading and managing application configuration
// from YAML files, an optional .env file, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	Port          int      `yaml:"port"`
	DataDir       string   `yaml:"data_dir"`
	OutputDir     string   `yaml:"output_dir"`
	DefaultTarget string   `yaml:"default_target"`
	DefaultOutput string   `yaml:"default_output"`
	Level         string   `yaml:"level"`
	ImageSize     int      `yaml:"image_size"`
	WebhookURL    string   `yaml:"webhook_url"`
	Retention     Duration `yaml:"retention"`
	LogLevel      string   `yaml:"log_level"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "720h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// defaults returns a Config populated with sensible default values. The
// default target and output filename reproduce the original one-shot run.
func defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		Port:          8560,
		DataDir:       filepath.Join(homeDir, ".qrgen"),
		OutputDir:     "", // resolved to DataDir/codes in Load
		DefaultTarget: "https://irishlab.io",
		DefaultOutput: "website_qr.png",
		Level:         "low",
		ImageSize:     410,
		WebhookURL:    "",
		Retention:     Duration{720 * time.Hour},
		LogLevel:      "info",
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working directory
// is loaded first; environment variables with the QRGEN_ prefix override any
// file or default values.
func Load(path string) (*Config, error) {
	// Missing .env is fine; variables already in the environment win.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.DataDir, "codes")
	}
	return cfg, nil
}

// applyEnvOverrides applies QRGEN_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QRGEN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRGEN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QRGEN_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("QRGEN_DEFAULT_TARGET"); v != "" {
		cfg.DefaultTarget = v
	}
	if v := os.Getenv("QRGEN_DEFAULT_OUTPUT"); v != "" {
		cfg.DefaultOutput = v
	}
	if v := os.Getenv("QRGEN_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("QRGEN_IMAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ImageSize = n
		}
	}
	if v := os.Getenv("QRGEN_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("QRGEN_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Retention = Duration{d}
		}
	}
	if v := os.Getenv("QRGEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// EnsureDirs creates the DataDir and OutputDir if they do not already exist.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", c.OutputDir, err)
	}
	return nil
}
