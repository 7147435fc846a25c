package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Sweep  SweepConfig  `yaml:"sweep"`
	HTTP   HTTPConfig   `yaml:"http"`
	Notify NotifyConfig `yaml:"notify"`
}

// StoreConfig selects and locates the tabular backing store
type StoreConfig struct {
	// Driver is "sqlite" or "memory"
	Driver string `yaml:"driver"`
	// Path is the sqlite database file; ignored for the memory driver
	Path string `yaml:"path"`
}

// SweepConfig controls the daily reminder sweep schedule
type SweepConfig struct {
	// Hour and Minute give the local wall-clock time of the daily run
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
}

// HTTPConfig controls the daemon's diagnostics listener
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// NotifyConfig controls outbound notification delivery
type NotifyConfig struct {
	// Dispatcher is "smtp" or "log"
	Dispatcher string `yaml:"dispatcher"`
	SMTPHost   string `yaml:"smtp_host"`
	SMTPPort   int    `yaml:"smtp_port"`
	From       string `yaml:"from"`
}

// Default returns the built-in configuration
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return Default(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "rumbo", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "rumbo", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Store.Path = filepath.Join(home, ".rumbo", "tracker.db")
		} else {
			c.Store.Path = "tracker.db"
		}
	}
	if c.Sweep.Hour == 0 && c.Sweep.Minute == 0 {
		// 08:00 local, before the working day starts
		c.Sweep.Hour = 8
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = "127.0.0.1:7160"
	}
	if c.Notify.Dispatcher == "" {
		c.Notify.Dispatcher = "log"
	}
	if c.Notify.SMTPPort == 0 {
		c.Notify.SMTPPort = 25
	}
}

// validate rejects values the daemon cannot run with
func (c *Config) validate() error {
	switch c.Store.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Notify.Dispatcher {
	case "smtp", "log":
	default:
		return fmt.Errorf("unknown notify dispatcher %q", c.Notify.Dispatcher)
	}
	if c.Sweep.Hour < 0 || c.Sweep.Hour > 23 {
		return fmt.Errorf("sweep hour %d out of range", c.Sweep.Hour)
	}
	if c.Sweep.Minute < 0 || c.Sweep.Minute > 59 {
		return fmt.Errorf("sweep minute %d out of range", c.Sweep.Minute)
	}
	if c.Notify.Dispatcher == "smtp" && c.Notify.SMTPHost == "" {
		return fmt.Errorf("smtp dispatcher requires an smtp_host")
	}
	return nil
}
