// Package config loads the tracker configuration from a YAML file with
// environment overrides, falling back to defaults when no file exists.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings consumed by the store, views, and
// recurrence engine.
type Config struct {
	DataDir         string `mapstructure:"data_dir"`
	DaysSoon        int    `mapstructure:"days_soon"`
	PriorityHigh    int    `mapstructure:"priority_high"`
	PriorityMedium  int    `mapstructure:"priority_medium"`
	PriorityNormal  int    `mapstructure:"priority_normal"`
	DefaultDuration int    `mapstructure:"default_duration"` // minutes
	RecurrenceLimit int    `mapstructure:"recurrence_limit"`
	UserEmail       string `mapstructure:"user_email"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir:         filepath.Join(home, ".local", "share", "nrrdtask"),
		DaysSoon:        1,
		PriorityHigh:    3,
		PriorityMedium:  6,
		PriorityNormal:  9,
		DefaultDuration: 30,
		RecurrenceLimit: 100,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nrrdtask", "config.yaml")
}

// Load reads the config file at path, merging it over the defaults.
// Environment variables prefixed NRRDTASK_ override both. A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("days_soon", cfg.DaysSoon)
	v.SetDefault("priority_high", cfg.PriorityHigh)
	v.SetDefault("priority_medium", cfg.PriorityMedium)
	v.SetDefault("priority_normal", cfg.PriorityNormal)
	v.SetDefault("default_duration", cfg.DefaultDuration)
	v.SetDefault("recurrence_limit", cfg.RecurrenceLimit)
	v.SetDefault("user_email", cfg.UserEmail)
	v.SetEnvPrefix("nrrdtask")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return nil, err
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.DaysSoon < 1 {
		cfg.DaysSoon = 1
	}
	if cfg.RecurrenceLimit < 1 {
		cfg.RecurrenceLimit = Default().RecurrenceLimit
	}
	return cfg, nil
}
