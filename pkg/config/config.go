// Package config provides configuration management for stackfold.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Fold    FoldConfig    `mapstructure:"fold"`
	History HistoryConfig `mapstructure:"history"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// FoldConfig holds default folding options. Command-line flags override
// these per run.
type FoldConfig struct {
	DiscardLineNumbers      bool   `mapstructure:"discard_lineno"`
	DiscardThread           bool   `mapstructure:"discard_thread"`
	ShortenPackages         bool   `mapstructure:"shorten_pkgs"`
	SkipTraceOnMissingFrame bool   `mapstructure:"skip_trace_on_missing_frame"`
	SkipSleepFrames         bool   `mapstructure:"skip_sleep_frames"`
	HPLVersion              int    `mapstructure:"hpl_version"`
	MissingTracePolicy      string `mapstructure:"missing_trace_policy"` // error or drop
}

// HistoryConfig holds the conversion-history database configuration.
type HistoryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Type     string `mapstructure:"type"` // sqlite, mysql or postgres
	Path     string `mapstructure:"path"` // sqlite database file
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration for remote inputs.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"` // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"` // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("stackfold")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/stackfold")
		v.AddConfigPath("/etc/stackfold")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file, defaults apply
		} else if os.IsNotExist(err) {
			// File specified but doesn't exist, defaults apply
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("STACKFOLD")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Fold defaults
	v.SetDefault("fold.discard_lineno", false)
	v.SetDefault("fold.discard_thread", false)
	v.SetDefault("fold.shorten_pkgs", false)
	v.SetDefault("fold.skip_trace_on_missing_frame", false)
	v.SetDefault("fold.skip_sleep_frames", false)
	v.SetDefault("fold.hpl_version", 2)
	v.SetDefault("fold.missing_trace_policy", "error")

	// History defaults
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.type", "sqlite")
	v.SetDefault("history.path", "./stackfold-history.db")
	v.SetDefault("history.max_conns", 10)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", ".")

	// Log defaults
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.History.Type {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported history database type: %s", c.History.Type)
	}

	if c.History.Type == "sqlite" && c.History.Path == "" {
		return fmt.Errorf("history path is required for sqlite")
	}
	if c.History.Enabled && c.History.Type != "sqlite" && c.History.Host == "" {
		return fmt.Errorf("history host is required for %s", c.History.Type)
	}

	if c.Fold.HPLVersion != 1 && c.Fold.HPLVersion != 2 {
		return fmt.Errorf("unsupported hpl version: %d", c.Fold.HPLVersion)
	}

	switch c.Fold.MissingTracePolicy {
	case "error", "drop":
	default:
		return fmt.Errorf("unsupported missing trace policy: %s", c.Fold.MissingTracePolicy)
	}

	return nil
}
