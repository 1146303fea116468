// Package config loads service and CLI settings from defaults, an optional
// YAML file and BONDCURVE_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BONDCURVE_SERVER_ADDRESS
const EnvPrefix = "BONDCURVE"

// Config is the root configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Source  SourceConfig  `mapstructure:"source"`
	Curve   CurveConfig   `mapstructure:"curve"`
}

// LogConfig configures the JSON logger
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig configures the HTTP service
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StorageConfig configures the Badger curve store
type StorageConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// CacheConfig configures the loaded curve cache
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SourceConfig configures remote curve downloads
type SourceConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// CurveConfig holds CLI curve defaults
type CurveConfig struct {
	DefaultFile string `mapstructure:"default_file"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml
//  2. ~/.bondcurve/config.yaml
//
// A missing file is not an error.
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".bondcurve"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets the defaults for all config values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("server.address", ":8080")

	v.SetDefault("storage.path", filepath.Join(".", "data"))
	v.SetDefault("storage.in_memory", false)

	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("source.timeout", 10*time.Second)
	v.SetDefault("source.max_retries", 3)

	v.SetDefault("curve.default_file", "")
}

// Validate rejects settings the components cannot run with
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path must be set unless storage.in_memory is true")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", c.Source.Timeout)
	}
	if c.Source.MaxRetries < 1 {
		return fmt.Errorf("source.max_retries must be at least 1, got %d", c.Source.MaxRetries)
	}
	return nil
}

// homeDir returns the user's home directory
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
