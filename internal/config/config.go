package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Fetch     FetchConfig     `toml:"fetch" yaml:"fetch"`
	Nav       NavConfig       `toml:"nav" yaml:"nav"`
	Logging   LogConfig       `toml:"logging" yaml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit" yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090" toml:"port" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" toml:"host" yaml:"host"`
}

// FetchConfig holds record fetch configuration.
type FetchConfig struct {
	TimeoutSeconds int    `envconfig:"FETCH_TIMEOUT" default:"30" toml:"timeout_seconds" yaml:"timeout_seconds"`
	UserAgent      string `envconfig:"FETCH_USER_AGENT" default:"fieldex/1.0" toml:"user_agent" yaml:"user_agent"`
	Cookie         string `envconfig:"FETCH_COOKIE" default:"" toml:"cookie" yaml:"cookie"`
}

// NavConfig holds hide-list store configuration.
type NavConfig struct {
	StoreDir string `envconfig:"NAV_STORE_DIR" default:"data/navhide" toml:"store_dir" yaml:"store_dir"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled" yaml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment, then overlays a
// config file chosen by extension (.toml, .yaml, .yml). File values win
// over environment values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			UserAgent:      "fieldex/1.0",
		},
		Nav: NavConfig{
			StoreDir: "data/navhide",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
