// Package config provides configuration management for PostureBoard.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tmnguyen/postureboard/internal/observability"
)

// Config holds all PostureBoard configuration.
type Config struct {
	Server  ServerConfig                `yaml:"server"`
	Ingest  IngestConfig                `yaml:"ingest"`
	Redis   RedisConfig                 `yaml:"redis"`
	Logging observability.LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// IngestConfig holds finding ingestion settings.
type IngestConfig struct {
	InputDir string `yaml:"input_dir"`
}

// RedisConfig holds Redis connection settings for the API rate limiter.
type RedisConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Addr              string `yaml:"addr"`
	PasswordEnv       string `yaml:"password_env"`
	DB                int    `yaml:"db"`
	PoolSize          int    `yaml:"pool_size"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	IncludeHeaders    bool   `yaml:"include_headers"`
}

// Load reads configuration from a YAML file, layered over defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Ingest: IngestConfig{
			InputDir: "exports",
		},
		Redis: RedisConfig{
			Enabled:           false,
			Addr:              "localhost:6379",
			PasswordEnv:       "POSTUREBOARD_REDIS_PASSWORD",
			DB:                0,
			PoolSize:          10,
			RequestsPerMinute: 120,
			IncludeHeaders:    true,
		},
		Logging: observability.LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
