// Package config loads server configuration from an optional YAML file plus
// PAUTA_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Reasoning ReasoningConfig `yaml:"reasoning"`
	Research  ResearchConfig  `yaml:"research"`
	Progress  ProgressConfig  `yaml:"progress"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the MCP server is exposed: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ReasoningConfig points at the external structured reasoning service. An
// empty endpoint disables it; the planner then runs on its deterministic
// fallbacks.
type ReasoningConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ResearchConfig points at the optional external search service.
type ResearchConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ProgressConfig tunes the planning session registry.
type ProgressConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: "pauta.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Reasoning: ReasoningConfig{
			Timeout: 60 * time.Second,
		},
		Research: ResearchConfig{
			Timeout: 30 * time.Second,
		},
		Progress: ProgressConfig{
			TTL: 30 * time.Minute,
		},
	}

	if path := os.Getenv("PAUTA_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PAUTA_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PAUTA_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PAUTA_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("PAUTA_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("PAUTA_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PAUTA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if endpoint := os.Getenv("PAUTA_REASONING_ENDPOINT"); endpoint != "" {
		cfg.Reasoning.Endpoint = endpoint
	}
	if key := os.Getenv("PAUTA_REASONING_API_KEY"); key != "" {
		cfg.Reasoning.APIKey = key
	}
	if model := os.Getenv("PAUTA_REASONING_MODEL"); model != "" {
		cfg.Reasoning.Model = model
	}
	if timeout := os.Getenv("PAUTA_REASONING_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PAUTA_REASONING_TIMEOUT: %w", err)
		}
		cfg.Reasoning.Timeout = d
	}
	if endpoint := os.Getenv("PAUTA_RESEARCH_ENDPOINT"); endpoint != "" {
		cfg.Research.Endpoint = endpoint
	}
	if key := os.Getenv("PAUTA_RESEARCH_API_KEY"); key != "" {
		cfg.Research.APIKey = key
	}
	if timeout := os.Getenv("PAUTA_RESEARCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PAUTA_RESEARCH_TIMEOUT: %w", err)
		}
		cfg.Research.Timeout = d
	}
	if ttl := os.Getenv("PAUTA_PROGRESS_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PAUTA_PROGRESS_TTL: %w", err)
		}
		cfg.Progress.TTL = d
	}

	if cfg.Transport.Mode != "http" && cfg.Transport.Mode != "stdio" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
