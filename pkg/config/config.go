// Package config loads tradesync configuration from a YAML file with
// environment variable overrides. Every value has a usable default so a
// bare `tradesync-server` starts without any file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pitrade/tradesync/pkg/logger"
)

// DuplicatePolicy decides what happens when a second push channel is
// opened for an identity that already has one.
type DuplicatePolicy string

const (
	// DuplicateFanout keeps every channel alive and schedules each
	// independently.
	DuplicateFanout DuplicatePolicy = "fanout"
	// DuplicateSupersede closes the existing channel when a new one
	// arrives for the same identity.
	DuplicateSupersede DuplicatePolicy = "supersede"
)

// ServerConfig configures the REST + push server.
type ServerConfig struct {
	Listen            string          `yaml:"listen"`
	BroadcastInterval time.Duration   `yaml:"broadcast_interval"`
	DuplicatePolicy   DuplicatePolicy `yaml:"duplicate_policy"`
}

// ClientConfig configures the SDK side: where the REST backend and the
// push endpoint live, and where the bearer token persists.
type ClientConfig struct {
	APIBaseURL     string `yaml:"api_base_url"`
	PushBaseURL    string `yaml:"push_base_url"`
	TokenStorePath string `yaml:"token_store_path"`
}

// Config is the full configuration tree.
type Config struct {
	Server ServerConfig  `yaml:"server"`
	Client ClientConfig  `yaml:"client"`
	Log    logger.Config `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:            ":3001",
			BroadcastInterval: 30 * time.Second,
			DuplicatePolicy:   DuplicateFanout,
		},
		Client: ClientConfig{
			APIBaseURL:     "http://localhost:3001/api",
			PushBaseURL:    "ws://localhost:3001/ws",
			TokenStorePath: "data/tokenstore",
		},
		Log: logger.Config{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), then applies environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRADESYNC_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("TRADESYNC_BROADCAST_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.BroadcastInterval = d
		}
	}
	if v := os.Getenv("TRADESYNC_DUPLICATE_POLICY"); v != "" {
		cfg.Server.DuplicatePolicy = DuplicatePolicy(v)
	}
	if v := os.Getenv("TRADESYNC_API_URL"); v != "" {
		cfg.Client.APIBaseURL = v
	}
	if v := os.Getenv("TRADESYNC_PUSH_URL"); v != "" {
		cfg.Client.PushBaseURL = v
	}
	if v := os.Getenv("TRADESYNC_TOKEN_STORE"); v != "" {
		cfg.Client.TokenStorePath = v
	}
	if v := os.Getenv("TRADESYNC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRADESYNC_LOG_FILE"); v != "" {
		cfg.Log.OutputFile = v
	}
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch c.Server.DuplicatePolicy {
	case DuplicateFanout, DuplicateSupersede:
	default:
		return fmt.Errorf("invalid duplicate_policy %q (want %q or %q)",
			c.Server.DuplicatePolicy, DuplicateFanout, DuplicateSupersede)
	}
	if c.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("broadcast_interval must be positive, got %v", c.Server.BroadcastInterval)
	}
	return nil
}
