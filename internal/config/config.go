package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model: where the API server
// lives, where tokens are persisted, and how the session keeps itself
// fresh.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Feed    FeedConfig    `yaml:"feed"`
	API     APIConfig     `yaml:"api"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	// Base URL of the REST API, e.g. http://127.0.0.1:8000
	BaseURL string `yaml:"baseURL"`
}

type SessionConfig struct {
	// Path of the JSON document holding the stored token pair.
	StoragePath string `yaml:"storagePath"`
	// How often the refresh timer fires, e.g. "4m". Must be comfortably
	// shorter than the access-token lifetime. Observed deployments use
	// anything from 4m to 25m; this is configuration, not contract.
	RefreshInterval string `yaml:"refreshInterval"`
}

type FeedConfig struct {
	// How many side-list entries render before "see more".
	SideListLimit int `yaml:"sideListLimit"`
}

type APIConfig struct {
	// Client-side request pacing.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
	// Retry policy for 429/5xx responses.
	MaxAttempts   int `yaml:"maxAttempts"`
	BaseBackoffMS int `yaml:"baseBackoffMs"`
}

type MetricsConfig struct {
	// Listen address for /metrics and /health; empty disables the server.
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Server:  ServerConfig{BaseURL: "http://127.0.0.1:8000"},
		Session: SessionConfig{StoragePath: filepath.Join(home, ".chirp", "storage.json"), RefreshInterval: "4m"},
		Feed:    FeedConfig{SideListLimit: 3},
		API:     APIConfig{RPS: 2.0, Burst: 10, MaxAttempts: 5, BaseBackoffMS: 500},
		Metrics: MetricsConfig{Addr: ""},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if v := os.Getenv("CHIRP_API_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("CHIRP_STORAGE_PATH"); v != "" {
		c.Session.StoragePath = v
	}
	if v := os.Getenv("CHIRP_REFRESH_INTERVAL"); v != "" {
		c.Session.RefreshInterval = v
	}
	if v := os.Getenv("CHIRP_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

// RefreshPeriod parses the configured refresh interval, falling back to
// the default on a bad value.
func (c Config) RefreshPeriod() time.Duration {
	d, err := time.ParseDuration(c.Session.RefreshInterval)
	if err != nil || d <= 0 {
		return 4 * time.Minute
	}
	return d
}

// Load reads YAML config from path. A .env file in the working directory
// is loaded first so env overrides work without exporting.
func Load(path string) (Config, error) {
	_ = godotenv.Load()
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ResolveEnv()
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
