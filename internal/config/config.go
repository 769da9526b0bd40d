package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Hermes  HermesConfig  `yaml:"hermes"`
	Share   ShareConfig   `yaml:"share"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	MetricsPort       int    `yaml:"metrics_port"`
	AdminToken        string `yaml:"admin_token"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

// StorageConfig selects the blob store backing persisted assessments.
// Backend is one of memory, sqlite, mysql or postgres.
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	DSN       string `yaml:"dsn"`
	KeyPrefix string `yaml:"key_prefix"`
}

// HermesConfig points at the NATS server. An empty URL disables events.
type HermesConfig struct {
	URL string `yaml:"url"`
}

type ShareConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SessionConfig carries an optional share token or link applied at startup
// when nothing has been persisted yet.
type SessionConfig struct {
	ImportToken string `yaml:"import_token"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SlogLevel maps Level onto a slog level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RequestsPerMinute: 120,
		},
		Storage: StorageConfig{
			Backend:   "sqlite",
			DSN:       "resilience.db",
			KeyPrefix: "resilience",
		},
		Share: ShareConfig{
			BaseURL: "http://localhost:8700/",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RESILIENCE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("RESILIENCE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("RESILIENCE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("RESILIENCE_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("RESILIENCE_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("RESILIENCE_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("RESILIENCE_STORAGE_KEY_PREFIX"); v != "" {
		cfg.Storage.KeyPrefix = v
	}
	if v := os.Getenv("RESILIENCE_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("RESILIENCE_SHARE_BASE_URL"); v != "" {
		cfg.Share.BaseURL = v
	}
	if v := os.Getenv("RESILIENCE_IMPORT_TOKEN"); v != "" {
		cfg.Session.ImportToken = v
	}
	if v := os.Getenv("RESILIENCE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RESILIENCE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
