package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port          int           `yaml:"port"`
	APIKey        string        `yaml:"api_key"`        // bearer token for the API
	SessionSecret string        `yaml:"session_secret"` // HMAC secret for session cookies
	SessionTTL    time.Duration `yaml:"session_ttl"`
	RateLimit     int           `yaml:"rate_limit"` // requests per window per client, 0 disables
	RateWindow    time.Duration `yaml:"rate_window"`
}

type AdminConfig struct {
	Port int `yaml:"port"` // /metrics + health probes
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	Path   string `yaml:"path"`   // sqlite file location
	URL    string `yaml:"url"`    // postgres DSN
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type RemindersConfig struct {
	Interval time.Duration `yaml:"interval"` // banner refresh period
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Reminders RemindersConfig `yaml:"reminders"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.HTTP.SessionTTL <= 0 {
		cfg.HTTP.SessionTTL = 30 * time.Minute
	}
	if cfg.HTTP.RateWindow <= 0 {
		cfg.HTTP.RateWindow = time.Minute
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "subtrack.db"
	}
	if cfg.Reminders.Interval <= 0 {
		cfg.Reminders.Interval = time.Hour
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	switch cfg.Database.Driver {
	case "sqlite":
	case "postgres":
		if cfg.Database.URL == "" {
			return nil, errors.New("database.url is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown database.driver %q", cfg.Database.Driver)
	}
	if cfg.Redis.Enabled && cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required when redis is enabled")
	}
	if cfg.HTTP.APIKey == "" && !dev {
		return nil, errors.New("http.api_key is required outside dev mode")
	}
	if cfg.HTTP.SessionSecret == "" {
		cfg.HTTP.SessionSecret = cfg.HTTP.APIKey
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
