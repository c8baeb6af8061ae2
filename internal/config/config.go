// Package config loads the service configuration and the courts seed file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Port           int     `yaml:"port"`
		APIKey         string  `yaml:"api_key"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
	} `yaml:"http"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup BackupConfig `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Log LogConfig `yaml:"log"`

	Seed struct {
		Path                 string `yaml:"path"`
		WatchIntervalSeconds int    `yaml:"watch_interval_seconds"`
	} `yaml:"seed"`

	Timezone string `yaml:"timezone"`
}

// BackupConfig controls the periodic database backup.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	IntervalHours int    `yaml:"interval_hours"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// Interval returns the backup period, 24h by default.
func (b BackupConfig) Interval() time.Duration {
	if b.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(b.IntervalHours) * time.Hour
}

// LogConfig controls logger output.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads the YAML config at path. A .env file next to the working directory is loaded first
// so its variables can be referenced as ${VAR} placeholders.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/arena.db"
	}
	if cfg.Backup.Path == "" {
		cfg.Backup.Path = filepath.Join(filepath.Dir(cfg.Database.Path), "backups")
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) HTTPPort() int {
	if c.HTTP.Port <= 0 {
		return 8080
	}
	return c.HTTP.Port
}

func (c *Config) HealthCheckPort() int {
	if c.Monitoring.HealthCheckPort <= 0 {
		return 8090
	}
	return c.Monitoring.HealthCheckPort
}

func (c *Config) PrometheusPort() int {
	if c.Monitoring.PrometheusPort <= 0 {
		return 9090
	}
	return c.Monitoring.PrometheusPort
}

// CacheTTL returns the snapshot cache TTL; zero disables the cache.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c *Config) SeedWatchInterval() time.Duration {
	if c.Seed.WatchIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Seed.WatchIntervalSeconds) * time.Second
}

// Location resolves the configured timezone, UTC when unset or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
