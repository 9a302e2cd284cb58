// Package config reads obra's settings from OBRA_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// DBPath defaults to ~/.obra/obra.db when empty.
	DBPath      string `env:"OBRA_DB"`
	LogUseCases bool   `env:"OBRA_LOG_USE_CASES" envDefault:"false"`

	// MetricsAddr enables the Prometheus /metrics listener, e.g. ":9464".
	MetricsAddr string `env:"OBRA_METRICS_ADDR"`

	Redis RedisConfig

	// RiskThresholdWeeks flags items ending within this many weeks; at least 1.
	RiskThresholdWeeks int `env:"OBRA_RISK_THRESHOLD_WEEKS" envDefault:"2"`
}

// RedisConfig enables plan change notifications when Addr is set.
type RedisConfig struct {
	Addr     string `env:"OBRA_REDIS_ADDR"`
	Password string `env:"OBRA_REDIS_PASSWORD"`
	DB       int    `env:"OBRA_REDIS_DB" envDefault:"0"`
	Channel  string `env:"OBRA_NOTIFY_CHANNEL" envDefault:"obra:plans"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load parses the environment and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RiskThresholdWeeks < 1 {
		return Config{}, fmt.Errorf("OBRA_RISK_THRESHOLD_WEEKS must be at least 1, got %d", cfg.RiskThresholdWeeks)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".obra", "obra.db")
	}
	return cfg, nil
}
