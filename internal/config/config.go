// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all gateway configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Shared upstream budget. Timeout applies per HTTP call, retries on
	// top of it, so a dead upstream resolves within a bounded window.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
	MaxRetries      int           `env:"UPSTREAM_MAX_RETRIES" envDefault:"2"`
	CacheMaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"4096"`

	Weather  WeatherConfig
	Football FootballConfig
	SportsDB SportsDBConfig
	Rates    RatesConfig
}

// WeatherConfig holds the forecast provider settings.
type WeatherConfig struct {
	BaseURL string `env:"WEATHER_BASE_URL"`
}

// FootballConfig holds the primary fixtures/standings provider settings.
type FootballConfig struct {
	APIKey  string `env:"APIFOOTBALL_KEY"`
	BaseURL string `env:"APIFOOTBALL_BASE_URL"`
}

// SportsDBConfig holds the secondary football provider settings.
type SportsDBConfig struct {
	APIKey  string `env:"SPORTSDB_KEY" envDefault:"3"`
	BaseURL string `env:"SPORTSDB_BASE_URL"`
}

// RatesConfig holds the currency provider settings.
type RatesConfig struct {
	BaseURL      string `env:"EXCHANGERATE_BASE_URL"`
	BaseCurrency string `env:"BASE_CURRENCY" envDefault:"COP"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxRetries < 0 {
		return cfg, fmt.Errorf("UPSTREAM_MAX_RETRIES must be >= 0, got %d", cfg.MaxRetries)
	}
	if cfg.UpstreamTimeout <= 0 {
		return cfg, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", cfg.UpstreamTimeout)
	}
	return cfg, nil
}

// HasFootball returns true if the primary football provider is configured.
func (c *Config) HasFootball() bool {
	return c.Football.APIKey != ""
}
