// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

// Config is shared by the bot and the operator CLI.
type Config struct {
	OwnerID      int64         `env:"OWNER_ID"`
	BotToken     string        `env:"TELEGRAM_BOT_TOKEN"`
	DatabaseURL  string        `env:"DATABASE_URL" envDefault:"sqlite://./data/clubs.db"`
	RedisURL     string        `env:"REDIS_URL"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	MetricsAddr  string        `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	OTelEndpoint string        `env:"OTEL_EXPORTER_ENDPOINT"`
	PollTimeout  time.Duration `env:"POLL_TIMEOUT" envDefault:"60s"`
}

// Owner returns the configured owner identity.
func (c Config) Owner() models.ActorID {
	return models.ActorID(c.OwnerID)
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config and checks the values every binary needs.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.OwnerID <= 0 {
		return cfg, errors.New("OWNER_ID must be a positive actor id")
	}
	if cfg.SessionTTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be positive")
	}
	return cfg, nil
}

// RequireBot checks the values only the bot process needs.
func (c Config) RequireBot() error {
	if c.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.PollTimeout < time.Second {
		return errors.New("POLL_TIMEOUT must be at least 1s")
	}
	return nil
}
