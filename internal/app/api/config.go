package api

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	PostgresDSN       string        `env:"POSTGRES_DSN"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	TemporalAddress   string        `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string        `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool          `env:"TEMPORAL_DISABLED"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads a .env file when present, then the environment, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if cfg.TemporalNamespace == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	if cfg.StoreTimeout <= 0 {
		return Config{}, fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	return cfg, nil
}
