package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/console.db"`
	RedisURL string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// UpstreamURL is the base URL of the Itinera REST API. Every screen in
	// the console is backed by calls against it; there is no local fallback.
	UpstreamURL     string        `env:"UPSTREAM_URL" envDefault:"http://localhost:4000"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	// GeocodeURL points at a Nominatim-compatible endpoint used for
	// best-effort destination enrichment.
	GeocodeURL string `env:"GEOCODE_URL" envDefault:"https://nominatim.openstreetmap.org"`

	// SessionSecret seals cached bearer tokens at rest. Required outside dev.
	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev-only-secret"`

	TagCacheTTL time.Duration `env:"TAG_CACHE_TTL" envDefault:"5m"`
}

func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	if os.Getenv("ITINERA_ENV") != "production" {
		godotenv.Load()
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
