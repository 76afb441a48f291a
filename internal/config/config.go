package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string        `env:"DATABASE_URL" envDefault:"data/trailgen.db"`
	RedisURL    string        `env:"REDIS_URL"`
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"336h"`
	LogLevel    slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`

	// Content generation provider. "static" needs no credentials and is
	// the default so the server works out of the box.
	AIProvider string `env:"AI_PROVIDER" envDefault:"static"`
	AIBaseURL  string `env:"AI_BASE_URL"`
	AIAPIKey   string `env:"AI_API_KEY"`
	AIModel    string `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
