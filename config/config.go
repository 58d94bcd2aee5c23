package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP listen address
	Address string `env:"ADDRESS" envDefault:":8083"`
	// Gemini credential, read once at startup. Empty keeps the server up with the provider unavailable.
	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	GoogleBaseURL string `env:"GOOGLE_BASE_URL"`
	TextModel     string `env:"STYLIST_TEXT_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel    string `env:"STYLIST_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	// live sessions kept at once, new browsers get 503 beyond it
	SessionCapacity int `env:"SESSION_CAPACITY" envDefault:"10000"`
	// requests per second per client
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"3"`

	SentryDSN string `env:"SENTRY_DSN"`
	Env       string `env:"ENV" envDefault:"local"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c Config) IsLocal() bool {
	return c.Env == "local"
}

// Load loads .env (if present) and parses environment variables into Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SessionCapacity <= 0 {
		return Config{}, fmt.Errorf("SESSION_CAPACITY must be positive, got %d", cfg.SessionCapacity)
	}
	return cfg, nil
}
