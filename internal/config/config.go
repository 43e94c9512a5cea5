package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// MinJWTSecretLength is the minimum key length accepted for HMAC-SHA256.
	MinJWTSecretLength = 32

	MinBcryptCost = 4
	MaxBcryptCost = 14
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Port         int           `env:"PORT" envDefault:"5000"`
	DatabasePath string        `env:"DATABASE_PATH" envDefault:"library.db"`
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"12"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"info"`

	// Comma-separated; "*" allows any origin.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Per-IP limit on register and login, in requests per second.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"0.5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	// Take the client IP from X-Forwarded-For / X-Real-IP. Enable only
	// behind a reverse proxy that sets them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@library.com"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin123"`
}

// ServerAddr returns the listen address for the HTTP server.
func (c Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file, then parses the process environment.
// Variables already set in the environment take precedence over .env. A
// missing .env is fine; an unreadable or malformed one is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256, got %d",
			MinJWTSecretLength, len(c.JWTSecret))
	}
	if c.BcryptCost < MinBcryptCost || c.BcryptCost > MaxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d",
			MinBcryptCost, MaxBcryptCost, c.BcryptCost)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.AuthRateLimit < 0 || c.AuthRateBurst < 1 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be >= 0 and AUTH_RATE_BURST >= 1")
	}
	return nil
}
