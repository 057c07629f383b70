package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Database DatabaseConfig `env:",prefix=DATABASE_"`
	Google   GoogleConfig   `env:",prefix=GOOGLE_"`
	Session  SessionConfig  `env:",prefix=SESSION_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

// DatabaseConfig holds the PostgreSQL connection URL. The URL is optional:
// without it the service still starts, and every operation that needs the
// store reports "Database not configured" instead of failing the process.
type DatabaseConfig struct {
	URL string `env:"URL"`
}

type GoogleConfig struct {
	UserInfoURL string   `env:"USERINFO_URL,default=https://www.googleapis.com/oauth2/v2/userinfo"`
	Timeout     Duration `env:"TIMEOUT,default=10s"`
}

type SessionConfig struct {
	TTL Duration `env:"TTL,default=30d"`
}

// Configured reports whether a database URL was provided
func (d DatabaseConfig) Configured() bool {
	return d.URL != ""
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if config.Session.TTL.Duration <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
