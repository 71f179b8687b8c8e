package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	AppAddr  string `envconfig:"APP_ADDR" default:":8000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	SeedOnStart bool   `envconfig:"SEED_ON_START" default:"false"`

	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	ResetTokenTTL   time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`

	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	LoginMaxAttempts int           `envconfig:"LOGIN_MAX_ATTEMPTS" default:"10"`
	LoginWindow      time.Duration `envconfig:"LOGIN_WINDOW" default:"15m"`

	SMTPHost  string `envconfig:"SMTP_HOST" default:"127.0.0.1"`
	SMTPPort  int    `envconfig:"SMTP_PORT" default:"587"`
	EmailUser string `envconfig:"EMAIL_USER"`
	EmailPass string `envconfig:"EMAIL_PASS"`

	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

// Load reads configuration from a .env file (when present) and the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; containers set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
