package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	PGHost     string `env:"PG_HOST" env-default:"localhost"`
	PGPort     string `env:"PG_PORT" env-default:"5432"`
	PGUser     string `env:"PG_USER" env-default:"backstage"`
	PGPassword string `env:"PG_PASSWORD" env-default:""`
	PGDatabase string `env:"PG_DB" env-default:"backstage"`

	RedisHost     string `env:"REDIS_HOST" env-default:""`
	RedisPort     string `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`

	TelegramToken string `env:"TG_BOT_TOKEN" env-default:""`

	VerificationSecret  string        `env:"VERIFICATION_SECRET" env-default:""`
	VerificationBaseURL string        `env:"VERIFICATION_BASE_URL" env-default:"http://localhost:8080"`
	VerificationTTL     time.Duration `env:"VERIFICATION_TTL" env-default:"24h"`

	StateTTL time.Duration `env:"STATE_TTL" env-default:"12h"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return &cfg, nil
}

// PostgresDSN renders the connection string shared by the GORM and sqlx
// connections.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// RedisAddr returns the Redis address, empty when Redis is not
// configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
