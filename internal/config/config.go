package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from QP_* environment variables, optionally seeded from a .env file.
type Config struct {
	TickInterval  time.Duration `env:"QP_TICK_INTERVAL" envDefault:"60s"`
	StartingCoins int           `env:"QP_STARTING_COINS" envDefault:"50"`
	EventBuffer   int           `env:"QP_EVENT_BUFFER" envDefault:"64"`
	LogLevel      string        `env:"QP_LOG_LEVEL" envDefault:"info"`
	LogDev        bool          `env:"QP_LOG_DEV" envDefault:"false"`
	HTTPAddr      string        `env:"QP_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	DailyRollover bool          `env:"QP_DAILY_ROLLOVER" envDefault:"true"`
}

// Load reads dotenvPath when it exists, then parses the environment.
// Variables already set in the environment win over the file.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("QP_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("QP_EVENT_BUFFER must be positive, got %d", c.EventBuffer)
	}
	return nil
}
