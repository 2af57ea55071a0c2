package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:""`
		Format string `env:"LOG_FORMAT" envDefault:"console"`
	}

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Discord struct {
		BotToken string `env:"DISCORD_BOT_TOKEN,required,notEmpty"`
	}

	Giveaway struct {
		MinDuration time.Duration `env:"GIVEAWAY_MIN_DURATION" envDefault:"5m"`
		MaxDuration time.Duration `env:"GIVEAWAY_MAX_DURATION" envDefault:"720h"`
		// Minimum duration used when Debug is on, so drawings can be tried out quickly.
		DebugMinDuration time.Duration `env:"GIVEAWAY_DEBUG_MIN_DURATION" envDefault:"10s"`
	}

	Sweep struct {
		Interval            time.Duration `env:"SWEEP_INTERVAL" envDefault:"15s"`
		Buffer              time.Duration `env:"SWEEP_BUFFER" envDefault:"5s"`
		NotificationTimeout time.Duration `env:"SWEEP_NOTIFICATION_TIMEOUT" envDefault:"10s"`
		MaxConcurrent       int           `env:"SWEEP_MAX_CONCURRENT" envDefault:"10"`
	}
}

func Load() (*Config, error) {
	// A missing .env is fine: in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the sweep or the duration policy cannot work with.
func (c *Config) Validate() error {
	if c.Giveaway.MinDuration <= 0 || c.Giveaway.MaxDuration < c.Giveaway.MinDuration {
		return fmt.Errorf("invalid giveaway duration window [%s, %s]", c.Giveaway.MinDuration, c.Giveaway.MaxDuration)
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.Sweep.Interval)
	}
	if c.Sweep.Buffer < 0 {
		return fmt.Errorf("SWEEP_BUFFER must not be negative, got %s", c.Sweep.Buffer)
	}
	if c.Sweep.MaxConcurrent <= 0 {
		return fmt.Errorf("SWEEP_MAX_CONCURRENT must be positive, got %d", c.Sweep.MaxConcurrent)
	}
	return nil
}

// EffectiveMinDuration is the lower bound applied to new giveaways.
func (c *Config) EffectiveMinDuration() time.Duration {
	if c.Debug && c.Giveaway.DebugMinDuration > 0 {
		return c.Giveaway.DebugMinDuration
	}
	return c.Giveaway.MinDuration
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
