package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Sweep.Interval)
	assert.Equal(t, 5*time.Second, cfg.Sweep.Buffer)
	assert.Equal(t, 5*time.Minute, cfg.Giveaway.MinDuration)
	assert.Equal(t, 30*24*time.Hour, cfg.Giveaway.MaxDuration)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Log.Level)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Giveaway.MinDuration = time.Minute
		cfg.Giveaway.MaxDuration = time.Hour
		cfg.Sweep.Interval = time.Second
		cfg.Sweep.MaxConcurrent = 1
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "inverted window", mutate: func(c *Config) { c.Giveaway.MaxDuration = time.Second }},
		{name: "zero interval", mutate: func(c *Config) { c.Sweep.Interval = 0 }},
		{name: "negative buffer", mutate: func(c *Config) { c.Sweep.Buffer = -time.Second }},
		{name: "no concurrency", mutate: func(c *Config) { c.Sweep.MaxConcurrent = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestEffectiveMinDuration(t *testing.T) {
	cfg := &Config{}
	cfg.Giveaway.MinDuration = 5 * time.Minute
	cfg.Giveaway.DebugMinDuration = 10 * time.Second

	assert.Equal(t, 5*time.Minute, cfg.EffectiveMinDuration())

	cfg.Debug = true
	assert.Equal(t, 10*time.Second, cfg.EffectiveMinDuration())
}
