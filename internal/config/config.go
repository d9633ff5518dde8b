package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisDB     int    `mapstructure:"REDIS_DB"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	BotTurnDelay     time.Duration `mapstructure:"BOT_TURN_DELAY"`
	HumanTurnTimeout time.Duration `mapstructure:"HUMAN_TURN_TIMEOUT"`
	SnapshotInterval time.Duration `mapstructure:"SNAPSHOT_INTERVAL"`
	AutoStartHumans  int           `mapstructure:"AUTO_START_HUMANS"`

	// TokenExpireTime is a duration string or "never".
	TokenExpireTime string `mapstructure:"TOKEN_EXPIRE_TIME"`
}

var defaults = map[string]interface{}{
	"PORT":               "8080",
	"LOG_LEVEL":          "info",
	"REDIS_ADDR":         "",
	"REDIS_DB":           0,
	"DATABASE_URL":       "",
	"BOT_TURN_DELAY":     "2s",
	"HUMAN_TURN_TIMEOUT": "30s",
	"SNAPSHOT_INTERVAL":  "10s",
	"AUTO_START_HUMANS":  2,
	"TOKEN_EXPIRE_TIME":  "72h",
}

// Load reads settings from the environment, falling back to defaults. An empty
// REDIS_ADDR or DATABASE_URL disables that backend.
func Load() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.BotTurnDelay <= 0 || c.HumanTurnTimeout <= 0 {
		return fmt.Errorf("turn timers must be positive (bot %s, human %s)", c.BotTurnDelay, c.HumanTurnTimeout)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be positive, got %s", c.SnapshotInterval)
	}
	if c.AutoStartHumans < 0 || c.AutoStartHumans > 4 {
		return fmt.Errorf("AUTO_START_HUMANS must be between 0 and 4, got %d", c.AutoStartHumans)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the parsed LOG_LEVEL.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
