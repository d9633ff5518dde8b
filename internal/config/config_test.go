package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for key := range defaults {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.BotTurnDelay)
	assert.Equal(t, 30*time.Second, cfg.HumanTurnTimeout)
	assert.Equal(t, 10*time.Second, cfg.SnapshotInterval)
	assert.Equal(t, 2, cfg.AutoStartHumans)
	assert.Equal(t, "72h", cfg.TokenExpireTime)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("BOT_TURN_DELAY", "500ms")
	t.Setenv("HUMAN_TURN_TIMEOUT", "1m")
	t.Setenv("AUTO_START_HUMANS", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 500*time.Millisecond, cfg.BotTurnDelay)
	assert.Equal(t, time.Minute, cfg.HumanTurnTimeout)
	assert.Equal(t, 4, cfg.AutoStartHumans)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"BOT_TURN_DELAY":    "0s",
		"SNAPSHOT_INTERVAL": "-1s",
		"AUTO_START_HUMANS": "5",
		"LOG_LEVEL":         "loud",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
