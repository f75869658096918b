package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "TIMEZONE", "BATCH_TIME", "NOTIFICATION_RETENTION_DAYS", "TELEGRAM_TOKEN"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "taskplanner.db", cfg.DatabaseURL)
	assert.Equal(t, "03:00", cfg.BatchTime)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Empty(t, cfg.Timezone)
	assert.Empty(t, cfg.TelegramToken)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "data/planner.db")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("BATCH_TIME", "06:30")
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "14")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/planner.db", cfg.DatabaseURL)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "06:30", cfg.BatchTime)
	assert.Equal(t, 14, cfg.RetentionDays)
}

func TestLoadRejectsMalformedBatchTime(t *testing.T) {
	clearEnv(t)
	t.Setenv("BATCH_TIME", "6am")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadIgnoresBadRetention(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "-3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RetentionDays)
}
