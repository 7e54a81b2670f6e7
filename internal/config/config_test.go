package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/signs")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REMINDER_IDLE_AFTER", "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, "assets/data/signs.json", cfg.CatalogPath)
	assert.Equal(t, int32(20), cfg.DB.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, "0 * * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 48*time.Hour, cfg.Reminder.IdleAfter)
	assert.InDelta(t, 25.0, cfg.Reminder.PerSecond, 0)

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/signs", dsn)
}

func TestLoadMissingSecrets(t *testing.T) {
	tests := []struct {
		name  string
		token string
		dbURL string
	}{
		{name: "no token", dbURL: "postgres://localhost/signs"},
		{name: "no database url", token: "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_API_TOKEN", tt.token)
			t.Setenv("DATABASE_URL", tt.dbURL)

			_, err := Load()
			assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
		})
	}
}

func TestLoadRejectsNonPositiveIdle(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/signs")
	t.Setenv("REMINDER_IDLE_AFTER", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSNEmpty(t *testing.T) {
	_, err := DB{}.DSN()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}
