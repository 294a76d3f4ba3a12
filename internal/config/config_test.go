package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/leads")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 13, cfg.RetentionDays)
	assert.Equal(t, 13*24*time.Hour, cfg.RetentionWindow())
	assert.Equal(t, 24*time.Hour, cfg.SweepInterval)
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.KommoEnabled())
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, 15*time.Minute, cfg.NotifyDelay)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:leads.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("SWEEP_INTERVAL", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.com, https://b.com")
	t.Setenv("MAIL_HOST", "smtp.local")
	t.Setenv("NOTIFY_EMAIL", "vendas@x.com")
	t.Setenv("KOMMO_BASE_URL", "https://ligue.kommo.com/api/v4")
	t.Setenv("KOMMO_API_TOKEN", "tok")
	t.Setenv("KOMMO_STATUS_ID", "96648371")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("NOTIFY_DELAY", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.RetentionWindow())
	assert.True(t, cfg.KommoEnabled())
	assert.Equal(t, 96648371, cfg.KommoStatusID)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, 5*time.Minute, cfg.NotifyDelay)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.AllowedOrigins())
	assert.True(t, cfg.MailEnabled())
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "x", RetentionDays: 13, SweepInterval: time.Hour, RateLimitPerMin: 60, NotifyDelay: time.Minute}
	assert.NoError(t, cfg.Validate())

	cfg.RateLimitPerMin = 0
	assert.Error(t, cfg.Validate())
	cfg.RateLimitPerMin = -1
	assert.Error(t, cfg.Validate())
	cfg.RateLimitPerMin = 60

	cfg.NotifyDelay = 0
	assert.Error(t, cfg.Validate())
	cfg.NotifyDelay = time.Minute

	cfg.RetentionDays = 0
	assert.Error(t, cfg.Validate())

	cfg.RetentionDays = 13
	cfg.SweepInterval = 0
	assert.Error(t, cfg.Validate())

	cfg.SweepInterval = time.Hour
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())
}
