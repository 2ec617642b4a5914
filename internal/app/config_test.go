package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.False(t, cfg.Server.Debug)

	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/userhub.sqlite", cfg.Database.Path)

	require.Equal(t, "userhub", cfg.Auth.JWT.Issuer)
	require.Equal(t, "HS256", cfg.Auth.JWT.Algorithm)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 5, cfg.Auth.Local.MaxLoginAttempts)

	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, 587, cfg.Email.SMTP.Port)
	require.Equal(t, "@every 1m", cfg.Email.Outbox.DispatchSchedule)
	require.Equal(t, 5, cfg.Email.Outbox.MaxAttempts)

	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.True(t, cfg.Monitoring.Health.Enabled)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("USERHUB_SERVER_PORT", "9100")
	t.Setenv("USERHUB_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("USERHUB_AUTH_LOCAL_MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("USERHUB_AUTH_JWT_ACCESS_TOKEN_TTL", "45m")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 3, cfg.Auth.Local.MaxLoginAttempts)
	require.Equal(t, 45*time.Minute, cfg.Auth.JWT.TTL)
}

func TestConfigValidate(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	// Missing secret is the only default that fails validation.
	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth.jwt.secret")

	cfg.Auth.JWT.Secret = "a-secret"
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = -1
	cfg.Database.Driver = "oracle"
	cfg.Auth.JWT.Algorithm = "RS256"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "server.port")
	require.Contains(t, err.Error(), "database.driver")
	require.Contains(t, err.Error(), "auth.jwt.secret")
	require.Contains(t, err.Error(), "HS256")
	require.Contains(t, err.Error(), "max_login_attempts")
	require.Contains(t, err.Error(), "max_attempts")
}

func TestSMTPRequiresHostWhenEnabled(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Auth.JWT.Secret = "a-secret"
	cfg.Email.SMTP.Enabled = true

	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "smtp.host")
}
