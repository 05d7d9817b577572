package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 30*time.Minute, cfg.VerifyTTL)
	assert.Equal(t, 30*time.Minute, cfg.ResetTTL)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_ProdRequiresNotificationCreds(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("RESEND_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "fifteen minutes")

	_, err := Load()
	require.Error(t, err)
}

func TestBaseURL(t *testing.T) {
	cfg := &Config{AppBaseURL: "https://aiplus.example"}
	assert.Equal(t, "https://aiplus.example", cfg.BaseURL("https", "other.example"))

	cfg = &Config{}
	assert.Equal(t, "https://front.example", cfg.BaseURL("https", "front.example"))
	assert.Equal(t, "http://front.example", cfg.BaseURL("", "front.example"))
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL("", ""))
}
