package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("APP_TIMEZONE", "")

	cfg, _, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, ":memory:", cfg.DB.Path)
	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "adminuser", cfg.Auth.Username)
}

func TestLoad_AuthDefaultedFlag(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, _, err := Load("does-not-exist.env")
	require.NoError(t, err)
	assert.False(t, cfg.Auth.Defaulted())
	assert.Equal(t, "s3cret", cfg.Auth.Password)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, _, err := Load("does-not-exist.env")
	require.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, _, err := Load("does-not-exist.env")
	require.Error(t, err)
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvList("CORS_ORIGINS", nil))
}
