package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_SessionConfig(t *testing.T) {
	os.Setenv("SESSION_COOKIE_NAME", "sid")
	os.Setenv("SESSION_MAX_DURATION", "48h")
	defer func() {
		os.Unsetenv("SESSION_COOKIE_NAME")
		os.Unsetenv("SESSION_MAX_DURATION")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, 48*time.Hour, cfg.Session.MaxDuration)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SESSION_COOKIE_NAME")
	os.Unsetenv("SESSION_MAX_DURATION")
	os.Unsetenv("SESSION_REFRESH_INTERVAL")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.MaxDuration)
	assert.Equal(t, 15*24*time.Hour, cfg.Session.RefreshInterval)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "polaris_booking", cfg.Database.Database)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "app", Password: "pw", Database: "booking", SSLMode: "disable",
	}

	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=booking sslmode=disable", cfg.DatabaseDSN())
}
