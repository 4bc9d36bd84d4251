package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30, cfg.JWT.ExpiryDays)
	assert.Equal(t, []string{"chi_sim", "eng"}, cfg.OCR.Languages)
	assert.Equal(t, 10*time.Minute, cfg.Scraper.Interval)
	assert.Empty(t, cfg.Redis.Addr, "cache disabled by default")
}

// Multi-word keys need mapstructure tags to land in their fields; a silent
// zero here previously issued already-expired tokens.
func TestLoadMultiWordKeys(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.JWT.ExpiryDays)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.NotEmpty(t, cfg.Scraper.UserAgent)

	t.Setenv("FOOTBALL_JWT_EXPIRY_DAYS", "7")
	t.Setenv("FOOTBALL_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("FOOTBALL_SCRAPER_USER_AGENT", "test-agent/1.0")

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.JWT.ExpiryDays)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "test-agent/1.0", cfg.Scraper.UserAgent)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FOOTBALL_SERVER_PORT", "9100")
	t.Setenv("FOOTBALL_MYSQL_PASSWORD", "s3cret")
	t.Setenv("FOOTBALL_JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.MySQL.Password)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestMySQLDSN(t *testing.T) {
	c := MySQLConfig{Host: "db", Port: 3306, User: "u", Password: "p", Database: "football"}
	assert.Equal(t, "u:p@tcp(db:3306)/football?charset=utf8mb4&parseTime=True&loc=UTC", c.DSN())
}
