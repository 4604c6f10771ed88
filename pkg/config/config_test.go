package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "guideforseniors", cfg.Database.Database)
	assert.Equal(t, 60*time.Second, cfg.Scraper.SourceTimeout)
	assert.Equal(t, 30, cfg.Scraper.RetentionDays)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("SCRAPER_SOURCE_TIMEOUT", "30s")
	t.Setenv("EVENT_RETENTION_DAYS", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.Scraper.SourceTimeout)
	assert.Equal(t, 14, cfg.Scraper.RetentionDays)
}

func TestLoad_ProductionFailsClosed(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("FIRECRAWL_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	t.Setenv("DB_PASSWORD", "secret")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIRECRAWL_API_KEY")

	t.Setenv("FIRECRAWL_API_KEY", "fc-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		Database: "guideforseniors",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=guideforseniors sslmode=disable",
		cfg.DatabaseDSN(),
	)
}
