package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "couponhub.db", cfg.DBDSN)
	assert.Equal(t, 12, cfg.StoresPageSize)
	assert.Equal(t, 10, cfg.CouponsPageSize)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
port: "9000"
stores_page_size: 24
log_level: debug
guide_feeds:
  - name: Saving Tips
    url: https://example.com/feed.xml
    category: Budgeting
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("COUPONHUB_DB_DSN", ":memory:")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBDSN)
	assert.Equal(t, 24, cfg.StoresPageSize)
	require.Len(t, cfg.GuideFeeds, 1)
	assert.Equal(t, "Budgeting", cfg.GuideFeeds[0].Category)
	assert.Equal(t, "DEBUG", cfg.Level().String())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"empty dsn", func(c *Config) { c.DBDSN = "" }},
		{"zero page size", func(c *Config) { c.CouponsPageSize = 0 }},
		{"unknown level", func(c *Config) { c.LogLevel = "chatty" }},
		{"admin without password", func(c *Config) { c.AdminEmail = "ops@example.com" }},
		{"feed without url", func(c *Config) { c.GuideFeeds = []Feed{{Name: "x"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
