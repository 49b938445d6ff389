package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clicksign-esign/pkg/clicksign"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `
app:
  name: gateway
  port: 9000
  env: production
clicksign:
  host: https://sandbox.clicksign.com/
  access_token: file-token
  timeout: 15
  webhook_secret: s3cret
redis:
  host: localhost
  tracking_ttl_hours: 48
logging:
  level: debug
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "gateway", cfg.App.Name)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "https://sandbox.clicksign.com/", cfg.Clicksign.Host)
	assert.Equal(t, "file-token", cfg.Clicksign.AccessToken)
	assert.Equal(t, 15*time.Second, cfg.Clicksign.Timeout)
	assert.True(t, cfg.Clicksign.VerifiesWebhooks())
	assert.Equal(t, 48*time.Hour, cfg.Redis.TrackingTTL())
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, "clicksign:\n  access_token: abc\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, clicksign.DefaultHost, cfg.Clicksign.Host)
	assert.Equal(t, 30*time.Second, cfg.Clicksign.Timeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.False(t, cfg.Clicksign.VerifiesWebhooks())
	assert.Zero(t, cfg.Redis.TrackingTTL())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "clicksign:\n  access_token: from-file\n")
	t.Setenv("CLICKSIGN_ACCESS_TOKEN", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Clicksign.AccessToken)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
