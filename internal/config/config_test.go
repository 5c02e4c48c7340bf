package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.ExtractModel)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.FitModel)
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 12, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, "Mozilla/5.0 (compatible; EvoluteBot/1.0)", cfg.Fetch.UserAgent)
	assert.Equal(t, 15000, cfg.Fetch.MaxContentChars)
	assert.Equal(t, 200, cfg.Fetch.MinPageChars)
	assert.Equal(t, 5, cfg.Fetch.SubpageBatchSize)
	assert.Equal(t, 10, cfg.Fetch.MaxDiscoveredPages)
	assert.Equal(t, 4000, cfg.Screen.SubpageCharsPerPage)
	assert.Equal(t, 24000, cfg.Screen.SubpageTotalChars)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
fetch:
  timeout_secs: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Fetch.TimeoutSecs)
	// Defaults still apply for unset values
	assert.Equal(t, 15000, cfg.Fetch.MaxContentChars)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("INVSCREEN_LOG_LEVEL", "warn")
	t.Setenv("INVSCREEN_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file and defaults
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestValidateServe(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Fetch.TimeoutSecs = 12
	cfg.Fetch.SubpageBatchSize = 5

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_Missing(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
	assert.Contains(t, err.Error(), "anthropic.key is required")
}

func TestValidateScreen_IgnoresPort(t *testing.T) {
	cfg := &Config{}
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Fetch.TimeoutSecs = 12
	cfg.Fetch.SubpageBatchSize = 5

	assert.NoError(t, cfg.Validate("screen"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
