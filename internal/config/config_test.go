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
	assert.Equal(t, "https://api.exa.ai", cfg.Exa.BaseURL)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.HaikuModel)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.SonnetModel)
	assert.Equal(t, "local", cfg.Convert.Provider)
	assert.Equal(t, 20, cfg.Search.MaxCandidates)
	assert.Equal(t, 10, cfg.Search.MaxPages)
	assert.Equal(t, 1024, cfg.Search.MinDocumentBytes)
	assert.Equal(t, 5, cfg.Search.ExtractConcurrency)
	assert.Equal(t, 30, cfg.Search.DownloadTimeoutSecs)
	assert.InDelta(t, 0.005, cfg.Pricing.Exa.PerSearch, 0.0001)

	// Model pricing falls back to the built-in rates.
	haiku := cfg.Pricing.Anthropic["claude-haiku-4-5-20251001"]
	assert.InDelta(t, 0.80, haiku.Input, 1e-9)
	assert.InDelta(t, 4.00, haiku.Output, 1e-9)
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
convert:
  provider: mistral
  mistral_api_key: mk-test
search:
  max_pages: 6
  extract_concurrency: 3
pricing:
  anthropic:
    claude-haiku-4-5-20251001:
      input: 1.0
      output: 5.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mistral", cfg.Convert.Provider)
	assert.Equal(t, "mk-test", cfg.Convert.MistralKey)
	assert.Equal(t, 6, cfg.Search.MaxPages)
	assert.Equal(t, 3, cfg.Search.ExtractConcurrency)
	assert.InDelta(t, 1.0, cfg.Pricing.Anthropic["claude-haiku-4-5-20251001"].Input, 1e-9)

	// Defaults survive partial files.
	assert.Equal(t, 20, cfg.Search.MaxCandidates)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	assert.Error(t, err)
}
