package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Catalog.BaseURL)
	assert.Empty(t, cfg.Catalog.APIKey)
	assert.True(t, cfg.History.FoldCase)
	assert.NotEmpty(t, cfg.Storage.Dir)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestSaveConfig_WritesFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("config path override uses HOME")
	}
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Catalog.APIKey = "test-api-key"
	cfg.History.FoldCase = false
	require.NoError(t, SaveConfig(cfg))

	data, err := os.ReadFile(filepath.Join(defaultConfigPath(), "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test-api-key")
	assert.Contains(t, string(data), "base_url")

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-api-key", loaded.Catalog.APIKey)
	assert.False(t, loaded.History.FoldCase)
}
