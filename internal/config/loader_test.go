package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the override variables so ambient values never leak into
// a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV_FILE", "YOUTUBE_API_KEY", "YOUTUBE_BASE_URL", "GOOGLE_SHEET_ID",
		"GOOGLE_SHEETS_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS",
		"KIDSCOUT_BATCH_SIZE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
service:
  batch_size: 25
  batch_interval: 2s
youtube:
  api_key: file-key
  timeout: 10s
sheets:
  spreadsheet_id: sheet-from-file
logging:
  level: debug
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Service.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Service.BatchInterval)
	assert.Equal(t, "file-key", cfg.YouTube.APIKey)
	assert.Equal(t, 10*time.Second, cfg.YouTube.Timeout)
	assert.Equal(t, "sheet-from-file", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("GOOGLE_SHEET_ID", "env-sheet")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "kidscout", cfg.Service.Name)
	assert.Equal(t, 100, cfg.Service.BatchSize)
	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.YouTube.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.YouTube.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.YouTube.PageInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
service:
  batch_size: 25
youtube:
  api_key: file-key
sheets:
  spreadsheet_id: sheet-from-file
`)
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("KIDSCOUT_BATCH_SIZE", "7")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YouTube.APIKey, "env wins over the file")
	assert.Equal(t, 7, cfg.Service.BatchSize)
	assert.Equal(t, "sheet-from-file", cfg.Sheets.SpreadsheetID)
}

func TestLoad_MissingFileIsEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("GOOGLE_SHEET_ID", "env-sheet")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YouTube.APIKey)
	assert.Equal(t, "env-sheet", cfg.Sheets.SpreadsheetID)
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_SHEET_ID", "env-sheet")

		_, err := Load("")

		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("missing spreadsheet id", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("YOUTUBE_API_KEY", "env-key")

		_, err := Load("")

		assert.ErrorIs(t, err, ErrMissingSpreadsheetID)
	})
}
