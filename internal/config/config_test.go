package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every mapped variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envMappings {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults with an empty environment", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load("")
		require.NoError(t, err)

		def := Default()
		assert.Equal(t, def.Remote, cfg.Remote)
		assert.Equal(t, def.Paths, cfg.Paths)
		assert.Equal(t, def.Format, cfg.Format)
		assert.True(t, cfg.Filter.SkipHandwritten)
		assert.Empty(t, cfg.Filter.ExcludedDocumentTypes)
		assert.Empty(t, cfg.Filter.ExcludedIDs)
		assert.Empty(t, cfg.BookID)
	})

	t.Run("Should read mapped environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BASE_URL", "https://cases.example.test")
		t.Setenv("USER", "nurse")
		t.Setenv("PASSWORD", "secret")
		t.Setenv("HTTP_TIMEOUT", "30s")
		t.Setenv("HTTP_RETRIES", "0")
		t.Setenv("OUTPUT_DIR", "out")
		t.Setenv("EXCLUDED_DOCUMENT_TYPES", "Invoice, Radiology ,")
		t.Setenv("EXCLUDED_IDS", "10,11")
		t.Setenv("SKIP_HANDWRITTEN", "false")
		t.Setenv("BOLD_HEADINGS", "false")
		t.Setenv("WORKERS", "4")
		t.Setenv("BOOK_ID", "11452")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, RemoteConfig{
			BaseURL:  "https://cases.example.test",
			User:     "nurse",
			Password: "secret",
			Timeout:  30 * time.Second,
			Retries:  0,
		}, cfg.Remote)
		assert.Equal(t, "out", cfg.Paths.OutputDir)
		assert.Equal(t, "processed", cfg.Paths.ProcessedDir)
		assert.Equal(t, []string{"Invoice", "Radiology"}, cfg.Filter.ExcludedDocumentTypes)
		assert.Equal(t, []string{"10", "11"}, cfg.Filter.ExcludedIDs)
		assert.False(t, cfg.Filter.SkipHandwritten)
		assert.False(t, cfg.Format.BoldHeadings)
		assert.Equal(t, 4, cfg.Format.Workers)
		assert.Equal(t, "11452", cfg.BookID)
		assert.NoError(t, cfg.ValidateRemote())
	})

	t.Run("Should load an env file without overriding the environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOOK_ID", "1")
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("BOOK_ID=2\nWORKERS=3\n"), 0644))

		cfg, err := Load(envFile)
		require.NoError(t, err)
		assert.Equal(t, "1", cfg.BookID)
		assert.Equal(t, 3, cfg.Format.Workers)
	})

	t.Run("Should ignore a missing env file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.NoError(t, err)
	})
}

func TestConfig_ValidateRemote(t *testing.T) {
	t.Run("Should reject missing credentials", func(t *testing.T) {
		cfg := Default()
		cfg.Remote.BaseURL = "https://cases.example.test"
		assert.Error(t, cfg.ValidateRemote())
	})

	t.Run("Should reject an invalid base URL", func(t *testing.T) {
		cfg := Default()
		cfg.Remote.BaseURL = "not a url"
		cfg.Remote.User, cfg.Remote.Password = "u", "p"
		assert.Error(t, cfg.ValidateRemote())
	})
}

func TestConfig_RequireBookID(t *testing.T) {
	cfg := Default()
	_, err := cfg.RequireBookID()
	assert.Error(t, err)

	cfg.BookID = " 42 "
	id, err := cfg.RequireBookID()
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}
