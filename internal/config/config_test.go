package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("/tmp/mockdeck")

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/mockdeck", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join("/tmp/mockdeck", DatabaseFile), cfg.DatabasePath())
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		defaults := Default("/tmp/mockdeck")
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
		require.NoError(t, err)
		assert.Equal(t, defaults, cfg)
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("  ", Default("/tmp/mockdeck"))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/mockdeck", cfg.Storage.Path)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		content := `
[storage]
backend = "yaml"
path = "/srv/mocks"

[logging]
level = "debug"

[sidebar]
width = 50
strict = true

[keys]
search = "ctrl+f"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path, Default("/tmp/mockdeck"))
		require.NoError(t, err)
		assert.Equal(t, BackendYAML, cfg.Storage.Backend)
		assert.Equal(t, "/srv/mocks", cfg.Storage.Path)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 50, cfg.Sidebar.Width)
		assert.True(t, cfg.Sidebar.Strict)
		assert.Equal(t, "all", cfg.Sidebar.Filter)
		assert.Equal(t, "ctrl+f", cfg.Keys.Search)
		assert.Empty(t, cfg.Keys.Menu)
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte("[storage\n"), 0o644))

		_, err := Load(path, Default("/tmp/mockdeck"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode toml")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mongo" }, "storage.backend"},
		{"empty path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"narrow sidebar", func(c *Config) { c.Sidebar.Width = 5 }, "sidebar.width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/tmp/mockdeck")
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default("/tmp/mockdeck")
	cfg.Sidebar.Width = 60

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path, Default("/elsewhere"))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
