package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: parkify-test
database:
  path: /tmp/test.db
storage:
  hash_key: 0123456789abcdef0123456789abcdef
api:
  port: 9000
pagination:
  spots:
    limit: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "parkify-test", cfg.App.Name)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, 10, cfg.Pagination.Spots.Limit)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/test.db
storage:
  hash_key: 0123456789abcdef0123456789abcdef
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "parkify", cfg.App.Name)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "x-user-id", cfg.API.PrincipalHeader)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, 3600, cfg.Storage.SignedURLTTL)
	assert.Equal(t, 5, cfg.Pagination.Spots.Limit)
	assert.Equal(t, 50, cfg.Pagination.Spots.MaxLimit)
	assert.Equal(t, "rate_per_hour", cfg.Pagination.Spots.Ordering)
	assert.Equal(t, 5, cfg.Pagination.Bookings.Limit)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/expanded.db")

	path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
storage:
  hash_key: 0123456789abcdef0123456789abcdef
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Database.Path)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database path", func(t *testing.T) {
		path := writeConfig(t, `
storage:
  hash_key: 0123456789abcdef0123456789abcdef
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "database path")
	})

	t.Run("missing hash key", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: /tmp/test.db
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "hash key")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "::: not yaml")
		_, err := Load(path)
		assert.Error(t, err)
	})
}
