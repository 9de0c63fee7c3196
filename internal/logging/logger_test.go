package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkify/internal/config"
)

func TestNew(t *testing.T) {
	app := config.AppConfig{Name: "parkify", Environment: "test", Version: "1.0.0"}

	t.Run("defaults to stdout json info", func(t *testing.T) {
		logger, closer, err := New(config.LoggingConfig{}, app)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.Nil(t, closer)
	})

	t.Run("console format", func(t *testing.T) {
		logger, _, err := New(config.LoggingConfig{Format: "console", Level: "debug"}, app)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		logger, closer, err := New(config.LoggingConfig{Output: "file", FilePath: path}, app)
		require.NoError(t, err)
		require.NotNil(t, closer)

		logger.Info().Msg("hello")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
		assert.Contains(t, string(data), `"app":"parkify"`)
	})

	t.Run("file output without path fails", func(t *testing.T) {
		_, _, err := New(config.LoggingConfig{Output: "file"}, app)
		assert.Error(t, err)
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		logger, _, err := New(config.LoggingConfig{Level: "shouty"}, app)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})
}
