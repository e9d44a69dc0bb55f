package areamesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseConfig(t *testing.T) {
	t.Run("Overrides defaults", func(t *testing.T) {
		config, err := ParseConfig(strings.NewReader("check_vertex_reuse: true\nlog_level: debug\n"))
		require.NoError(t, err)
		assert.True(t, config.CheckVertexReuse)
		assert.False(t, config.SpatialIndex)
		assert.Equal(t, DefaultConfig().MergeRadius, config.MergeRadius)

		level, err := config.Level()
		require.NoError(t, err)
		assert.Equal(t, zapcore.DebugLevel, level)
	})

	t.Run("Empty input", func(t *testing.T) {
		config, err := ParseConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("Rejects bad input", func(t *testing.T) {
		for _, input := range []string{
			"merge_radius: -1\n",
			"log_level: chatty\n",
			"spatial_indexing: true\n",
			"check_vertex_reuse: [\n",
		} {
			_, err := ParseConfig(strings.NewReader(input))
			assert.Error(t, err, input)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "areamesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spatial_index: true\nmerge_radius: 2.5\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, config.SpatialIndex)
	assert.Equal(t, 2.5, config.MergeRadius)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	config := DefaultConfig()
	config.LogLevel = "warn"
	logger, err := config.NewLogger(true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	config.LogLevel = "nope"
	_, err = config.NewLogger(false)
	assert.Error(t, err)
}
