package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Run("Falls back to defaults", func(t *testing.T) {
		assert.Equal(t, "fallback", getEnvWithDefault("VINOM_MAZE_UNSET_KEY", "fallback"))
		assert.Equal(t, 17, getEnvAsIntWithDefault("VINOM_MAZE_UNSET_KEY", 17))
	})

	t.Run("Reads set values", func(t *testing.T) {
		t.Setenv("VINOM_MAZE_TEST_STR", "value")
		t.Setenv("VINOM_MAZE_TEST_INT", "42")

		assert.Equal(t, "value", getEnvWithDefault("VINOM_MAZE_TEST_STR", "fallback"))
		assert.Equal(t, 42, getEnvAsIntWithDefault("VINOM_MAZE_TEST_INT", 0))
		assert.Equal(t, "value", mustGetEnv("VINOM_MAZE_TEST_STR"))
	})
}

func TestPresets(t *testing.T) {
	t.Run("Built-in presets", func(t *testing.T) {
		p := DefaultPresets()
		assert.Equal(t, []string{"classic", "cube", "large", "line", "small"}, p.Names())

		shape, err := p.Shape("classic")
		require.NoError(t, err)
		assert.Equal(t, []int{10, 10}, shape)

		_, err = p.Shape("labyrinth")
		assert.ErrorIs(t, err, ErrUnknownPreset)
	})

	t.Run("Returned shapes are copies", func(t *testing.T) {
		p := DefaultPresets()
		shape, err := p.Shape("cube")
		require.NoError(t, err)
		shape[0] = 99

		again, err := p.Shape("cube")
		require.NoError(t, err)
		assert.Equal(t, []int{4, 4, 4}, again)
	})

	t.Run("File presets extend and override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")
		doc := "presets:\n  - name: classic\n    shape: [12, 12]\n  - name: tesseract\n    shape: [3, 3, 3, 3]\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		p, err := LoadPresets(path)
		require.NoError(t, err)

		shape, err := p.Shape("classic")
		require.NoError(t, err)
		assert.Equal(t, []int{12, 12}, shape)

		shape, err = p.Shape("tesseract")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 3, 3, 3}, shape)

		_, err = p.Shape("small")
		assert.NoError(t, err)
	})

	t.Run("Rejects invalid documents", func(t *testing.T) {
		_, err := ParsePresets([]byte("presets:\n  - name: flat\n    shape: [0, 3]\n"))
		assert.ErrorIs(t, err, maze.ErrInvalidShape)

		_, err = ParsePresets([]byte("presets:\n  - shape: [3]\n"))
		assert.Error(t, err)

		_, err = ParsePresets([]byte("presets: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Empty path keeps defaults", func(t *testing.T) {
		p, err := LoadPresets("")
		require.NoError(t, err)
		assert.Equal(t, DefaultPresets().Names(), p.Names())
	})
}
