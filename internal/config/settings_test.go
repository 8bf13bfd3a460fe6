package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	t.Run("starts empty without a settings file", func(t *testing.T) {
		s, err := NewSettings(t.TempDir())
		require.NoError(t, err)

		_, ok := s.Get("anything")
		assert.False(t, ok)
	})

	t.Run("set persists and reloads", func(t *testing.T) {
		dir := t.TempDir()

		s, err := NewSettings(dir)
		require.NoError(t, err)
		require.NoError(t, s.Set("ai.model", "gemini-2.0-flash"))

		reloaded, err := NewSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.0-flash", reloaded.GetString("ai.model"))
	})

	t.Run("typed getters return zero values on mismatch", func(t *testing.T) {
		s, err := NewSettings(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, s.Set("key", "value"))

		assert.Equal(t, 0, s.GetInt("key"))
		assert.False(t, s.GetBool("key"))
		assert.Equal(t, "", s.GetString("missing"))
	})

	t.Run("flattens nested tables to dot-notation keys", func(t *testing.T) {
		dir := t.TempDir()
		content := "[output]\ndefault = \"wordlist\"\n\n[ai]\nmodel = \"gemini-2.0-flash\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

		s, err := NewSettings(dir)
		require.NoError(t, err)

		assert.Equal(t, "wordlist", s.GetString("output.default"))
		assert.Equal(t, "gemini-2.0-flash", s.GetString("ai.model"))
	})

	t.Run("reads int64 TOML integers", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("batch = 500\n"), 0600))

		s, err := NewSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, 500, s.GetInt("batch"))
	})
}
