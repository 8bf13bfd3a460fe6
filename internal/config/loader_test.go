package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackerman70000/cbwg/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("loads and validates a parser config", func(t *testing.T) {
		path := writeConfig(t, "min_length: 4\nmax_length: 12\npreserve_case: true\n")

		raw, err := LoadFile(path, TagParser)

		require.NoError(t, err)
		assert.Equal(t, 4, raw["min_length"])
		assert.Equal(t, true, raw["preserve_case"])
	})

	t.Run("rejects a document with unknown keys", func(t *testing.T) {
		path := writeConfig(t, "min_length: 4\nbogus: true\n")

		_, err := LoadFile(path, TagParser)

		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"), TagParser)
		assert.Error(t, err)
	})

	t.Run("non-mapping document", func(t *testing.T) {
		path := writeConfig(t, "- just\n- a\n- list\n")

		_, err := LoadFile(path, TagParser)
		assert.Error(t, err)
	})

	t.Run("empty document validates as empty config", func(t *testing.T) {
		path := writeConfig(t, "")

		raw, err := LoadFile(path, TagSource)
		require.NoError(t, err)
		assert.Empty(t, raw)
	})
}

func TestDecode(t *testing.T) {
	type parserConfig struct {
		MinLength    int      `yaml:"min_length"`
		Pattern      string   `yaml:"pattern"`
		ExcludeWords []string `yaml:"exclude_words"`
	}

	t.Run("fills struct fields from the mapping", func(t *testing.T) {
		raw := map[string]any{
			"min_length":    5,
			"pattern":       `[a-z]+`,
			"exclude_words": []any{"the", "and"},
		}

		var cfg parserConfig
		require.NoError(t, Decode(raw, &cfg))

		assert.Equal(t, 5, cfg.MinLength)
		assert.Equal(t, `[a-z]+`, cfg.Pattern)
		assert.Equal(t, []string{"the", "and"}, cfg.ExcludeWords)
	})

	t.Run("absent options keep pre-filled defaults", func(t *testing.T) {
		cfg := parserConfig{MinLength: 3}
		require.NoError(t, Decode(map[string]any{"pattern": `\w+`}, &cfg))

		assert.Equal(t, 3, cfg.MinLength)
		assert.Equal(t, `\w+`, cfg.Pattern)
	})
}

func TestFindProjectRoot(t *testing.T) {
	t.Run("finds the directory containing .env", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), nil, 0600))
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0700))
		t.Chdir(nested)

		got := FindProjectRoot()

		// TempDir may sit behind a symlink; compare resolved paths.
		want, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		gotResolved, err := filepath.EvalSymlinks(got)
		require.NoError(t, err)
		assert.Equal(t, want, gotResolved)
	})

	t.Run("falls back to the working directory without a marker", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		got := FindProjectRoot()

		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		gotResolved, err := filepath.EvalSymlinks(got)
		require.NoError(t, err)
		assert.Equal(t, want, gotResolved)
	})
}
