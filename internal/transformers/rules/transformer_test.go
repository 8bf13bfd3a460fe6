package rules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackerman70000/cbwg/internal/core/domain"
	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
)

// fakeEngine records every Apply call and echoes a deterministic
// expansion of its input.
type fakeEngine struct {
	calls   [][]string
	rules   [][]string
	results []string
	err     error
}

func (f *fakeEngine) Apply(rules []string, words []string) ([]string, error) {
	f.calls = append(f.calls, append([]string(nil), words...))
	f.rules = append(f.rules, rules)
	if f.err != nil {
		return nil, f.err
	}
	if f.results != nil {
		return f.results, nil
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, w+"1")
	}
	return out, nil
}

func ruleDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func collect(t *testing.T, tr *Transformer, words []string) ([]string, error) {
	t.Helper()
	var out []string
	for word, err := range tr.Transform(context.Background(), words) {
		if err != nil {
			return out, err
		}
		out = append(out, word)
	}
	return out, nil
}

func TestNew(t *testing.T) {
	t.Run("implements Transformer", func(t *testing.T) {
		tr, err := New(&fakeEngine{}, Config{Rules: []string{"$1"}})
		require.NoError(t, err)
		var _ driven.Transformer = tr
	})

	t.Run("loads every rule file then appends inline rules", func(t *testing.T) {
		dir := ruleDir(t, map[string]string{
			"a.rule": "l\nu\n",
			"b.rule": "c\n",
			"notes":  "ignored, not a .rule file\n",
		})

		tr, err := New(&fakeEngine{}, Config{RulesPath: dir, Rules: []string{"$9"}})
		require.NoError(t, err)

		assert.Equal(t, []string{"l", "u", "c", "$9"}, tr.Rules())
	})

	t.Run("fails when the rules path does not exist", func(t *testing.T) {
		_, err := New(&fakeEngine{}, Config{RulesPath: filepath.Join(t.TempDir(), "absent")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("fails when no rule source yields any rules", func(t *testing.T) {
		dir := t.TempDir() // exists but holds no .rule files

		_, err := New(&fakeEngine{}, Config{RulesPath: dir})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("inline rules alone are sufficient", func(t *testing.T) {
		t.Setenv(RulesPathEnv, "")

		tr, err := New(&fakeEngine{}, Config{Rules: []string{"$1", "$2"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"$1", "$2"}, tr.Rules())
	})
}

func TestTransformer_Transform(t *testing.T) {
	t.Run("re-emits the engine output unchanged", func(t *testing.T) {
		t.Setenv(RulesPathEnv, "")

		engine := &fakeEngine{results: []string{"cat1", "dog1"}}
		tr, err := New(engine, Config{Rules: []string{"$1"}})
		require.NoError(t, err)

		out, err := collect(t, tr, []string{"cat", "dog"})

		require.NoError(t, err)
		assert.Equal(t, []string{"cat1", "dog1"}, out)
		require.Len(t, engine.calls, 1)
		assert.Equal(t, []string{"$1"}, engine.rules[0])
	})

	t.Run("empty input never touches the engine", func(t *testing.T) {
		engine := &fakeEngine{}
		tr, err := New(engine, Config{Rules: []string{"$1"}})
		require.NoError(t, err)

		out, err := collect(t, tr, nil)

		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Empty(t, engine.calls)
	})

	t.Run("rejects empty words before any engine call", func(t *testing.T) {
		engine := &fakeEngine{}
		tr, err := New(engine, Config{Rules: []string{"$1"}})
		require.NoError(t, err)

		_, err = collect(t, tr, []string{"ok", ""})

		assert.ErrorIs(t, err, domain.ErrEmptyWord)
		assert.Empty(t, engine.calls)
	})

	t.Run("splits input into ceil(N/B) ordered batches", func(t *testing.T) {
		engine := &fakeEngine{}
		tr, err := New(engine, Config{Rules: []string{"$1"}, BatchSize: 3})
		require.NoError(t, err)

		words := []string{"a", "b", "c", "d", "e", "f", "g"}
		out, err := collect(t, tr, words)
		require.NoError(t, err)

		require.Len(t, engine.calls, 3) // ceil(7/3)
		var rejoined []string
		for _, call := range engine.calls {
			assert.LessOrEqual(t, len(call), 3)
			rejoined = append(rejoined, call...)
		}
		assert.Equal(t, words, rejoined)
		assert.Equal(t, []string{"a1", "b1", "c1", "d1", "e1", "f1", "g1"}, out)
	})

	t.Run("engine failure aborts the run", func(t *testing.T) {
		engine := &fakeEngine{err: fmt.Errorf("engine exploded")}
		tr, err := New(engine, Config{Rules: []string{"$1"}})
		require.NoError(t, err)

		_, err = collect(t, tr, []string{"word"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "engine exploded")
	})
}

func TestTransformer_Metadata(t *testing.T) {
	dir := ruleDir(t, map[string]string{"a.rule": "l\n"})
	tr, err := New(&fakeEngine{}, Config{RulesPath: dir, BatchSize: 500})
	require.NoError(t, err)

	meta := tr.Metadata()

	assert.Equal(t, "rule", meta["transformer_type"])
	assert.Equal(t, dir, meta["rules_path"])
	assert.Equal(t, 500, meta["batch_size"])
	assert.Equal(t, 1, meta["rule_count"])
}
