package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackerman70000/cbwg/internal/core/domain"
)

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "json fenced block",
			response: "Here you go:\n```json\n[\"a\",\"b\"]\n```\nEnjoy!",
			want:     `["a","b"]`,
		},
		{
			name:     "plain fenced block",
			response: "```\n[\"a\"]\n```",
			want:     `["a"]`,
		},
		{
			name:     "json fence preferred over plain fence",
			response: "```\nnoise\n```\n```json\n[\"real\"]\n```",
			want:     `["real"]`,
		},
		{
			name:     "no fences uses the whole response",
			response: "  [\"bare\"]  ",
			want:     `["bare"]`,
		},
		{
			name:     "unclosed json fence takes the remainder",
			response: "```json\n[\"tail\"]",
			want:     `["tail"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPayload(tt.response))
		})
	}
}

func TestParseWordlist(t *testing.T) {
	t.Run("bare array of strings", func(t *testing.T) {
		words, err := parseWordlist(`["p@ssw0rd","pass1234"]`)
		require.NoError(t, err)
		assert.Equal(t, []any{"p@ssw0rd", "pass1234"}, words)
	})

	t.Run("fenced array of strings", func(t *testing.T) {
		words, err := parseWordlist("```json\n[\"p@ssw0rd\",\"pass1234\"]\n```")
		require.NoError(t, err)
		assert.Equal(t, []any{"p@ssw0rd", "pass1234"}, words)
	})

	t.Run("object with a words array", func(t *testing.T) {
		words, err := parseWordlist(`{"words":["one","two"],"note":"extra keys ignored"}`)
		require.NoError(t, err)
		assert.Equal(t, []any{"one", "two"}, words)
	})

	t.Run("elements keep their JSON types", func(t *testing.T) {
		words, err := parseWordlist(`["ok", 3, null]`)
		require.NoError(t, err)
		assert.Equal(t, []any{"ok", float64(3), nil}, words)
	})

	t.Run("object without words array", func(t *testing.T) {
		_, err := parseWordlist(`{"passwords":["x"]}`)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("scalar JSON", func(t *testing.T) {
		_, err := parseWordlist(`"just a string"`)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := parseWordlist("I'm sorry, I can't help with that.")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}
