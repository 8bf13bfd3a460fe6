package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hackerman70000/cbwg/internal/core/domain"
)

// extractPayload pulls the parseable part out of a model response.
// Preference order: interior of a ```json fenced block, interior of any
// fenced block, the whole response.
func extractPayload(response string) string {
	if _, after, found := strings.Cut(response, "```json"); found {
		inner, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(inner)
	}
	if _, after, found := strings.Cut(response, "```"); found {
		inner, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(response)
}

// parseWordlist parses a model response into its raw word elements.
// Accepted shapes are a bare JSON array or a JSON object containing a
// "words" array. Elements keep their JSON types; filtering non-strings is
// the caller's concern.
func parseWordlist(response string) ([]any, error) {
	payload := extractPayload(response)

	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %w", domain.ErrMalformedResponse, err)
	}

	switch v := parsed.(type) {
	case []any:
		return v, nil
	case map[string]any:
		words, ok := v["words"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: object has no words array", domain.ErrMalformedResponse)
		}
		return words, nil
	default:
		return nil, fmt.Errorf("%w: expected array or object, got %T", domain.ErrMalformedResponse, parsed)
	}
}
