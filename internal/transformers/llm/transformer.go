// Package llm provides a Transformer that expands words through a
// generative text backend.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/hackerman70000/cbwg/internal/config"
	"github.com/hackerman70000/cbwg/internal/core/domain"
	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
	"github.com/hackerman70000/cbwg/internal/logger"
	"github.com/hackerman70000/cbwg/internal/retry"
)

// Ensure Transformer implements the interface.
var _ driven.Transformer = (*Transformer)(nil)

// Default configuration values.
const (
	DefaultBatchSize  = 100
	DefaultMaxRetries = 3

	// DefaultTemperature keeps generation close to deterministic.
	DefaultTemperature = 0.2

	// DefaultMaxOutputTokens bounds the response size.
	DefaultMaxOutputTokens = 8192

	// DefaultSystemInstruction steers the backend towards parseable
	// output.
	DefaultSystemInstruction = "Always respond only with a JSON array of strings. No explanations."

	// batchInstructions is the fixed guidance appended to every batch
	// context.
	batchInstructions = "Generate variations, combinations, and contextually relevant words " +
		"based on these input words. Focus on creating password-like patterns."
)

// DefaultPromptFile is the conventional prompt template location under
// the project root.
var DefaultPromptFile = filepath.Join("resources", "prompts", "wordlist-generation.md")

// Config holds configuration for the generative transformer.
type Config struct {
	// PromptPath is the static prompt template file. Defaults to
	// resources/prompts/wordlist-generation.md under the project root;
	// when neither exists the transformer runs with an empty static
	// prompt.
	PromptPath string `yaml:"prompt_path"`

	// SystemInstruction overrides the default response-format steering.
	SystemInstruction string `yaml:"system_instruction"`

	// BatchSize is the maximum words per request (default: 100).
	BatchSize int `yaml:"batch_size"`

	// MaxRetries is the total attempts per batch (default: 3).
	MaxRetries int `yaml:"max_retries"`
}

// batchContext is the structured context serialized into each request.
type batchContext struct {
	Words        []string `json:"words"`
	Instructions string   `json:"instructions"`
}

// Transformer batches words, builds prompts and parses generative
// responses. The backend call is retried per batch; a batch either
// succeeds completely or fails the run.
type Transformer struct {
	service      driven.LLMService
	staticPrompt string
	promptPath   string
	system       string
	batchSize    int
	policy       retry.Policy
}

// New creates a generative transformer over service. The prompt template
// is resolved and loaded once here; requests reuse it for the lifetime of
// the transformer.
func New(service driven.LLMService, cfg Config) (*Transformer, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = DefaultSystemInstruction
	}

	t := &Transformer{
		service:   service,
		system:    cfg.SystemInstruction,
		batchSize: cfg.BatchSize,
		policy:    retry.Policy{MaxAttempts: cfg.MaxRetries},
	}

	if err := t.loadPrompt(cfg.PromptPath); err != nil {
		return nil, err
	}

	return t, nil
}

// loadPrompt resolves the prompt template: explicit path first, then the
// conventional location under the project root. An explicit path that
// cannot be read is fatal; a missing conventional file just leaves the
// static prompt empty.
func (t *Transformer) loadPrompt(path string) error {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("llm transformer: prompt template %s: %w", path, err)
		}
		t.staticPrompt = string(data)
		t.promptPath = path
		logger.Info("llm transformer: using prompt template %s", path)
		return nil
	}

	fallback := filepath.Join(config.FindProjectRoot(), DefaultPromptFile)
	data, err := os.ReadFile(fallback)
	if err != nil {
		logger.Warn("llm transformer: no prompt template found, using bare context")
		t.promptPath = "default"
		return nil
	}
	t.staticPrompt = string(data)
	t.promptPath = fallback
	logger.Info("llm transformer: using prompt template %s", fallback)
	return nil
}

// Transform validates words, splits them into ordered batches and streams
// the generated words batch by batch. Each batch is all-or-nothing: the
// request is retried up to the configured attempts and the last error is
// surfaced when they run out. Words from earlier batches are already
// yielded when a later batch fails.
func (t *Transformer) Transform(ctx context.Context, words []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if len(words) == 0 {
			return
		}

		for i, word := range words {
			if strings.TrimSpace(word) == "" {
				yield("", fmt.Errorf("llm transformer: word %d: %w", i, domain.ErrEmptyWord))
				return
			}
		}

		for start := 0; start < len(words); start += t.batchSize {
			end := min(start+t.batchSize, len(words))
			batch := words[start:end]

			generated, err := t.processBatch(ctx, batch)
			if err != nil {
				yield("", err)
				return
			}

			for _, word := range generated {
				if !yield(word, nil) {
					return
				}
			}
		}
	}
}

// processBatch sends one batch through the backend and returns the
// validated word list. Any failure during an attempt, including a
// malformed response, consumes one retry attempt.
func (t *Transformer) processBatch(ctx context.Context, batch []string) ([]string, error) {
	prompt, err := t.buildPrompt(batch)
	if err != nil {
		return nil, err
	}

	logger.Debug("llm transformer: batch of %d words, prompt %d bytes", len(batch), len(prompt))

	raw, err := retry.Do(ctx, t.policy, "wordlist generation",
		func(ctx context.Context) ([]any, error) {
			response, err := t.service.Generate(ctx, prompt, driven.GenerateOptions{
				Temperature:       DefaultTemperature,
				MaxOutputTokens:   DefaultMaxOutputTokens,
				SystemInstruction: t.system,
			})
			if err != nil {
				return nil, err
			}
			return parseWordlist(response)
		})
	if err != nil {
		return nil, fmt.Errorf("llm transformer: %w", err)
	}

	return filterGenerated(raw), nil
}

// buildPrompt serializes the batch context and appends it to the static
// prompt. Structured context becomes indented JSON.
func (t *Transformer) buildPrompt(batch []string) (string, error) {
	data, err := json.MarshalIndent(batchContext{
		Words:        batch,
		Instructions: batchInstructions,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("llm transformer: encode context: %w", err)
	}
	return t.staticPrompt + "\n\n" + string(data), nil
}

// filterGenerated discards non-string and blank elements, surfacing how
// many were dropped.
func filterGenerated(raw []any) []string {
	valid := make([]string, 0, len(raw))
	for _, item := range raw {
		word, ok := item.(string)
		if !ok || strings.TrimSpace(word) == "" {
			continue
		}
		valid = append(valid, word)
	}

	if dropped := len(raw) - len(valid); dropped > 0 {
		logger.Warn("llm transformer: filtered out %d invalid words", dropped)
	}

	return valid
}

// Metadata reports the model, prompt source and batch size.
func (t *Transformer) Metadata() map[string]any {
	return map[string]any{
		"transformer_type": "llm",
		"model_name":       t.service.ModelName(),
		"prompt_path":      t.promptPath,
		"batch_size":       t.batchSize,
	}
}
