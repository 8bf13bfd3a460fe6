// Package rules provides a Transformer that expands words through a
// deterministic rule engine.
package rules

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/hackerman70000/cbwg/internal/config"
	"github.com/hackerman70000/cbwg/internal/core/domain"
	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
	"github.com/hackerman70000/cbwg/internal/logger"
)

// Ensure Transformer implements the interface.
var _ driven.Transformer = (*Transformer)(nil)

// DefaultBatchSize is the maximum number of words handed to the engine
// in one call.
const DefaultBatchSize = 10000

// RulesPathEnv overrides the default rule directory location.
const RulesPathEnv = "CBWG_RULES_PATH"

// Config holds configuration for the rule transformer.
type Config struct {
	// RulesPath is the directory scanned for *.rule files. Defaults to
	// $CBWG_RULES_PATH, else resources/rules under the project root.
	RulesPath string `yaml:"rules_path"`

	// BatchSize is the maximum words per engine call (default: 10000).
	BatchSize int `yaml:"batch_size"`

	// Rules are inline rule lines appended after the file rules.
	Rules []string `yaml:"rules"`
}

// Transformer batches words and delegates to a rule engine. The rule set
// is loaded once at construction and immutable afterwards.
type Transformer struct {
	engine    driven.RuleEngine
	rules     []string
	rulesPath string
	batchSize int
}

// New creates a rule transformer. It fails when neither a rule directory
// nor inline rules are configured, or when the configured directory does
// not exist.
func New(engine driven.RuleEngine, cfg Config) (*Transformer, error) {
	if cfg.RulesPath == "" {
		cfg.RulesPath = os.Getenv(RulesPathEnv)
	}
	if cfg.RulesPath == "" && len(cfg.Rules) == 0 {
		cfg.RulesPath = filepath.Join(config.FindProjectRoot(), "resources", "rules")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	t := &Transformer{
		engine:    engine,
		rulesPath: cfg.RulesPath,
		batchSize: cfg.BatchSize,
	}

	if cfg.RulesPath != "" {
		loaded, err := loadRuleFiles(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		t.rules = loaded
	}
	t.rules = append(t.rules, cfg.Rules...)

	if len(t.rules) == 0 {
		return nil, fmt.Errorf("rule transformer: no rules found under %s and no inline rules: %w",
			cfg.RulesPath, domain.ErrInvalidConfig)
	}

	return t, nil
}

// loadRuleFiles reads every *.rule file under dir and returns its lines
// in file-name order.
func loadRuleFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("rule transformer: rules path %s: %w", dir, domain.ErrNotFound)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.rule"))
	if err != nil {
		return nil, fmt.Errorf("rule transformer: scan %s: %w", dir, err)
	}

	var rules []string
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("rule transformer: read %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" {
				continue
			}
			rules = append(rules, line)
		}
		logger.Debug("rule transformer: loaded %s", path)
	}

	return rules, nil
}

// Transform validates words, splits them into ordered batches and streams
// whatever the engine returns for each batch, in the engine's order,
// without further filtering. An empty input yields nothing and never
// calls the engine. There is no retry around the engine call.
func (t *Transformer) Transform(ctx context.Context, words []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if len(words) == 0 {
			return
		}

		for i, word := range words {
			if word == "" {
				yield("", fmt.Errorf("rule transformer: word %d: %w", i, domain.ErrEmptyWord))
				return
			}
		}

		for start := 0; start < len(words); start += t.batchSize {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			end := min(start+t.batchSize, len(words))
			batch := words[start:end]

			logger.Debug("rule transformer: batch of %d words, %d rules", len(batch), len(t.rules))
			results, err := t.engine.Apply(t.rules, batch)
			if err != nil {
				yield("", fmt.Errorf("rule transformer: engine: %w", err))
				return
			}

			for _, result := range results {
				if !yield(result, nil) {
					return
				}
			}
		}
	}
}

// Rules returns the loaded rule set. The returned slice must not be
// modified.
func (t *Transformer) Rules() []string {
	return t.rules
}

// Metadata reports the rule source and batch size.
func (t *Transformer) Metadata() map[string]any {
	return map[string]any{
		"transformer_type": "rule",
		"rules_path":       t.rulesPath,
		"rule_count":       len(t.rules),
		"batch_size":       t.batchSize,
	}
}
