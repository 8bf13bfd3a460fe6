// Package text provides a Parser that extracts candidate words from
// plain text using a configurable pattern and filter policy.
package text

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hackerman70000/cbwg/internal/core/domain"
	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Default configuration values.
const (
	DefaultMinLength = 3
	DefaultMaxLength = 20
	DefaultPattern   = `[a-zA-Z0-9]+`

	// numbersExcludedPattern replaces the configured pattern when
	// include_numbers is false. Narrowing the pattern itself splits
	// tokens around embedded digits ("num3ric" yields "num" and "ric")
	// instead of rejecting the whole match.
	numbersExcludedPattern = `[a-zA-Z]+`
)

// Config holds configuration for the text parser.
type Config struct {
	// MinLength is the inclusive minimum token length (default: 3).
	MinLength int `yaml:"min_length"`

	// MaxLength is the inclusive maximum token length (default: 20).
	MaxLength int `yaml:"max_length"`

	// Pattern is the token extraction regex (default: [a-zA-Z0-9]+).
	Pattern string `yaml:"pattern"`

	// IncludeNumbers keeps tokens containing digits (default: true).
	IncludeNumbers *bool `yaml:"include_numbers"`

	// PreserveCase keeps tokens byte-identical to their source text
	// instead of lowercasing them (default: false).
	PreserveCase bool `yaml:"preserve_case"`

	// ExcludeWords are dropped case-insensitively (default: none).
	ExcludeWords []string `yaml:"exclude_words"`
}

// Parser extracts words from raw text units.
type Parser struct {
	pattern        *regexp.Regexp
	minLength      int
	maxLength      int
	includeNumbers bool
	preserveCase   bool
	exclusions     map[string]struct{}
}

// New creates a text parser. The pattern must compile; when
// IncludeNumbers is false the pattern is narrowed to letters only at
// construction time.
func New(cfg Config) (*Parser, error) {
	if cfg.MinLength == 0 {
		cfg.MinLength = DefaultMinLength
	}
	if cfg.MaxLength == 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}

	includeNumbers := true
	if cfg.IncludeNumbers != nil {
		includeNumbers = *cfg.IncludeNumbers
	}
	if !includeNumbers {
		cfg.Pattern = numbersExcludedPattern
	}

	pattern, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("text parser: invalid pattern %q: %w: %w",
			cfg.Pattern, domain.ErrInvalidConfig, err)
	}

	exclusions := make(map[string]struct{}, len(cfg.ExcludeWords))
	for _, word := range cfg.ExcludeWords {
		exclusions[strings.ToLower(word)] = struct{}{}
	}

	return &Parser{
		pattern:        pattern,
		minLength:      cfg.MinLength,
		maxLength:      cfg.MaxLength,
		includeNumbers: includeNumbers,
		preserveCase:   cfg.PreserveCase,
		exclusions:     exclusions,
	}, nil
}

// Parse yields every token extracted from data, left to right,
// non-overlapping. Tokens outside the length bounds, containing digits
// when numbers are excluded, or present in the exclusion set are dropped.
func (p *Parser) Parse(data string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, match := range p.pattern.FindAllString(data, -1) {
			if !p.includeNumbers && containsDigit(match) {
				continue
			}

			// Length bounds count characters, not bytes, so custom
			// patterns matching multi-byte runes bound correctly.
			if n := utf8.RuneCountInString(match); n < p.minLength || n > p.maxLength {
				continue
			}

			word := match
			if !p.preserveCase {
				word = strings.ToLower(word)
			}

			if _, excluded := p.exclusions[strings.ToLower(word)]; excluded {
				continue
			}

			if !yield(word) {
				return
			}
		}
	}
}

// Metadata reports the effective pattern, bounds and exclusion-set size.
func (p *Parser) Metadata() map[string]any {
	return map[string]any{
		"parser_type":         "text",
		"pattern":             p.pattern.String(),
		"min_length":          p.minLength,
		"max_length":          p.maxLength,
		"include_numbers":     p.includeNumbers,
		"preserve_case":       p.preserveCase,
		"exclude_words_count": len(p.exclusions),
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
