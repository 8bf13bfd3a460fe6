// Package config validates and loads component configuration.
//
// Every external configuration document passes through the allow-list
// validator before any component consumes it: unknown keys or values of
// the wrong kind invalidate the whole document.
package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hackerman70000/cbwg/internal/core/domain"
)

// Tag identifies which component a configuration document belongs to.
type Tag string

// Component tags, one per allow-list table.
const (
	TagSource Tag = "source"
	TagParser Tag = "parser"
	TagEngine Tag = "engine"
	TagAI     Tag = "ai"
)

// Kind is the expected value kind of a configuration option.
type Kind int

// Value kinds recognised by the validator.
const (
	KindInt Kind = iota
	KindString
	KindBool
	KindStringList
	// KindPattern is a string that must compile as a regular expression.
	KindPattern
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindStringList:
		return "list of strings"
	case KindPattern:
		return "regex pattern string"
	default:
		return "unknown"
	}
}

// allowLists are the fixed per-component option tables.
var allowLists = map[Tag]map[string]Kind{
	TagSource: {
		"binary_mode": KindBool,
		"encoding":    KindString,
		"chunk_size":  KindInt,
	},
	TagParser: {
		"min_length":      KindInt,
		"max_length":      KindInt,
		"pattern":         KindPattern,
		"include_numbers": KindBool,
		"preserve_case":   KindBool,
		"exclude_words":   KindStringList,
	},
	TagEngine: {
		"rules_path": KindString,
		"batch_size": KindInt,
		"rules":      KindStringList,
	},
	TagAI: {
		"api_key":            KindString,
		"model_name":         KindString,
		"prompt_path":        KindString,
		"system_instruction": KindString,
		"batch_size":         KindInt,
		"max_retries":        KindInt,
	},
}

// FieldError describes one offending configuration key.
type FieldError struct {
	Key    string
	Reason string
}

// ValidationError reports every offending field of one document, not just
// the first.
type ValidationError struct {
	Tag    Tag
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Key, f.Reason))
	}
	return fmt.Sprintf("%s config: %s", e.Tag, strings.Join(parts, "; "))
}

// Unwrap marks validation errors as domain.ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidConfig
}

// Validate checks raw against the allow-list for tag and returns the
// mapping unchanged when every key is allowed and every value matches its
// declared kind. On any failure no usable configuration is returned.
// Validating a previously validated mapping returns the same mapping.
func Validate(raw map[string]any, tag Tag) (map[string]any, error) {
	allowed, ok := allowLists[tag]
	if !ok {
		return nil, fmt.Errorf("unknown component tag %q", tag)
	}

	verr := &ValidationError{Tag: tag}

	// Sort keys so the error report is deterministic.
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind, ok := allowed[key]
		if !ok {
			verr.Fields = append(verr.Fields, FieldError{Key: key, Reason: "unknown option"})
			continue
		}
		if reason := checkKind(raw[key], kind); reason != "" {
			verr.Fields = append(verr.Fields, FieldError{Key: key, Reason: reason})
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return raw, nil
}

// checkKind returns an empty string when value matches kind, otherwise a
// reason naming what was expected. A pattern that fails to compile is
// reported distinctly from a plain type mismatch.
func checkKind(value any, kind Kind) string {
	switch kind {
	case KindInt:
		switch value.(type) {
		case int, int64, uint64:
			return ""
		}
		return "expected " + kind.String()

	case KindString:
		if _, ok := value.(string); ok {
			return ""
		}
		return "expected " + kind.String()

	case KindBool:
		if _, ok := value.(bool); ok {
			return ""
		}
		return "expected " + kind.String()

	case KindStringList:
		switch v := value.(type) {
		case []string:
			return ""
		case []any:
			for _, item := range v {
				if _, ok := item.(string); !ok {
					return "expected " + kind.String()
				}
			}
			return ""
		}
		return "expected " + kind.String()

	case KindPattern:
		s, ok := value.(string)
		if !ok {
			return "expected string"
		}
		if _, err := regexp.Compile(s); err != nil {
			return fmt.Sprintf("invalid regex: %v", err)
		}
		return ""

	default:
		return "unknown kind"
	}
}
