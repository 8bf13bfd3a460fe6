package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML configuration document, requires it to be a
// mapping, and validates it against the allow-list for tag. The returned
// map is safe to hand to a component constructor.
func LoadFile(path string, tag Tag) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s config %s: %w", tag, path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s config %s: %w", tag, path, err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	return Validate(raw, tag)
}

// Decode converts a validated raw mapping into a component's typed
// configuration struct via its yaml tags. Options absent from the mapping
// keep whatever value out already holds, so callers can pre-fill defaults.
func Decode(raw map[string]any, out any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// FindProjectRoot walks up from the working directory looking for a .env
// marker file. Returns the directory containing it, or the working
// directory when no marker is found.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}

	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, ".env")); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}
