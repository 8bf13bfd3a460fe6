package driven

import "iter"

// Parser extracts candidate tokens from one raw data unit.
type Parser interface {
	// Parse matches the configured pattern against data left to right,
	// non-overlapping, and yields every token that survives the length,
	// case and exclusion policy. The sequence is lazy and single-pass.
	Parse(data string) iter.Seq[string]

	// Metadata reports the effective pattern, bounds and exclusion-set
	// size. Diagnostics only.
	Metadata() map[string]any
}
