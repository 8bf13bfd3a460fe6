package driven

import (
	"context"
	"iter"
)

// Transformer expands input words into candidate password variants.
//
// Implementations batch the input internally because their backends have
// payload limits. Output streams batch by batch: words produced by earlier
// batches are already yielded when a later batch fails, and a batch
// failure terminates the sequence with a non-nil error.
type Transformer interface {
	// Transform validates words, splits them into batches preserving
	// order, and yields each generated word in backend order. An empty
	// input yields nothing and never touches the backend.
	Transform(ctx context.Context, words []string) iter.Seq2[string, error]

	// Metadata describes the transformer for diagnostics.
	Metadata() map[string]any
}
