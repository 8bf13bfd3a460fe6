package driven

import "iter"

// DataSource produces raw data units for the parser stage.
//
// Implementations own the lifecycle of whatever they read from: Connect
// opens everything up front, Data streams units one at a time, Close
// releases all handles and is safe to call more than once.
type DataSource interface {
	// Connect opens all configured inputs. On partial failure the
	// already-opened inputs are closed before the error is returned.
	Connect() error

	// Data returns a lazy, finite, single-pass sequence of raw data
	// units. Each unit is either one line (text mode) or one decoded
	// fixed-size chunk (binary mode). A read failure is yielded as the
	// second element and terminates the sequence.
	Data() iter.Seq2[string, error]

	// Metadata describes the source for diagnostics.
	Metadata() map[string]any

	// Close releases all opened inputs. Best effort: individual close
	// failures do not prevent releasing the rest. Idempotent.
	Close() error
}
