// Package pipeline composes one DataSource, one Parser and one
// Transformer into a wordlist generation run.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
	"github.com/hackerman70000/cbwg/internal/logger"
)

// Pipeline drains the source through the parser into one in-memory token
// sequence, then streams the transformer's output to the sink one word
// per line. The whole corpus is parsed before transformation begins;
// transformer output streams batch by batch, so words written before a
// failing batch survive.
type Pipeline struct {
	source      driven.DataSource
	parser      driven.Parser
	transformer driven.Transformer
	sink        io.Writer
}

// New composes a pipeline. The sink receives one generated word per line.
func New(source driven.DataSource, parser driven.Parser, transformer driven.Transformer, sink io.Writer) *Pipeline {
	return &Pipeline{
		source:      source,
		parser:      parser,
		transformer: transformer,
		sink:        sink,
	}
}

// Run executes the pipeline. The source is connected on entry and closed
// on every exit path. Any stage failure aborts the run; batches are never
// silently skipped.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	logger.Section("pipeline run " + runID)

	if err := p.source.Connect(); err != nil {
		return fmt.Errorf("pipeline: connect source: %w", err)
	}
	defer p.source.Close()

	var words []string
	for data, err := range p.source.Data() {
		if err != nil {
			return fmt.Errorf("pipeline: read source: %w", err)
		}
		for word := range p.parser.Parse(data) {
			words = append(words, word)
		}
	}
	logger.Info("pipeline %s: parsed %d tokens", runID, len(words))

	out := bufio.NewWriter(p.sink)
	count := 0
	for word, err := range p.transformer.Transform(ctx, words) {
		if err != nil {
			// Flush what earlier batches already produced before
			// surfacing the failure.
			_ = out.Flush()
			return fmt.Errorf("pipeline: transform: %w", err)
		}
		if _, err := fmt.Fprintln(out, word); err != nil {
			return fmt.Errorf("pipeline: write output: %w", err)
		}
		count++
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("pipeline: flush output: %w", err)
	}

	logger.Info("pipeline %s: wrote %d words", runID, count)
	return nil
}
