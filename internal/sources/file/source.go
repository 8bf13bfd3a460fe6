// Package file provides a DataSource backed by one or more local files.
package file

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/hackerman70000/cbwg/internal/core/domain"
	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
	"github.com/hackerman70000/cbwg/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DataSource = (*Source)(nil)

// Default configuration values.
const (
	DefaultEncoding  = "utf-8"
	DefaultChunkSize = 4096
)

// Config holds configuration for the file source.
type Config struct {
	// Encoding is the IANA name of the text encoding used to decode
	// chunks in binary mode (default: utf-8).
	Encoding string `yaml:"encoding"`

	// ChunkSize is the read size in bytes for binary mode (default: 4096).
	ChunkSize int `yaml:"chunk_size"`

	// BinaryMode switches from line-oriented to fixed-size chunk reads.
	BinaryMode bool `yaml:"binary_mode"`
}

// Source reads raw data units from a fixed set of file paths.
// In line mode each unit is one line with trailing line terminators
// stripped; in binary mode each unit is one decoded fixed-size chunk.
type Source struct {
	paths   []string
	cfg     Config
	decoder *encoding.Decoder
	files   []*os.File
}

// New creates a file source over paths. It fails when no path is given,
// when any path does not exist, or when the configured encoding is not a
// known IANA name. Files are not opened until Connect.
func New(paths []string, cfg Config) (*Source, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("file source: no input paths: %w", domain.ErrInvalidInput)
	}

	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}

	var missing []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("file source: input paths do not exist: %s: %w",
			strings.Join(missing, ", "), domain.ErrNotFound)
	}

	enc, err := ianaindex.IANA.Encoding(cfg.Encoding)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("file source: unknown encoding %q: %w",
			cfg.Encoding, domain.ErrInvalidConfig)
	}

	return &Source{
		paths:   paths,
		cfg:     cfg,
		decoder: enc.NewDecoder(),
	}, nil
}

// Connect opens all configured files. On partial failure the files opened
// so far are closed before the error is returned.
func (s *Source) Connect() error {
	// Re-connecting starts from a clean slate.
	_ = s.Close()

	for _, path := range s.paths {
		f, err := os.Open(path)
		if err != nil {
			_ = s.Close()
			return fmt.Errorf("file source: open %s: %w", path, err)
		}
		s.files = append(s.files, f)
	}

	return nil
}

// Data returns a lazy, single-pass sequence over all files in order.
// Reading is eager per unit: the next unit is computed only when the
// consumer asks for it. A read failure is yielded once and ends the
// sequence.
func (s *Source) Data() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if len(s.files) == 0 {
			if err := s.Connect(); err != nil {
				yield("", err)
				return
			}
		}

		for _, f := range s.files {
			var done bool
			if s.cfg.BinaryMode {
				done = !s.readChunks(f, yield)
			} else {
				done = !s.readLines(f, yield)
			}
			if done {
				return
			}
		}
	}
}

// readLines yields one unit per line with \r\n stripped. Returns false
// when the consumer stopped early or a read failed.
func (s *Source) readLines(f *os.File, yield func(string, error) bool) bool {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if !yield(line, nil) {
			return false
		}
	}
	if err := scanner.Err(); err != nil {
		yield("", fmt.Errorf("file source: read %s: %w", f.Name(), err))
		return false
	}
	return true
}

// readChunks yields fixed-size buffers decoded with the configured
// encoding. Undecodable byte sequences become U+FFFD instead of failing,
// so mixed or invalid encodings never abort the read.
func (s *Source) readChunks(f *os.File, yield func(string, error) bool) bool {
	buf := make([]byte, s.cfg.ChunkSize)

	for {
		n, err := f.Read(buf)
		if n > 0 {
			decoded, derr := s.decoder.Bytes(buf[:n])
			if derr != nil {
				// The decoder replaces rather than fails for bad
				// input; an error here is a real I/O-level fault.
				yield("", fmt.Errorf("file source: decode %s: %w", f.Name(), derr))
				return false
			}
			if !yield(string(decoded), nil) {
				return false
			}
		}
		if err == io.EOF {
			return true
		}
		if err != nil {
			yield("", fmt.Errorf("file source: read %s: %w", f.Name(), err))
			return false
		}
	}
}

// Metadata reports per-file diagnostics.
func (s *Source) Metadata() map[string]any {
	files := make([]map[string]any, 0, len(s.paths))
	for _, path := range s.paths {
		info := map[string]any{"path": path}
		if stat, err := os.Stat(path); err == nil {
			info["size"] = stat.Size()
			info["modified"] = stat.ModTime()
		}
		files = append(files, info)
	}

	return map[string]any{
		"source_type": "file",
		"binary_mode": s.cfg.BinaryMode,
		"encoding":    s.cfg.Encoding,
		"files":       files,
	}
}

// Close releases all opened files. Individual close failures are logged
// and swallowed so one failing handle does not prevent releasing the
// rest. Safe to call multiple times.
func (s *Source) Close() error {
	for _, f := range s.files {
		if err := f.Close(); err != nil {
			logger.Debug("file source: close %s: %v", f.Name(), err)
		}
	}
	s.files = nil
	return nil
}
