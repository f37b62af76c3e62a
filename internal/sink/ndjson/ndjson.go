// Package ndjson implements the NDJSON sink from spec.md §6: one JSON
// object per line, UTF-8, `\n` terminated, 64 KiB buffered writes. Rows
// are discriminated by a `kind` field since all three row shapes share
// one output stream.
package ndjson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/argus-chain/argus/internal/report"
)

const bufferSize = 64 * 1024

// Sink writes NDJSON rows to an underlying writer, buffered per spec.md §6.
// file is non-nil only when the Sink owns the underlying descriptor (Open)
// and must Close it; NewWriter-built sinks leave closing to the caller.
type Sink struct {
	file *os.File
	w    *bufio.Writer
}

// Open creates (or truncates) path and returns a Sink writing to it.
func Open(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("ndjson: open %s: %w", path, err)
	}
	return &Sink{file: f, w: bufio.NewWriterSize(f, bufferSize)}, nil
}

// NewWriter wraps an existing io.Writer (e.g. os.Stdout for `--json`,
// spec.md §6) in a Sink. Close flushes but never closes w.
func NewWriter(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriterSize(w, bufferSize)}
}

// Write emits one line per row in rep, in rep's order: the block summary,
// then every conflict, then every contention event.
func (s *Sink) Write(rep report.Report) error {
	if err := s.writeRow("block", rep.Summary); err != nil {
		return err
	}
	for _, c := range rep.Conflicts {
		if err := s.writeRow("conflict", c); err != nil {
			return err
		}
	}
	for _, ev := range rep.Contentions {
		if err := s.writeRow("contention", ev); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) writeRow(kind string, row any) error {
	// Flatten {kind, ...row fields} into one object by marshaling the row
	// and the kind tag separately, then splicing: report rows already
	// carry their own json tags, and adding a field via reflection would
	// duplicate that logic. encoding/json has no "embed with extra field"
	// primitive, so we marshal row to a map first.
	buf, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("ndjson: marshal %s row: %w", kind, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(buf, &fields); err != nil {
		return fmt.Errorf("ndjson: re-marshal %s row: %w", kind, err)
	}
	fields["kind"] = json.RawMessage(fmt.Sprintf("%q", kind))

	out, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("ndjson: marshal %s row with kind: %w", kind, err)
	}
	if _, err := s.w.Write(out); err != nil {
		return fmt.Errorf("ndjson: write %s row: %w", kind, err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("ndjson: write newline after %s row: %w", kind, err)
	}
	return nil
}

// Close flushes buffered rows and, for a file-backed Sink, closes the file.
func (s *Sink) Close() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("ndjson: flush: %w", err)
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
