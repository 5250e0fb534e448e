package results

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ReadResult holds records read from a raw-results file.
type ReadResult struct {
	Records      []ResponseRecord
	SkippedLines int
}

// ReadJSONL reads a raw-results JSONL file, skipping corrupted lines so one
// bad record never blocks a batch.
func ReadJSONL(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("results: open %q: %w", path, err)
	}
	defer f.Close()

	out := &ReadResult{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec ResponseRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			out.SkippedLines++
			continue
		}
		out.Records = append(out.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("results: read %q: %w", path, err)
	}
	return out, nil
}

// Writer appends records to a JSONL file, one line per record. Appends are
// serialized so concurrent workers emit whole lines.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewWriter creates (truncating) a JSONL file for appending records.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("results: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("results: create %q: %w", path, err)
	}
	return &Writer{f: f, enc: json.NewEncoder(f)}, nil
}

// Append writes one record as a JSONL line.
func (w *Writer) Append(rec *ResponseRecord) error {
	if w == nil || w.enc == nil {
		return fmt.Errorf("results: nil writer")
	}
	if rec == nil {
		return fmt.Errorf("results: nil record")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("results: append: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if w == nil || w.f == nil {
		return nil
	}
	return w.f.Close()
}
