// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

// Key sequences as a terminal in raw mode delivers them.
const (
	KeyEnter     = "\r"
	KeyBackspace = "\x7f"
	KeyEscape    = "\x1b"
	KeyCtrlC     = "\x03"
	KeyUp        = "\x1b[A"
	KeyDown      = "\x1b[B"
	KeySpace     = " "
)

// Keys joins key sequences into a single input stream.
func Keys(seq ...string) io.Reader {
	return strings.NewReader(strings.Join(seq, ""))
}

// ChunkedReader hands out one chunk per Read call, simulating separate keystrokes arriving over time.
type ChunkedReader struct {
	chunks []string
}

func NewChunkedReader(chunks ...string) *ChunkedReader {
	return &ChunkedReader{chunks: chunks}
}

func (c *ChunkedReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// SyncBuffer is a strings.Builder safe for a writer goroutine and a reading test.
type SyncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (s *SyncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *SyncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *SyncBuffer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
