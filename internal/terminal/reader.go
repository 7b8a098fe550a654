package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/desertthunder/termkit/internal/shared"
	"github.com/muesli/cancelreader"
)

const readSize = 256

// source delivers raw input chunks and unblocks when ctx is done.
type source interface {
	read(ctx context.Context) ([]byte, error)
	close() error
}

// KeyReader decodes keys from a byte stream. A single read may carry several keys (a paste),
// they are returned one per call in arrival order.
type KeyReader struct {
	mu      sync.Mutex
	src     source
	pending []byte
	err     error
}

func newKeyReader(src source) *KeyReader {
	return &KeyReader{src: src}
}

// NewKeyReader reads keys from f with context-cancellable blocking reads.
func NewKeyReader(f *os.File) *KeyReader {
	return newKeyReader(&fileSource{file: f})
}

// NewStreamKeyReader reads keys from any stream. Reads happen on a background goroutine.
func NewStreamKeyReader(r io.Reader) *KeyReader {
	return newKeyReader(newStreamSource(r))
}

// ReadKey blocks until a key arrives, the stream ends or ctx is done. Unrecognized input is skipped.
func (r *KeyReader) ReadKey(ctx context.Context) (Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if len(r.pending) > 0 {
			k, n := decode(r.pending, r.err != nil)
			if n > 0 {
				r.pending = r.pending[n:]
				if k.Kind == KeyUnknown {
					continue
				}
				return k, nil
			}
		}
		if r.err != nil {
			r.pending = nil
			return Key{}, r.err
		}

		chunk, err := r.src.read(ctx)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return Key{}, err
		}
		r.pending = append(r.pending, chunk...)
		if err != nil {
			r.err = err
		}
	}
}

// Close releases the underlying reader resources. It does not close the input stream.
func (r *KeyReader) Close() error {
	return r.src.close()
}

// fileSource reads from a file with a [cancelreader.CancelReader]. A cancelled reader cannot be
// reused, so a fresh one is created on the next read.
type fileSource struct {
	file *os.File
	cr   cancelreader.CancelReader
}

func (s *fileSource) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.cr == nil {
		cr, err := cancelreader.NewReader(s.file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrTerminalSetup, err)
		}
		s.cr = cr
	}

	cr := s.cr
	cancelled := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		cr.Cancel()
		close(cancelled)
	})

	buf := make([]byte, readSize)
	n, err := cr.Read(buf)
	if !stop() {
		<-cancelled
		cr.Close()
		s.cr = nil
		if errors.Is(err, cancelreader.ErrCanceled) {
			return nil, ctx.Err()
		}
	}
	return buf[:n], err
}

func (s *fileSource) close() error {
	if s.cr == nil {
		return nil
	}
	err := s.cr.Close()
	s.cr = nil
	return err
}

type chunk struct {
	data []byte
	err  error
}

// streamSource pumps a plain reader on a goroutine so that reads can be abandoned when ctx is done
// without losing the chunk that eventually arrives.
type streamSource struct {
	r      io.Reader
	start  sync.Once
	stop   sync.Once
	chunks chan chunk
	done   chan struct{}
}

func newStreamSource(r io.Reader) *streamSource {
	return &streamSource{r: r, chunks: make(chan chunk), done: make(chan struct{})}
}

func (s *streamSource) pump() {
	for {
		buf := make([]byte, readSize)
		n, err := s.r.Read(buf)
		if n > 0 || err != nil {
			select {
			case s.chunks <- chunk{data: buf[:n], err: err}:
			case <-s.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *streamSource) read(ctx context.Context) ([]byte, error) {
	s.start.Do(func() { go s.pump() })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, io.EOF
	case c := <-s.chunks:
		return c.data, c.err
	}
}

func (s *streamSource) close() error {
	s.stop.Do(func() { close(s.done) })
	return nil
}
