package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/termkit/internal/shared"
	"golang.org/x/term"
)

const defaultWidth = 80

// ttyGuard is shared by every real terminal in the process since they all drive the same screen.
var ttyGuard atomic.Bool

// Terminal is an input stream plus an output writer that widgets render to.
type Terminal struct {
	in      *os.File
	owned   *os.File
	out     io.Writer
	keys    *KeyReader
	surface *Surface
	guard   *atomic.Bool
	width   atomic.Int64
	height  atomic.Int64
	logger  *log.Logger
}

// Open wraps an interactive terminal. It fails with [shared.ErrNotTerminal] when in is not a tty.
func Open(in *os.File, out io.Writer) (*Terminal, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: no input stream", shared.ErrNotTerminal)
	}
	if !term.IsTerminal(int(in.Fd())) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotTerminal, in.Name())
	}

	t := &Terminal{
		in:     in,
		out:    out,
		keys:   NewKeyReader(in),
		guard:  &ttyGuard,
		logger: shared.NewDiscardLogger(),
	}
	t.surface = NewSurface(out, t.Width)
	return t, nil
}

// OpenTTY opens the controlling terminal: stdin when it is a tty, /dev/tty otherwise so that
// candidates can still be piped on stdin.
func OpenTTY(out io.Writer) (*Terminal, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return Open(os.Stdin, out)
	}

	f, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrNotTerminal, err)
	}
	t, err := Open(f, out)
	if err != nil {
		f.Close()
		return nil, err
	}
	t.owned = f
	return t, nil
}

// NewVirtual drives the same engine over plain streams without raw mode. Each virtual terminal
// has its own guard.
func NewVirtual(r io.Reader, w io.Writer) *Terminal {
	t := &Terminal{
		out:    w,
		keys:   NewStreamKeyReader(r),
		guard:  &atomic.Bool{},
		logger: shared.NewDiscardLogger(),
	}
	t.width.Store(defaultWidth)
	t.surface = NewSurface(w, t.Width)
	return t
}

// SetLogger sets the logger used for session lifecycle events.
func (t *Terminal) SetLogger(l *log.Logger) {
	if l != nil {
		t.logger = l
	}
}

// SetWidth overrides the detected width. Zero restores detection.
func (t *Terminal) SetWidth(cols int) { t.width.Store(int64(cols)) }

// SetHeight overrides the detected height. Zero restores detection.
func (t *Terminal) SetHeight(rows int) { t.height.Store(int64(rows)) }

// Width reports the terminal width in cells, or zero when unknown.
func (t *Terminal) Width() int {
	if w := t.width.Load(); w > 0 {
		return int(w)
	}
	w, _ := t.size()
	return w
}

// Height reports the terminal height in rows, or zero when unknown.
func (t *Terminal) Height() int {
	if h := t.height.Load(); h > 0 {
		return int(h)
	}
	_, h := t.size()
	return h
}

func (t *Terminal) size() (int, int) {
	if f, ok := t.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil {
			return w, h
		}
	}
	if t.in != nil {
		if w, h, err := term.GetSize(int(t.in.Fd())); err == nil {
			return w, h
		}
	}
	return 0, 0
}

func (t *Terminal) Keys() *KeyReader  { return t.keys }
func (t *Terminal) Surface() *Surface { return t.surface }
func (t *Terminal) Writer() io.Writer { return t.out }

// Interactive reports whether the terminal is backed by a real tty.
func (t *Terminal) Interactive() bool { return t.in != nil }

// Close releases the key reader and any tty this terminal opened itself.
func (t *Terminal) Close() error {
	err := t.keys.Close()
	if t.owned != nil {
		err = errors.Join(err, t.owned.Close())
		t.owned = nil
	}
	return err
}

// Acquire starts an exclusive session: raw mode on and cursor hidden.
func (t *Terminal) Acquire() (*Session, error) {
	if !t.guard.CompareAndSwap(false, true) {
		return nil, shared.ErrTerminalBusy
	}

	s := &Session{t: t}
	if t.in != nil {
		state, err := term.MakeRaw(int(t.in.Fd()))
		if err != nil {
			t.guard.Store(false)
			return nil, fmt.Errorf("%w: %w", shared.ErrTerminalSetup, err)
		}
		s.state = state
	}
	if err := t.surface.HideCursor(); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %w", shared.ErrTerminalSetup, err)
	}
	t.logger.Debug("terminal session acquired", "raw", s.state != nil)
	return s, nil
}

// Session is an exclusive hold on a [Terminal].
type Session struct {
	t     *Terminal
	state *term.State
	once  sync.Once
	err   error
}

func (s *Session) Keys() *KeyReader  { return s.t.keys }
func (s *Session) Surface() *Surface { return s.t.surface }

// Close shows the cursor, restores the previous input mode and releases the terminal. It is safe to
// call more than once; later calls return the first result.
func (s *Session) Close() error {
	s.once.Do(func() {
		errs := []error{s.t.surface.ShowCursor()}
		if s.state != nil {
			errs = append(errs, term.Restore(int(s.t.in.Fd()), s.state))
		}
		s.t.guard.Store(false)
		s.err = errors.Join(errs...)
		s.t.logger.Debug("terminal session released", "err", s.err)
	})
	return s.err
}
