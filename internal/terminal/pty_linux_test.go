//go:build linux

package terminal

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func openPTY(t *testing.T) (ptmx, tty *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ptmx.Close()
	})
	return ptmx, tty
}

func termios(t *testing.T, f *os.File) *unix.Termios {
	t.Helper()
	tios, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	require.NoError(t, err)
	return tios
}

func isRaw(tios *unix.Termios) bool {
	return tios.Lflag&(unix.ICANON|unix.ECHO) == 0
}

func TestPTYSession(t *testing.T) {
	t.Run("raw mode is entered and restored", func(t *testing.T) {
		_, tty := openPTY(t)
		var out strings.Builder
		term, err := Open(tty, &out)
		require.NoError(t, err)
		defer term.Close()

		require.False(t, isRaw(termios(t, tty)))

		s, err := term.Acquire()
		require.NoError(t, err)
		assert.True(t, isRaw(termios(t, tty)))

		require.NoError(t, s.Close())
		assert.False(t, isRaw(termios(t, tty)))
	})

	t.Run("restored on panic", func(t *testing.T) {
		_, tty := openPTY(t)
		term, err := Open(tty, &strings.Builder{})
		require.NoError(t, err)
		defer term.Close()

		func() {
			defer func() { _ = recover() }()
			s, err := term.Acquire()
			require.NoError(t, err)
			defer s.Close()
			panic("widget failure")
		}()

		assert.False(t, isRaw(termios(t, tty)))
	})

	t.Run("real terminals share one guard", func(t *testing.T) {
		_, ttyA := openPTY(t)
		_, ttyB := openPTY(t)
		a, err := Open(ttyA, &strings.Builder{})
		require.NoError(t, err)
		defer a.Close()
		b, err := Open(ttyB, &strings.Builder{})
		require.NoError(t, err)
		defer b.Close()

		s, err := a.Acquire()
		require.NoError(t, err)
		defer s.Close()

		_, err = b.Acquire()
		assert.True(t, errors.Is(err, shared.ErrTerminalBusy))
	})

	t.Run("keys arrive immediately in raw mode", func(t *testing.T) {
		ptmx, tty := openPTY(t)
		term, err := Open(tty, &strings.Builder{})
		require.NoError(t, err)
		defer term.Close()

		s, err := term.Acquire()
		require.NoError(t, err)
		defer s.Close()

		_, err = ptmx.Write([]byte("\x1b[Bz"))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		k, err := s.Keys().ReadKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, KeyDown, k.Kind)

		k, err = s.Keys().ReadKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, Key{Kind: KeyRune, Rune: 'z'}, k)
	})

	t.Run("size is read from the tty", func(t *testing.T) {
		ptmx, tty := openPTY(t)
		require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 100}))
		term, err := Open(tty, &strings.Builder{})
		require.NoError(t, err)
		defer term.Close()

		assert.Equal(t, 100, term.Width())
		assert.Equal(t, 24, term.Height())
	})

	t.Run("cancellation unblocks a pending read", func(t *testing.T) {
		_, tty := openPTY(t)
		term, err := Open(tty, &strings.Builder{})
		require.NoError(t, err)
		defer term.Close()

		s, err := term.Acquire()
		require.NoError(t, err)
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = s.Keys().ReadKey(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
