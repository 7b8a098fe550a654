package terminal

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Surface redraws a block of lines in place. It remembers the height of the last frame so the
// next paint can move back to its first line.
type Surface struct {
	mu    sync.Mutex
	w     io.Writer
	width func() int
	lines int
}

// NewSurface renders to w. width reports the terminal width in cells; zero disables truncation.
func NewSurface(w io.Writer, width func() int) *Surface {
	if width == nil {
		width = func() int { return 0 }
	}
	return &Surface{w: w, width: width}
}

// Paint replaces the previous frame with lines.
func (s *Surface) Paint(lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString(s.rewind())
	width := s.width()
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		if width > 0 && ansi.StringWidth(line) > width {
			line = ansi.Truncate(line, width, "")
		}
		b.WriteString(line)
	}
	s.lines = len(lines)
	_, err := io.WriteString(s.w, b.String())
	return err
}

// Clear erases the previous frame and leaves the cursor where it started.
func (s *Surface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.rewind()
	s.lines = 0
	if seq == "" {
		return nil
	}
	_, err := io.WriteString(s.w, seq)
	return err
}

// Commit keeps the current frame on screen and starts the next paint on a fresh line.
func (s *Surface) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lines == 0 {
		return nil
	}
	s.lines = 0
	_, err := io.WriteString(s.w, "\r\n")
	return err
}

// Lines reports the height of the frame currently on screen.
func (s *Surface) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

func (s *Surface) HideCursor() error {
	_, err := io.WriteString(s.w, ansi.HideCursor)
	return err
}

func (s *Surface) ShowCursor() error {
	_, err := io.WriteString(s.w, ansi.ShowCursor)
	return err
}

// rewind returns the sequence moving to the first column of the previous frame and erasing it.
func (s *Surface) rewind() string {
	switch {
	case s.lines == 0:
		return ""
	case s.lines == 1:
		return "\r" + ansi.EraseScreenBelow
	default:
		return "\r" + ansi.CursorUp(s.lines-1) + ansi.EraseScreenBelow
	}
}
