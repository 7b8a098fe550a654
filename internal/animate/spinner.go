package animate

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/terminal"
	"github.com/desertthunder/termkit/internal/ui"
)

var presets = map[string]spinner.Spinner{
	"line":      spinner.Line,
	"dot":       spinner.Dot,
	"minidot":   spinner.MiniDot,
	"jump":      spinner.Jump,
	"pulse":     spinner.Pulse,
	"points":    spinner.Points,
	"globe":     spinner.Globe,
	"moon":      spinner.Moon,
	"monkey":    spinner.Monkey,
	"meter":     spinner.Meter,
	"hamburger": spinner.Hamburger,
}

// Preset returns the named frame set from charmbracelet/bubbles/spinner.
func Preset(name string) (spinner.Spinner, error) {
	s, ok := presets[name]
	if !ok {
		return spinner.Spinner{}, fmt.Errorf("%w: unknown spinner style %q", shared.ErrInvalidArgument, name)
	}
	return s, nil
}

// SpinnerOptions configures a [Spinner]. Zero values fall back to the minidot preset.
type SpinnerOptions struct {
	Frames   []string
	Interval time.Duration
	Theme    *ui.Theme
	Width    func() int // terminal width for truncation; nil disables it
}

// Spinner animates a frame and a label on one line until it is stopped.
type Spinner struct {
	mu       sync.Mutex
	surface  *terminal.Surface
	theme    *ui.Theme
	frames   []string
	interval time.Duration
	label    string
	frame    int
	running  bool
	stop     chan struct{}
	done     chan struct{}
}

func NewSpinner(w io.Writer, opts SpinnerOptions) *Spinner {
	if len(opts.Frames) == 0 {
		opts.Frames = spinner.MiniDot.Frames
	}
	if opts.Interval <= 0 {
		opts.Interval = 80 * time.Millisecond
	}
	if opts.Theme == nil {
		opts.Theme = ui.PlainTheme(w)
	}
	return &Spinner{
		surface:  terminal.NewSurface(w, opts.Width),
		theme:    opts.Theme,
		frames:   opts.Frames,
		interval: opts.Interval,
	}
}

// Start begins animating with label. Starting a running spinner only changes its label.
func (s *Spinner) Start(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.label = label
	if s.running {
		return s.paint()
	}

	if err := s.surface.HideCursor(); err != nil {
		return err
	}
	s.running = true
	s.frame = 0
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
	return s.paint()
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.running {
				s.frame = (s.frame + 1) % len(s.frames)
				s.paint()
			}
			s.mu.Unlock()
		}
	}
}

// paint draws the current frame. Callers hold mu.
func (s *Spinner) paint() error {
	line := s.theme.Prompt.Render(s.frames[s.frame])
	if s.label != "" {
		line += " " + ui.Sanitize(s.label)
	}
	return s.surface.Paint([]string{line})
}

// SetLabel changes the text shown next to the frame.
func (s *Spinner) SetLabel(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.label = label
	if !s.running {
		return nil
	}
	return s.paint()
}

func (s *Spinner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// halt stops the ticker and waits for it to exit. It reports whether the spinner was running.
func (s *Spinner) halt() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	return true
}

// Stop erases the spinner line. Stopping a spinner that is not running does nothing.
func (s *Spinner) Stop() error {
	if !s.halt() {
		return nil
	}
	if err := s.surface.Clear(); err != nil {
		return err
	}
	return s.surface.ShowCursor()
}

func (s *Spinner) Succeed(msg string) error { return s.finish(ui.StatusSuccess, msg) }
func (s *Spinner) Fail(msg string) error    { return s.finish(ui.StatusError, msg) }
func (s *Spinner) Warn(msg string) error    { return s.finish(ui.StatusWarning, msg) }
func (s *Spinner) Info(msg string) error    { return s.finish(ui.StatusInfo, msg) }

// finish stops the spinner and replaces its line with a status glyph and msg. An empty msg keeps the label.
func (s *Spinner) finish(status ui.Status, msg string) error {
	wasRunning := s.halt()

	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		msg = s.label
	}
	if err := s.surface.Paint([]string{s.theme.Status(status, msg)}); err != nil {
		return err
	}
	if err := s.surface.Commit(); err != nil {
		return err
	}
	if wasRunning {
		return s.surface.ShowCursor()
	}
	return nil
}
