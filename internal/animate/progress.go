package animate

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/terminal"
	"github.com/desertthunder/termkit/internal/ui"
	"golang.org/x/time/rate"
)

const (
	DefaultBarWidth   = 30
	DefaultComplete   = "█"
	DefaultIncomplete = "░"
	DefaultFormat     = "[:bar] :percent :elapsed/:eta"
)

// ProgressOptions configures a [ProgressBar]. Format may use the tokens :bar :percent :current :total
// :elapsed and :eta.
type ProgressOptions struct {
	Total           int
	Width           int
	Complete        string
	Incomplete      string
	Format          string
	ClearOnComplete bool
	MaxFPS          float64 // caps intermediate redraws; zero redraws on every update
}

// ProgressBar renders completion of a known total. It never advances on its own.
type ProgressBar struct {
	mu      sync.Mutex
	surface *terminal.Surface
	opts    ProgressOptions
	limiter *rate.Limiter
	now     func() time.Time
	start   time.Time
	current int
	drawn   bool
	done    bool
}

func NewProgressBar(w io.Writer, opts ProgressOptions) (*ProgressBar, error) {
	if opts.Total <= 0 {
		return nil, fmt.Errorf("%w: progress total must be positive, got %d", shared.ErrInvalidArgument, opts.Total)
	}
	if opts.Width < 0 || opts.MaxFPS < 0 {
		return nil, fmt.Errorf("%w: progress width and max fps cannot be negative", shared.ErrInvalidArgument)
	}
	if opts.Width == 0 {
		opts.Width = DefaultBarWidth
	}
	if opts.Complete == "" {
		opts.Complete = DefaultComplete
	}
	if opts.Incomplete == "" {
		opts.Incomplete = DefaultIncomplete
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}

	p := &ProgressBar{surface: terminal.NewSurface(w, nil), opts: opts, now: time.Now}
	if opts.MaxFPS > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(opts.MaxFPS), 1)
	}
	return p, nil
}

// Update sets the current count, clamped to [0, total], and redraws. Updates after completion are ignored.
func (p *ProgressBar) Update(current int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.update(current)
}

// Increment adds n to the current count.
func (p *ProgressBar) Increment(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.update(p.current + n)
}

func (p *ProgressBar) update(current int) error {
	if p.done {
		return nil
	}
	if p.start.IsZero() {
		p.start = p.now()
	}
	p.current = max(0, min(current, p.opts.Total))

	final := p.current == p.opts.Total
	allowed := p.limiter == nil || p.limiter.Allow()
	if p.drawn && !final && !allowed {
		return nil
	}

	if err := p.surface.Paint([]string{p.render()}); err != nil {
		return err
	}
	p.drawn = true
	if !final {
		return nil
	}

	p.done = true
	if p.opts.ClearOnComplete {
		return p.surface.Clear()
	}
	return p.surface.Commit()
}

// Finish ends the bar at its current count when the work stopped short of the total. The last frame stays on screen
// unless ClearOnComplete is set.
func (p *ProgressBar) Finish() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return nil
	}
	p.done = true
	if !p.drawn {
		return nil
	}
	if p.opts.ClearOnComplete {
		return p.surface.Clear()
	}
	if err := p.surface.Paint([]string{p.render()}); err != nil {
		return err
	}
	return p.surface.Commit()
}

func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Done reports whether the bar has reached its total.
func (p *ProgressBar) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// String renders the bar without drawing it.
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render()
}

func (p *ProgressBar) render() string {
	var elapsed time.Duration
	if !p.start.IsZero() {
		elapsed = p.now().Sub(p.start)
	}
	return Render(p.opts, p.current, elapsed)
}

// Render formats a bar for current out of opts.Total after elapsed time. A non-positive total renders as empty.
func Render(opts ProgressOptions, current int, elapsed time.Duration) string {
	width := max(0, opts.Width)
	var ratio float64
	if opts.Total > 0 {
		ratio = float64(current) / float64(opts.Total)
	}
	complete := int(math.Round(ratio * float64(width)))
	complete = max(0, min(complete, width))
	percent := int(math.Floor(ratio * 100))

	eta := "--:--"
	if current > 0 && opts.Total > 0 {
		remaining := time.Duration(float64(elapsed) * float64(opts.Total-current) / float64(current))
		eta = clock(remaining)
	}

	bar := strings.Repeat(opts.Complete, complete) + strings.Repeat(opts.Incomplete, width-complete)
	return ui.Sanitize(strings.NewReplacer(
		":bar", bar,
		":percent", strconv.Itoa(percent)+"%",
		":current", strconv.Itoa(current),
		":total", strconv.Itoa(opts.Total),
		":elapsed", clock(elapsed),
		":eta", eta,
	).Replace(opts.Format))
}

// clock formats d as m:ss.
func clock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
