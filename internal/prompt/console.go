package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/terminal"
	"github.com/desertthunder/termkit/internal/ui"
)

// outcome is the state a widget is in after handling a key.
type outcome int

const (
	active outcome = iota
	resolved
	cancelled
)

// widget is a prompt state machine. The console owns the terminal; widgets only render and react.
type widget interface {
	view(width, height int) []string
	handle(k terminal.Key) outcome
	answer() string
}

// Console runs prompts against a terminal.
type Console struct {
	term   *terminal.Terminal
	theme  *ui.Theme
	help   help.Model
	logger *log.Logger
}

// NewConsole creates a console. A nil theme renders plain text, a nil logger discards.
func NewConsole(t *terminal.Terminal, theme *ui.Theme, logger *log.Logger) *Console {
	if theme == nil {
		theme = ui.PlainTheme(t.Writer())
	}
	if logger == nil {
		logger = shared.NewDiscardLogger()
	}
	return &Console{term: t, theme: theme, help: theme.HelpModel(), logger: logger}
}

// Terminal returns the terminal the console prompts on.
func (c *Console) Terminal() *terminal.Terminal { return c.term }

// run drives w until it resolves or is cancelled. The session is released on every return path.
func (c *Console) run(ctx context.Context, message string, w widget) (err error) {
	s, err := c.term.Acquire()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	surface := s.Surface()
	for {
		if err := surface.Paint(w.view(c.term.Width(), c.term.Height())); err != nil {
			return err
		}

		k, err := s.Keys().ReadKey(ctx)
		if err != nil {
			surface.Clear()
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				c.logger.Debug("prompt aborted", "message", message, "err", err)
				return fmt.Errorf("%w: %w", shared.ErrCancelled, err)
			}
			return err
		}

		switch w.handle(k) {
		case resolved:
			if err := surface.Paint([]string{c.summary(message, w.answer())}); err != nil {
				return err
			}
			return surface.Commit()
		case cancelled:
			c.logger.Debug("prompt cancelled", "message", message, "key", k)
			if err := surface.Clear(); err != nil {
				return errors.Join(shared.ErrCancelled, err)
			}
			return shared.ErrCancelled
		}
	}
}

// summary is the line left on screen once a prompt resolves.
func (c *Console) summary(message, answer string) string {
	return c.header(message) + " " + c.theme.Muted.Render("›") + " " + c.theme.Answer.Render(answer)
}

func (c *Console) header(message string) string {
	return c.theme.Prompt.Render("?") + " " + c.theme.Title.Render(ui.Sanitize(message))
}

func (c *Console) helpView(k ui.KeyMap) string {
	return c.help.ShortHelpView(k.ShortHelp())
}

// joinStatus joins the non-empty parts of a status line.
func joinStatus(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "  ")
}
