package prompt

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/termkit/internal/terminal"
	"github.com/desertthunder/termkit/internal/ui"
)

const DefaultMask = '*'

// InputOptions configures [Console.Input].
type InputOptions struct {
	Message     string
	Initial     string
	Placeholder string
	Required    bool
	Validate    func(string) error // a non-nil error is shown inline and the prompt stays open
	Mask        rune               // when set, typed characters are echoed as Mask
}

// Input asks for a line of text.
func (c *Console) Input(ctx context.Context, opts InputOptions) (string, error) {
	w := &input{c: c, keys: ui.InputKeyMap(), opts: opts, value: []rune(opts.Initial)}
	if err := c.run(ctx, opts.Message, w); err != nil {
		return "", err
	}
	return string(w.value), nil
}

// Password asks for a line of text without echoing it.
func (c *Console) Password(ctx context.Context, opts InputOptions) (string, error) {
	if opts.Mask == 0 {
		opts.Mask = DefaultMask
	}
	return c.Input(ctx, opts)
}

type input struct {
	c     *Console
	keys  ui.KeyMap
	opts  InputOptions
	value []rune
	err   string
}

func (w *input) handle(k terminal.Key) outcome {
	switch {
	case key.Matches(k, w.keys.Cancel):
		return cancelled
	case key.Matches(k, w.keys.Accept):
		v := string(w.value)
		if w.opts.Required && strings.TrimSpace(v) == "" {
			w.err = "a value is required"
			return active
		}
		if w.opts.Validate != nil {
			if err := w.opts.Validate(v); err != nil {
				w.err = err.Error()
				return active
			}
		}
		return resolved
	case key.Matches(k, w.keys.Erase):
		if len(w.value) > 0 {
			w.value = w.value[:len(w.value)-1]
			w.err = ""
		}
	default:
		if r, ok := k.Text(); ok {
			w.value = append(w.value, r)
			w.err = ""
		}
	}
	return active
}

func (w *input) display() string {
	if w.opts.Mask != 0 {
		return strings.Repeat(string(w.opts.Mask), len(w.value))
	}
	return string(w.value)
}

func (w *input) view(int, int) []string {
	t := w.c.theme
	field := ui.Sanitize(w.display())
	if len(w.value) == 0 && w.opts.Placeholder != "" {
		field = t.Muted.Render(ui.Sanitize(w.opts.Placeholder))
	}

	status := w.c.helpView(w.keys)
	if w.err != "" {
		status = t.Status(ui.StatusError, w.err)
	}
	return []string{w.c.header(w.opts.Message) + " " + t.Muted.Render("›") + " " + field, status}
}

func (w *input) answer() string { return ui.Sanitize(w.display()) }
