package prompt

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/termkit/internal/terminal"
	"github.com/desertthunder/termkit/internal/ui"
)

// Confirm asks a yes/no question. Enter picks def.
func (c *Console) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	w := &confirm{c: c, keys: ui.ConfirmKeyMap(), message: message, def: def}
	if err := c.run(ctx, message, w); err != nil {
		return false, err
	}
	return w.value, nil
}

type confirm struct {
	c       *Console
	keys    ui.KeyMap
	message string
	def     bool
	value   bool
}

func (w *confirm) handle(k terminal.Key) outcome {
	switch {
	case key.Matches(k, w.keys.Cancel):
		return cancelled
	case key.Matches(k, w.keys.Yes):
		w.value = true
	case key.Matches(k, w.keys.No):
		w.value = false
	case key.Matches(k, w.keys.Accept):
		w.value = w.def
	default:
		return active
	}
	return resolved
}

func (w *confirm) view(int, int) []string {
	hint := "(y/N)"
	if w.def {
		hint = "(Y/n)"
	}
	return []string{w.c.header(w.message) + " " + w.c.theme.Muted.Render(hint), w.c.helpView(w.keys)}
}

func (w *confirm) answer() string {
	if w.value {
		return "yes"
	}
	return "no"
}
