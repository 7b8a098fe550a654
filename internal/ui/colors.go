package ui

import (
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/muesli/termenv"
)

// Status is the outcome an animation or prompt finishes with.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
	StatusWarning
	StatusInfo
)

// Symbol returns the glyph printed in front of a final status line.
func (s Status) Symbol() string {
	switch s {
	case StatusSuccess:
		return "✓"
	case StatusError:
		return "✖"
	case StatusWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Theme is a stylesheet of named [lipgloss.Style] fields bound to one output.
type Theme struct {
	r        *lipgloss.Renderer
	Title    lipgloss.Style
	Prompt   lipgloss.Style
	Pointer  lipgloss.Style
	Match    lipgloss.Style
	Selected lipgloss.Style
	Answer   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
}

// NewTheme builds a theme for w from cfg. When color is off, or w is not a color terminal, styles render as plain text.
func NewTheme(w io.Writer, cfg shared.ThemeConfig) *Theme {
	r := lipgloss.NewRenderer(w)
	if !cfg.Color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Theme{
		r:        r,
		Title:    NewBold(r, cfg.Accent),
		Prompt:   NewStyle(r, cfg.Accent),
		Pointer:  NewBold(r, cfg.Accent),
		Match:    NewBold(r, cfg.Match).Underline(true),
		Selected: NewStyle(r, cfg.Success),
		Answer:   NewStyle(r, cfg.Info),
		Muted:    NewStyle(r, cfg.Muted),
		Help:     NewEm(r, cfg.Muted),
		Success:  NewBold(r, cfg.Success),
		Error:    NewBold(r, cfg.Error),
		Warning:  NewStyle(r, cfg.Warning),
		Info:     NewStyle(r, cfg.Info),
	}
}

// PlainTheme builds a theme that never emits escape sequences.
func PlainTheme(w io.Writer) *Theme {
	cfg := shared.DefaultConfig().Theme
	cfg.Color = false
	return NewTheme(w, cfg)
}

// Status renders a final status line: colored glyph then message.
func (t *Theme) Status(s Status, msg string) string {
	var style lipgloss.Style
	switch s {
	case StatusSuccess:
		style = t.Success
	case StatusError:
		style = t.Error
	case StatusWarning:
		style = t.Warning
	default:
		style = t.Info
	}
	return style.Render(s.Symbol()) + " " + Sanitize(msg)
}

// HelpModel returns a [help.Model] styled to match the theme.
func (t *Theme) HelpModel() help.Model {
	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = t.Muted
	h.Styles.ShortDesc = t.Help
	h.Styles.ShortSeparator = t.Muted
	h.Styles.FullKey = t.Muted
	h.Styles.FullDesc = t.Help
	h.Styles.FullSeparator = t.Muted
	h.Styles.Ellipsis = t.Muted
	return h
}

func NewStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Bold(true)
}

func NewEm(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Italic(true)
}
