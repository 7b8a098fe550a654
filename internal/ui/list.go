package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	pointer      = "❯"
	checked      = "◉"
	unchecked    = "◯"
	ellipsis     = "…"
	rowDecorCols = 6
)

// Row describes one visible candidate line.
type Row struct {
	Label       string
	Positions   []int // rune offsets into Label to highlight
	Highlighted bool
	Checkbox    bool // multi-select rows carry a checkbox
	Checked     bool
}

// RenderRow draws a candidate line, truncating the label to width cells when width is positive.
func (t *Theme) RenderRow(row Row, width int) string {
	var b strings.Builder
	if row.Highlighted {
		b.WriteString(t.Pointer.Render(pointer))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(" ")

	if row.Checkbox {
		if row.Checked {
			b.WriteString(t.Selected.Render(checked))
		} else {
			b.WriteString(t.Muted.Render(unchecked))
		}
		b.WriteString(" ")
	}

	label := Sanitize(row.Label)
	positions := row.Positions
	if width > rowDecorCols && runewidth.StringWidth(label) > width-rowDecorCols {
		label = runewidth.Truncate(label, width-rowDecorCols, ellipsis)
		positions = positionsBefore(positions, utf8.RuneCountInString(label)-1)
	}

	base := t.r.NewStyle()
	if row.Highlighted {
		base = t.Pointer.UnsetBold()
	}
	b.WriteString(t.Highlight(label, positions, base))
	return b.String()
}

// Highlight renders s with base, and the runes at positions with the match style. Positions past the end of s
// are ignored.
func (t *Theme) Highlight(s string, positions []int, base lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(s)
	}

	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	var b, run strings.Builder
	inMatch := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if inMatch {
			b.WriteString(t.Match.Render(run.String()))
		} else {
			b.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}

	i := 0
	for _, r := range s {
		if matched[i] != inMatch {
			flush()
			inMatch = matched[i]
		}
		run.WriteRune(r)
		i++
	}
	flush()
	return b.String()
}

// Sanitize replaces control characters with U+FFFD so user text cannot move the cursor or add screen lines.
// The result has the same rune count as s, keeping match positions valid.
func Sanitize(s string) string {
	clean := true
	for _, r := range s {
		if r == utf8.RuneError || unicode.IsControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return utf8.RuneError
		}
		return r
	}, s)
}

// positionsBefore drops positions at or past cut.
func positionsBefore(positions []int, cut int) []int {
	kept := make([]int, 0, len(positions))
	for _, p := range positions {
		if p < cut {
			kept = append(kept, p)
		}
	}
	return kept
}
