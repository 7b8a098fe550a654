package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"
)

type keyName string

func (k keyName) String() string { return string(k) }

func TestTheme(t *testing.T) {
	var b strings.Builder
	theme := PlainTheme(&b)

	t.Run("Status", func(t *testing.T) {
		tc := []struct {
			status Status
			want   string
		}{
			{StatusSuccess, "✓ done"},
			{StatusError, "✖ done"},
			{StatusWarning, "⚠ done"},
			{StatusInfo, "ℹ done"},
		}
		for _, tt := range tc {
			t.Run(tt.want, func(t *testing.T) {
				if got := ansi.Strip(theme.Status(tt.status, "done")); got != tt.want {
					t.Errorf("Status() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("Highlight keeps text intact", func(t *testing.T) {
		got := ansi.Strip(theme.Highlight("feature/login", []int{0, 1, 2, 3}, theme.Muted))
		if got != "feature/login" {
			t.Errorf("Highlight() = %q", got)
		}
	})

	t.Run("Highlight ignores out of range positions", func(t *testing.T) {
		got := ansi.Strip(theme.Highlight("ab", []int{5}, theme.Muted))
		if got != "ab" {
			t.Errorf("Highlight() = %q", got)
		}
	})
}

func TestRenderRow(t *testing.T) {
	theme := PlainTheme(&strings.Builder{})

	tc := []struct {
		name  string
		row   Row
		width int
		want  string
	}{
		{name: "plain", row: Row{Label: "main"}, want: "  main"},
		{name: "highlighted", row: Row{Label: "main", Highlighted: true}, want: "❯ main"},
		{name: "unchecked", row: Row{Label: "a", Checkbox: true}, want: "  ◯ a"},
		{name: "checked", row: Row{Label: "a", Checkbox: true, Checked: true, Highlighted: true}, want: "❯ ◉ a"},
		{name: "truncated", row: Row{Label: "a very long branch name"}, width: 12, want: "  a ver…"},
		{name: "control characters", row: Row{Label: "one\ntwo\r\x1b[2J"}, want: "  one\uFFFDtwo\uFFFD\uFFFD[2J"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ansi.Strip(theme.RenderRow(tt.row, tt.width)); got != tt.want {
				t.Errorf("RenderRow() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderRowMatches(t *testing.T) {
	theme := PlainTheme(&strings.Builder{})
	theme.Match = theme.Match.Transform(func(s string) string { return "[" + s + "]" })

	tc := []struct {
		name      string
		label     string
		positions []int
		width     int
		want      string
	}{
		{name: "untruncated", label: "abcdef", positions: []int{0, 3}, want: "  [a]bc[d]ef"},
		{name: "position at cut is dropped", label: "abcdefghij", positions: []int{0, 3}, width: 10, want: "  [a]bc…"},
		{name: "positions past cut are dropped", label: "abcdefghij", positions: []int{1, 8, 9}, width: 10, want: "  a[b]c…"},
		{name: "positions survive sanitizing", label: "a\tbc", positions: []int{2}, want: "  a\uFFFD[b]c"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(theme.RenderRow(Row{Label: tt.label, Positions: tt.positions}, tt.width))
			if got != tt.want {
				t.Errorf("RenderRow() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{"main", "main"},
		{"a…b", "a…b"},
		{"one\ntwo", "one\uFFFDtwo"},
		{"\x1b[31mred", "\uFFFD[31mred"},
		{"c1\u0085end", "c1\uFFFDend"},
		{"bad\xffbyte", "bad\uFFFDbyte"},
	}

	for _, tt := range tc {
		t.Run(tt.want, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if utf8.RuneCountInString(got) != utf8.RuneCountInString(tt.in) {
				t.Errorf("Sanitize(%q) changed the rune count", tt.in)
			}
		})
	}

	t.Run("status message", func(t *testing.T) {
		got := ansi.Strip(PlainTheme(&strings.Builder{}).Status(StatusInfo, "a\nb"))
		if got != "ℹ a\uFFFDb" {
			t.Errorf("Status() = %q", got)
		}
	})
}

func TestKeyMaps(t *testing.T) {
	t.Run("toggle only in multi-select", func(t *testing.T) {
		if key.Matches(keyName("space"), SelectKeyMap(false).Toggle) {
			t.Error("single select should not toggle")
		}
		if !key.Matches(keyName("space"), SelectKeyMap(true).Toggle) {
			t.Error("multi select should toggle")
		}
	})

	t.Run("cancel matches escape and interrupt", func(t *testing.T) {
		km := InputKeyMap()
		for _, k := range []string{"esc", "ctrl+c"} {
			if !key.Matches(keyName(k), km.Cancel) {
				t.Errorf("%s should cancel", k)
			}
		}
	})

	t.Run("confirm answers", func(t *testing.T) {
		km := ConfirmKeyMap()
		if !key.Matches(keyName("Y"), km.Yes) || !key.Matches(keyName("n"), km.No) {
			t.Error("confirm should accept y and n")
		}
		if key.Matches(keyName("up"), km.Up) {
			t.Error("confirm should not navigate")
		}
	})

	t.Run("help hides disabled bindings", func(t *testing.T) {
		theme := PlainTheme(&strings.Builder{})
		h := theme.HelpModel()
		view := ansi.Strip(h.View(SelectKeyMap(false)))
		if strings.Contains(view, "toggle") {
			t.Errorf("single select help mentions toggle: %q", view)
		}
		if !strings.Contains(view, "cancel") {
			t.Errorf("help should mention cancel: %q", view)
		}
	})
}
