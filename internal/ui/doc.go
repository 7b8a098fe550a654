// Package ui holds the presentation pieces shared by prompts and animations.
//
// A [Theme] is a lipgloss stylesheet bound to a single output through its own renderer, so disabling color in the
// config (or writing to a pipe) renders every style as plain text. Themes also render candidate rows with fuzzy
// match highlighting and final status lines (✓ ✖ ⚠ ℹ).
//
// [KeyMap] defines the key bindings every prompt uses, with help text rendered through charmbracelet/bubbles/help.
package ui
