package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the [key.Binding] mapping shared by every prompt. Bindings a prompt does not use are disabled
// so they drop out of its help line.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Accept key.Binding
	Erase  key.Binding
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

func newKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/ctrl+p", "up")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓/ctrl+n", "down")),
		Toggle: key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Erase:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "erase")),
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// SelectKeyMap returns the bindings for a selector. Toggle is only enabled for multi-select.
func SelectKeyMap(multi bool) KeyMap {
	k := newKeyMap()
	k.Toggle.SetEnabled(multi)
	k.Yes.SetEnabled(false)
	k.No.SetEnabled(false)
	if multi {
		k.Accept.SetHelp("enter", "confirm")
	}
	return k
}

// InputKeyMap returns the bindings for a text prompt.
func InputKeyMap() KeyMap {
	k := newKeyMap()
	for _, b := range []*key.Binding{&k.Up, &k.Down, &k.Toggle, &k.Yes, &k.No} {
		b.SetEnabled(false)
	}
	k.Accept.SetHelp("enter", "submit")
	return k
}

// ConfirmKeyMap returns the bindings for a yes/no prompt.
func ConfirmKeyMap() KeyMap {
	k := newKeyMap()
	for _, b := range []*key.Binding{&k.Up, &k.Down, &k.Toggle, &k.Erase} {
		b.SetEnabled(false)
	}
	k.Accept.SetHelp("enter", "default")
	return k
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Yes, k.No, k.Accept, k.Cancel}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Yes, k.No, k.Erase},
		{k.Accept, k.Cancel},
	}
}
