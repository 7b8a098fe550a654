package terminal

import (
	"unicode"
	"unicode/utf8"
)

// KeyKind is the closed set of keys widgets react to.
type KeyKind int

const (
	KeyUnknown KeyKind = iota
	KeyRune
	KeyBackspace
	KeyEnter
	KeyUp
	KeyDown
	KeySpace
	KeyEscape
	KeyInterrupt
)

// Key is a decoded keystroke. Rune is only set for [KeyRune].
type Key struct {
	Kind KeyKind
	Rune rune
}

// String returns the binding name used by key maps.
func (k Key) String() string {
	switch k.Kind {
	case KeyRune:
		return string(k.Rune)
	case KeyBackspace:
		return "backspace"
	case KeyEnter:
		return "enter"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeySpace:
		return "space"
	case KeyEscape:
		return "esc"
	case KeyInterrupt:
		return "ctrl+c"
	default:
		return "unknown"
	}
}

// Text returns the characters a key inserts into a text field, if any.
func (k Key) Text() (rune, bool) {
	switch k.Kind {
	case KeyRune:
		return k.Rune, true
	case KeySpace:
		return ' ', true
	default:
		return 0, false
	}
}

const (
	esc       = 0x1b
	ctrlC     = 0x03
	ctrlH     = 0x08
	ctrlN     = 0x0e
	ctrlP     = 0x10
	del       = 0x7f
	csiPrefix = '['
	ss3Prefix = 'O'
)

// decode reads one key from the front of b and returns it with the number of bytes consumed.
// It returns n == 0 when b holds an incomplete sequence and more input may follow. When final is
// set no more input will arrive, so incomplete sequences are consumed as [KeyUnknown].
func decode(b []byte, final bool) (Key, int) {
	if len(b) == 0 {
		return Key{}, 0
	}

	switch c := b[0]; {
	case c == esc:
		return decodeEscape(b, final)
	case c == '\r' || c == '\n':
		return Key{Kind: KeyEnter}, 1
	case c == del || c == ctrlH:
		return Key{Kind: KeyBackspace}, 1
	case c == ctrlC:
		return Key{Kind: KeyInterrupt}, 1
	case c == ctrlP:
		return Key{Kind: KeyUp}, 1
	case c == ctrlN:
		return Key{Kind: KeyDown}, 1
	case c == ' ':
		return Key{Kind: KeySpace}, 1
	case c < 0x20:
		return Key{Kind: KeyUnknown}, 1
	}

	if !utf8.FullRune(b) {
		if final {
			return Key{Kind: KeyUnknown}, len(b)
		}
		return Key{}, 0
	}

	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return Key{Kind: KeyUnknown}, size
	}
	return Key{Kind: KeyRune, Rune: r}, size
}

// decodeEscape handles input starting with ESC. A lone ESC at the end of the available input is the
// escape key since a terminal delivers a whole escape sequence in one write.
func decodeEscape(b []byte, final bool) (Key, int) {
	if len(b) == 1 {
		return Key{Kind: KeyEscape}, 1
	}

	switch b[1] {
	case csiPrefix:
		for i := 2; i < len(b); i++ {
			c := b[i]
			if c >= 0x40 && c <= 0x7e {
				switch c {
				case 'A':
					return Key{Kind: KeyUp}, i + 1
				case 'B':
					return Key{Kind: KeyDown}, i + 1
				default:
					return Key{Kind: KeyUnknown}, i + 1
				}
			}
			if c < 0x20 || c > 0x3f {
				return Key{Kind: KeyUnknown}, i
			}
		}
	case ss3Prefix:
		if len(b) >= 3 {
			switch b[2] {
			case 'A':
				return Key{Kind: KeyUp}, 3
			case 'B':
				return Key{Kind: KeyDown}, 3
			default:
				return Key{Kind: KeyUnknown}, 3
			}
		}
	default:
		return Key{Kind: KeyEscape}, 1
	}

	if final {
		return Key{Kind: KeyUnknown}, len(b)
	}
	return Key{}, 0
}
