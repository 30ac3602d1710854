// Package keys models terminal key presses and decodes them from raw input bytes.
package keys

import (
	"strings"
	"unicode"
)

// Modifier is a set of modifier flags held with a key.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModMeta  Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// Name identifies a non-character key.
type Name uint8

const (
	NameNone Name = iota // character key, see Key.Rune
	Up
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown
	Insert
	Delete
	Backspace
	Enter
	Tab
	BackTab
	Esc
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
)

var names = [...]string{
	NameNone:  "",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
	Home:      "home",
	End:       "end",
	PageUp:    "pageup",
	PageDown:  "pagedown",
	Insert:    "insert",
	Delete:    "delete",
	Backspace: "backspace",
	Enter:     "enter",
	Tab:       "tab",
	BackTab:   "backtab",
	Esc:       "esc",
	F1:        "f1",
	F2:        "f2",
	F3:        "f3",
	F4:        "f4",
	F5:        "f5",
	F6:        "f6",
	F7:        "f7",
	F8:        "f8",
	F9:        "f9",
	F10:       "f10",
	F11:       "f11",
	F12:       "f12",
}

func (n Name) String() string {
	if int(n) < len(names) {
		return names[n]
	}
	return "unknown"
}

// Key is a single key press. Keys compare structurally and can be used as map keys.
// Ctrl keys carry the lower-case letter they were typed with.
type Key struct {
	Mod  Modifier
	Rune rune
	Name Name
}

// Char returns the key for an unmodified character.
func Char(r rune) Key { return Key{Rune: r} }

// Ctrl returns the key for Ctrl held with r.
func Ctrl(r rune) Key { return Key{Mod: ModCtrl, Rune: unicode.ToLower(r)} }

// Meta returns k with the Meta (Alt) modifier added.
func Meta(k Key) Key {
	k.Mod |= ModMeta
	return k
}

// Named returns the key for a named key without modifiers.
func Named(n Name) Key { return Key{Name: n} }

// IsChar reports whether k is a plain printable character.
func (k Key) IsChar() bool {
	return k.Name == NameNone && k.Mod&(ModCtrl|ModMeta) == 0 && unicode.IsPrint(k.Rune)
}

func (k Key) String() string {
	var b strings.Builder
	if k.Mod&ModCtrl != 0 {
		b.WriteString("C-")
	}
	if k.Mod&ModMeta != 0 {
		b.WriteString("M-")
	}
	if k.Mod&ModShift != 0 {
		b.WriteString("S-")
	}
	if k.Name != NameNone {
		b.WriteString("<" + k.Name.String() + ">")
	} else {
		b.WriteRune(k.Rune)
	}
	return b.String()
}

// EventKind discriminates Event.
type EventKind uint8

const (
	KeyInput EventKind = iota
	WindowResize
)

// Event is produced one at a time by a terminal surface.
type Event struct {
	Kind EventKind
	Key  Key
}

// KeyEvent wraps k in an Event.
func KeyEvent(k Key) Event { return Event{Kind: KeyInput, Key: k} }

// ResizeEvent reports a change of the terminal window size.
func ResizeEvent() Event { return Event{Kind: WindowResize} }
