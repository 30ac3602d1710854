package edit

import (
	"github.com/flowave-io/lineinput/internal/complete"
	"github.com/flowave-io/lineinput/internal/history"
	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/prefs"
	"github.com/flowave-io/lineinput/internal/render"
)

// Mode names a binding table.
type Mode int

const (
	ModeSame Mode = iota // keep the current mode
	ModeEmacs
	ModeEmacsArg
	ModeSearch
	ModeViInsert
	ModeViCommand
	ModeViArg
	ModeViDelete
	ModeViChange
	ModeViYank
	ModeViReplaceChar
	ModeViReplace
	ModeChar
)

var modeNames = [...]string{
	ModeSame:          "same",
	ModeEmacs:         "emacs",
	ModeEmacsArg:      "emacs-arg",
	ModeSearch:        "search",
	ModeViInsert:      "vi-insert",
	ModeViCommand:     "vi-command",
	ModeViArg:         "vi-arg",
	ModeViDelete:      "vi-delete",
	ModeViChange:      "vi-change",
	ModeViYank:        "vi-yank",
	ModeViReplaceChar: "vi-replace-char",
	ModeViReplace:     "vi-replace",
	ModeChar:          "char",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Context carries what actions may consult or update besides the state.
type Context struct {
	Layout    render.Layout
	Prefs     prefs.Preferences
	Completer complete.Provider
	History   *history.Cursor
	Kill      *KillRing

	// tabLeft is the text left of the cursor when a completion attempt
	// last rang instead of listing.
	tabLeft  string
	tabArmed bool
}

// Action runs one key binding against the current state.
type Action func(c *Context, s State) Outcome

// Binding pairs an action with the mode that follows it.
type Binding struct {
	Do   Action
	Next Mode
}

// Table is the binding table of one mode. Default, when set, is consulted
// for keys missing from Keys.
type Table struct {
	Keys    map[keys.Key]Binding
	Default func(k keys.Key) (Binding, bool)
}

// Lookup finds the binding for k.
func (t *Table) Lookup(k keys.Key) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	if b, ok := t.Keys[k]; ok {
		return b, true
	}
	if t.Default != nil {
		return t.Default(k)
	}
	return Binding{}, false
}

// KeyMap maps every mode of a scheme to its table.
type KeyMap map[Mode]*Table

// Lookup finds the binding for k in mode.
func (m KeyMap) Lookup(mode Mode, k keys.Key) (Binding, bool) {
	return m[mode].Lookup(k)
}

// Resolve picks the mode that follows a binding: the outcome's override,
// else the binding's, else the current one.
func Resolve(current Mode, b Binding, out Outcome) Mode {
	switch {
	case out.Next != ModeSame:
		return out.Next
	case b.Next != ModeSame:
		return b.Next
	}
	return current
}

// ForPrefs returns the line-editing key map selected by p and its
// starting mode.
func ForPrefs(p prefs.Preferences) (KeyMap, Mode) {
	if p.EditMode == prefs.Vi {
		return ViKeyMap(), ModeViInsert
	}
	return EmacsKeyMap(), ModeEmacs
}

// KillRing holds recently killed text for yanking.
type KillRing struct {
	entries []string
}

const killRingSize = 16

// Push records killed text. Empty kills are ignored.
func (k *KillRing) Push(s string) {
	if k == nil || s == "" {
		return
	}
	k.entries = append(k.entries, s)
	if len(k.entries) > killRingSize {
		k.entries = k.entries[len(k.entries)-killRingSize:]
	}
}

// Top returns the most recent kill.
func (k *KillRing) Top() string {
	if k == nil || len(k.entries) == 0 {
		return ""
	}
	return k.entries[len(k.entries)-1]
}

func bind(do Action) Binding { return Binding{Do: do} }

func bindTo(do Action, next Mode) Binding { return Binding{Do: do, Next: next} }

// stay continues with s unchanged on screen.
func stay(s State) Outcome { return Continue(Change(s), ModeSame) }

func bell(s State) Outcome { return Continue(RingBell(s), ModeSame) }

// printable reports whether k is a plain character to insert.
func printable(k keys.Key) (rune, bool) {
	if !k.IsChar() {
		return 0, false
	}
	return k.Rune, true
}

// countOf unwraps a pending count.
func countOf(s State) (int, State) {
	if a, ok := s.(Arg); ok {
		return max(a.Count, 1), a.Inner
	}
	return 1, s
}
