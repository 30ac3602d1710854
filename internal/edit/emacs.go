package edit

import (
	"github.com/flowave-io/lineinput/internal/keys"
)

// EmacsKeyMap returns the emacs binding scheme. Editing starts in ModeEmacs.
func EmacsKeyMap() KeyMap {
	m := KeyMap{
		ModeEmacs:  emacsTable(),
		ModeSearch: searchTable(),
	}
	m[ModeEmacsArg] = emacsArgTable(m[ModeEmacs])
	return m
}

func emacsTable() *Table {
	w := insertState
	var (
		home     = bind(moveTo(w, func(Buffer) int { return 0 }))
		end      = bind(moveTo(w, Buffer.Len))
		left     = bind(moveTo(w, func(b Buffer) int { return b.Pos() - 1 }))
		right    = bind(moveTo(w, func(b Buffer) int { return b.Pos() + 1 }))
		backDel  = bind(deleteBackward(w))
		older    = bind(historyMove(w, true))
		newer    = bind(historyMove(w, false))
		accept   = bind(acceptLine)
		complete = bind(completeWord(w))
	)
	t := &Table{
		Keys: map[keys.Key]Binding{
			keys.Ctrl('a'):                        home,
			keys.Named(keys.Home):                 home,
			keys.Ctrl('e'):                        end,
			keys.Named(keys.End):                  end,
			keys.Ctrl('b'):                        left,
			keys.Named(keys.Left):                 left,
			keys.Ctrl('f'):                        right,
			keys.Named(keys.Right):                right,
			keys.Meta(keys.Char('b')):             bind(moveTo(w, Buffer.BackwardWord)),
			keys.Meta(keys.Char('f')):             bind(moveTo(w, Buffer.ForwardWord)),
			keys.Named(keys.Backspace):            backDel,
			keys.Ctrl('h'):                        backDel,
			keys.Named(keys.Delete):               bind(deleteForward(w)),
			keys.Ctrl('d'):                        bind(eofOrDelete(w)),
			keys.Ctrl('k'):                        bind(kill(w, Buffer.Len)),
			keys.Ctrl('u'):                        bind(kill(w, func(Buffer) int { return 0 })),
			keys.Ctrl('w'):                        bind(kill(w, Buffer.BigWordStart)),
			keys.Meta(keys.Named(keys.Backspace)): bind(kill(w, Buffer.BackwardWord)),
			keys.Meta(keys.Char('d')):             bind(kill(w, Buffer.ForwardWord)),
			keys.Ctrl('y'):                        bind(yank(w)),
			keys.Ctrl('t'):                        bind(onBuffer(w, Buffer.Transpose)),
			keys.Ctrl('l'):                        bind(clearScreen),
			keys.Ctrl('p'):                        older,
			keys.Named(keys.Up):                   older,
			keys.Ctrl('n'):                        newer,
			keys.Named(keys.Down):                 newer,
			keys.Ctrl('r'):                        bind(startSearch(ModeEmacs)),
			keys.Named(keys.Tab):                  complete,
			keys.Named(keys.Enter):                accept,
			keys.Ctrl('j'):                        accept,
			keys.Ctrl('g'):                        bind(ringBell),
		},
		Default: selfInsert(w),
	}
	for d := '0'; d <= '9'; d++ {
		t.Keys[keys.Meta(keys.Char(d))] = bindTo(addDigit(d), ModeEmacsArg)
	}
	return t
}

// emacsArgTable collects M-digit counts, then runs the next key's emacs
// binding that many times.
func emacsArgTable(base *Table) *Table {
	t := &Table{
		Keys: map[keys.Key]Binding{
			keys.Ctrl('g'): bindTo(cancelCount, ModeEmacs),
		},
		Default: func(k keys.Key) (Binding, bool) {
			b, ok := base.Lookup(k)
			if !ok {
				return bindTo(cancelCountBell, ModeEmacs), true
			}
			next := b.Next
			if next == ModeSame {
				next = ModeEmacs
			}
			return bindTo(repeat(b.Do), next), true
		},
	}
	for d := '0'; d <= '9'; d++ {
		t.Keys[keys.Meta(keys.Char(d))] = bind(addDigit(d))
		t.Keys[keys.Char(d)] = bind(addDigit(d))
	}
	return t
}

func cancelCount(_ *Context, s State) Outcome {
	_, inner := countOf(s)
	return stay(inner)
}

func cancelCountBell(_ *Context, s State) Outcome {
	_, inner := countOf(s)
	return bell(inner)
}
