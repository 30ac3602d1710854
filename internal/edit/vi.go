package edit

import (
	"strings"
	"unicode"

	"github.com/flowave-io/lineinput/internal/keys"
)

// ViKeyMap returns the vi binding scheme. Editing starts in ModeViInsert.
func ViKeyMap() KeyMap {
	m := KeyMap{
		ModeViInsert:      viInsertTable(),
		ModeViCommand:     viCommandTable(),
		ModeSearch:        searchTable(),
		ModeViReplaceChar: viReplaceCharTable(),
		ModeViReplace:     viReplaceTable(),
		ModeViDelete:      viOperatorTable(opDelete),
		ModeViChange:      viOperatorTable(opChange),
		ModeViYank:        viOperatorTable(opYank),
	}
	m[ModeViArg] = viArgTable(m[ModeViCommand])
	for _, mode := range []Mode{ModeViInsert, ModeViReplace} {
		m[mode].Default = escapeChord(m[ModeViCommand], m[mode].Default)
	}
	return m
}

// escapeChord reads a Meta key typed while inserting as Esc followed by the
// key. The decoder reports an Esc and the byte after it in the same read as
// one Meta chord, which is what a fast "Esc k" or a pasted Esc looks like.
func escapeChord(cmd *Table, insert func(keys.Key) (Binding, bool)) func(keys.Key) (Binding, bool) {
	return func(k keys.Key) (Binding, bool) {
		if k.Mod&keys.ModMeta == 0 {
			return insert(k)
		}
		k.Mod &^= keys.ModMeta
		b, ok := cmd.Lookup(k)
		if !ok {
			return bindTo(func(c *Context, s State) Outcome {
				return bell(toCommand(c, s).Effect.State)
			}, ModeViCommand), true
		}
		next := b.Next
		if next == ModeSame {
			next = ModeViCommand
		}
		return bindTo(func(c *Context, s State) Outcome {
			return b.Do(c, toCommand(c, s).Effect.State)
		}, next), true
	}
}

func viInsertTable() *Table {
	w := insertState
	backDel := bind(deleteBackward(w))
	accept := bind(acceptLine)
	return &Table{
		Keys: map[keys.Key]Binding{
			keys.Named(keys.Esc):       bindTo(toCommand, ModeViCommand),
			keys.Named(keys.Backspace): backDel,
			keys.Ctrl('h'):             backDel,
			keys.Named(keys.Delete):    bind(deleteForward(w)),
			keys.Named(keys.Left):      bind(moveTo(w, func(b Buffer) int { return b.Pos() - 1 })),
			keys.Named(keys.Right):     bind(moveTo(w, func(b Buffer) int { return b.Pos() + 1 })),
			keys.Named(keys.Home):      bind(moveTo(w, func(Buffer) int { return 0 })),
			keys.Named(keys.End):       bind(moveTo(w, Buffer.Len)),
			keys.Named(keys.Up):        bind(historyMove(w, true)),
			keys.Named(keys.Down):      bind(historyMove(w, false)),
			keys.Named(keys.Tab):       bind(completeWord(w)),
			keys.Ctrl('w'):             bind(kill(w, Buffer.BigWordStart)),
			keys.Ctrl('u'):             bind(kill(w, func(Buffer) int { return 0 })),
			keys.Ctrl('d'):             bind(eofOrDelete(w)),
			keys.Ctrl('l'):             bind(clearScreen),
			keys.Ctrl('r'):             bind(startSearch(ModeViInsert)),
			keys.Named(keys.Enter):     accept,
			keys.Ctrl('j'):             accept,
		},
		Default: selfInsert(w),
	}
}

// toCommand leaves insert mode, stepping the cursor back onto the last
// inserted rune.
func toCommand(_ *Context, s State) Outcome {
	b := BufferOf(s)
	return stay(NewCommand(b.MoveTo(b.Pos() - 1)))
}

// motion moves the cursor for a command, or delimits the text an operator
// works on.
type motion struct {
	to        func(Buffer) int
	inclusive bool // the rune at the target belongs to the span
}

func (m motion) apply(b Buffer, n int) int {
	for i := 0; i < n; i++ {
		b = b.MoveTo(m.to(b))
	}
	return b.Pos()
}

func (m motion) span(b Buffer, n int) (int, int) {
	lo, hi := b.Pos(), m.apply(b, n)
	if hi < lo {
		return hi, lo
	}
	if m.inclusive {
		hi++
	}
	return lo, hi
}

var (
	motionLeft      = motion{to: func(b Buffer) int { return b.Pos() - 1 }}
	motionRight     = motion{to: func(b Buffer) int { return b.Pos() + 1 }}
	motionWordEnd   = motion{to: Buffer.WordEnd, inclusive: true}
	motionBigEnd    = motion{to: Buffer.BigWordEnd, inclusive: true}
	motionLineStart = motion{to: func(Buffer) int { return 0 }}
	motionLineEnd   = motion{to: Buffer.Len}
)

var viMotions = map[keys.Key]motion{
	keys.Char('h'):             motionLeft,
	keys.Named(keys.Left):      motionLeft,
	keys.Named(keys.Backspace): motionLeft,
	keys.Char('l'):             motionRight,
	keys.Char(' '):             motionRight,
	keys.Named(keys.Right):     motionRight,
	keys.Char('0'):             motionLineStart,
	keys.Named(keys.Home):      motionLineStart,
	keys.Char('^'):             {to: Buffer.FirstNonBlank},
	keys.Char('$'):             motionLineEnd,
	keys.Named(keys.End):       motionLineEnd,
	keys.Char('w'):             {to: Buffer.NextWord},
	keys.Char('W'):             {to: Buffer.NextBigWord},
	keys.Char('b'):             {to: Buffer.WordStart},
	keys.Char('B'):             {to: Buffer.BigWordStart},
	keys.Char('e'):             motionWordEnd,
	keys.Char('E'):             motionBigEnd,
}

func viMove(m motion) Action {
	return func(_ *Context, s State) Outcome {
		n, inner := countOf(s)
		b := BufferOf(inner)
		return stay(NewCommand(b.MoveTo(m.apply(b, n))))
	}
}

func viCommandTable() *Table {
	older := bind(historyMove(func(b Buffer) State { return NewCommand(b.MoveTo(0)) }, true))
	newer := bind(historyMove(func(b Buffer) State { return NewCommand(b.MoveTo(0)) }, false))
	accept := bind(acceptLine)
	del := bind(viDeleteChars(false))
	keep := func(_ *Context, s State) Outcome { return stay(s) }
	t := &Table{
		Keys: map[keys.Key]Binding{
			keys.Char('x'):          del,
			keys.Named(keys.Delete): del,
			keys.Char('X'):          bind(viDeleteChars(true)),
			keys.Char('i'):          bindTo(viInsertAt(func(b Buffer) int { return b.Pos() }), ModeViInsert),
			keys.Char('a'):          bindTo(viInsertAt(func(b Buffer) int { return b.Pos() + 1 }), ModeViInsert),
			keys.Char('I'):          bindTo(viInsertAt(Buffer.FirstNonBlank), ModeViInsert),
			keys.Char('A'):          bindTo(viInsertAt(Buffer.Len), ModeViInsert),
			keys.Char('s'):          bindTo(viSubstitute, ModeViInsert),
			keys.Char('S'):          bindTo(viWholeLine(opChange), ModeViInsert),
			keys.Char('C'):          bindTo(viToEnd(opChange), ModeViInsert),
			keys.Char('D'):          bind(viToEnd(opDelete)),
			keys.Char('d'):          bindTo(keep, ModeViDelete),
			keys.Char('c'):          bindTo(keep, ModeViChange),
			keys.Char('y'):          bindTo(keep, ModeViYank),
			keys.Char('r'):          bindTo(keep, ModeViReplaceChar),
			keys.Char('R'):          bindTo(func(_ *Context, s State) Outcome { return stay(Insert{BufferOf(s)}) }, ModeViReplace),
			keys.Char('~'):          bind(viToggleCase),
			keys.Char('p'):          bind(viPaste(true)),
			keys.Char('P'):          bind(viPaste(false)),
			keys.Char('k'):          older,
			keys.Named(keys.Up):     older,
			keys.Ctrl('p'):          older,
			keys.Char('j'):          newer,
			keys.Named(keys.Down):   newer,
			keys.Ctrl('n'):          newer,
			keys.Named(keys.Enter):  accept,
			keys.Ctrl('j'):          accept,
			keys.Ctrl('d'):          bind(viEOF),
			keys.Ctrl('l'):          bind(clearScreen),
		},
	}
	for k, m := range viMotions {
		if _, taken := t.Keys[k]; !taken {
			t.Keys[k] = bind(viMove(m))
		}
	}
	for d := '1'; d <= '9'; d++ {
		t.Keys[keys.Char(d)] = bindTo(addDigit(d), ModeViArg)
	}
	return t
}

// viArgTable collects a count, then runs the command binding of the next
// key with the count still attached.
func viArgTable(base *Table) *Table {
	t := &Table{
		Keys: map[keys.Key]Binding{
			keys.Named(keys.Esc): bindTo(cancelCount, ModeViCommand),
		},
		Default: func(k keys.Key) (Binding, bool) {
			b, ok := base.Lookup(k)
			if !ok {
				return bindTo(cancelCountBell, ModeViCommand), true
			}
			if b.Next == ModeSame {
				b.Next = ModeViCommand
			}
			return b, true
		},
	}
	for d := '0'; d <= '9'; d++ {
		t.Keys[keys.Char(d)] = bind(addDigit(d))
	}
	return t
}

func viEOF(_ *Context, s State) Outcome {
	if BufferOf(s).Len() == 0 {
		return NoInput()
	}
	return bell(s)
}

func viInsertAt(to func(Buffer) int) Action {
	return func(_ *Context, s State) Outcome {
		b := BufferOf(s)
		return stay(Insert{b.MoveTo(to(b))})
	}
}

func viDeleteChars(before bool) Action {
	return func(c *Context, s State) Outcome {
		n, inner := countOf(s)
		b := BufferOf(inner)
		if b.Len() == 0 {
			return bell(inner)
		}
		to := b.Pos() + n
		if before {
			to = b.Pos() - n
		}
		nb, killed := b.Delete(b.Pos(), to)
		c.Kill.Push(killed)
		return stay(NewCommand(nb))
	}
}

func viSubstitute(c *Context, s State) Outcome {
	n, inner := countOf(s)
	b := BufferOf(inner)
	nb, killed := b.Delete(b.Pos(), b.Pos()+n)
	c.Kill.Push(killed)
	return stay(Insert{nb})
}

func viToggleCase(_ *Context, s State) Outcome {
	n, inner := countOf(s)
	b := BufferOf(inner)
	for i := 0; i < n && b.Pos() < b.Len(); i++ {
		r, _ := b.At(b.Pos())
		if unicode.IsUpper(r) {
			r = unicode.ToLower(r)
		} else {
			r = unicode.ToUpper(r)
		}
		b = b.Set(b.Pos(), r).MoveTo(b.Pos() + 1)
	}
	return stay(NewCommand(b))
}

func viPaste(after bool) Action {
	return func(c *Context, s State) Outcome {
		n, inner := countOf(s)
		text := c.Kill.Top()
		if text == "" {
			return bell(inner)
		}
		b := BufferOf(inner)
		if after && b.Len() > 0 {
			b = b.MoveTo(b.Pos() + 1)
		}
		b = b.Insert(strings.Repeat(text, n))
		return stay(NewCommand(b.MoveTo(b.Pos() - 1)))
	}
}

// operator is a pending d, c or y.
type operator int

const (
	opDelete operator = iota
	opChange
	opYank
)

func (op operator) key() keys.Key {
	switch op {
	case opChange:
		return keys.Char('c')
	case opYank:
		return keys.Char('y')
	}
	return keys.Char('d')
}

func (op operator) next() Mode {
	if op == opChange {
		return ModeViInsert
	}
	return ModeViCommand
}

// run applies op to the runes in [lo, hi).
func (op operator) run(c *Context, b Buffer, lo, hi int) Outcome {
	if op == opYank {
		c.Kill.Push(b.Slice(lo, hi))
		return stay(NewCommand(b.MoveTo(lo)))
	}
	nb, killed := b.Delete(lo, hi)
	c.Kill.Push(killed)
	nb = nb.MoveTo(lo)
	if op == opChange {
		return stay(Insert{nb})
	}
	return stay(NewCommand(nb))
}

func viOperatorTable(op operator) *Table {
	return &Table{
		Keys: map[keys.Key]Binding{
			keys.Named(keys.Esc): bindTo(cancelCount, ModeViCommand),
			op.key():             bindTo(viWholeLine(op), op.next()),
		},
		Default: func(k keys.Key) (Binding, bool) {
			m, ok := viMotions[k]
			if !ok {
				return bindTo(cancelCountBell, ModeViCommand), true
			}
			return bindTo(viOperate(op, k, m), op.next()), true
		},
	}
}

func viOperate(op operator, k keys.Key, m motion) Action {
	return func(c *Context, s State) Outcome {
		n, inner := countOf(s)
		b := BufferOf(inner)
		if op == opChange {
			// cw and cW stop at the end of the word like ce and cE
			if r, ok := b.At(b.Pos()); ok && charClass(r) != 0 {
				switch k {
				case keys.Char('w'):
					m = motionWordEnd
				case keys.Char('W'):
					m = motionBigEnd
				}
			}
		}
		lo, hi := m.span(b, n)
		return op.run(c, b, lo, hi)
	}
}

func viWholeLine(op operator) Action {
	return func(c *Context, s State) Outcome {
		_, inner := countOf(s)
		b := BufferOf(inner)
		return op.run(c, b, 0, b.Len())
	}
}

func viToEnd(op operator) Action {
	return func(c *Context, s State) Outcome {
		_, inner := countOf(s)
		b := BufferOf(inner)
		return op.run(c, b, b.Pos(), b.Len())
	}
}

func viReplaceCharTable() *Table {
	return &Table{
		Keys: map[keys.Key]Binding{
			keys.Named(keys.Esc): bindTo(cancelCount, ModeViCommand),
		},
		Default: func(k keys.Key) (Binding, bool) {
			r, ok := printable(k)
			if !ok {
				return bindTo(cancelCountBell, ModeViCommand), true
			}
			return bindTo(viReplaceChars(r), ModeViCommand), true
		},
	}
}

func viReplaceChars(r rune) Action {
	return func(_ *Context, s State) Outcome {
		n, inner := countOf(s)
		b := BufferOf(inner)
		start := b.Pos()
		if start+n > b.Len() {
			return bell(NewCommand(b))
		}
		for i := start; i < start+n; i++ {
			b = b.Set(i, r)
		}
		return stay(NewCommand(b.MoveTo(start + n - 1)))
	}
}

// viReplaceTable is overwrite mode entered with R.
func viReplaceTable() *Table {
	w := insertState
	return &Table{
		Keys: map[keys.Key]Binding{
			keys.Named(keys.Esc):       bindTo(toCommand, ModeViCommand),
			keys.Named(keys.Backspace): bind(moveTo(w, func(b Buffer) int { return b.Pos() - 1 })),
			keys.Named(keys.Left):      bind(moveTo(w, func(b Buffer) int { return b.Pos() - 1 })),
			keys.Named(keys.Right):     bind(moveTo(w, func(b Buffer) int { return b.Pos() + 1 })),
			keys.Named(keys.Enter):     bind(acceptLine),
			keys.Ctrl('j'):             bind(acceptLine),
		},
		Default: func(k keys.Key) (Binding, bool) {
			r, ok := printable(k)
			if !ok {
				return Binding{}, false
			}
			return bind(onBuffer(w, func(b Buffer) Buffer {
				if b.Pos() < b.Len() {
					return b.Set(b.Pos(), r).MoveTo(b.Pos() + 1)
				}
				return b.Insert(string(r))
			})), true
		},
	}
}
