package edit

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/flowave-io/lineinput/internal/complete"
	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/pkg/log"
)

// rebuild wraps an edited buffer back into the state shape of a mode.
type rebuild func(Buffer) State

func insertState(b Buffer) State { return Insert{b} }

const maxCount = 9999

func selfInsert(wrap rebuild) func(keys.Key) (Binding, bool) {
	return func(k keys.Key) (Binding, bool) {
		r, ok := printable(k)
		if !ok {
			return Binding{}, false
		}
		return bind(func(_ *Context, s State) Outcome {
			return stay(wrap(BufferOf(s).Insert(string(r))))
		}), true
	}
}

func onBuffer(wrap rebuild, f func(Buffer) Buffer) Action {
	return func(_ *Context, s State) Outcome {
		return stay(wrap(f(BufferOf(s))))
	}
}

func moveTo(wrap rebuild, to func(Buffer) int) Action {
	return onBuffer(wrap, func(b Buffer) Buffer { return b.MoveTo(to(b)) })
}

// kill removes the span from the cursor to the position returned by to and
// keeps the removed text for yanking.
func kill(wrap rebuild, to func(Buffer) int) Action {
	return func(c *Context, s State) Outcome {
		b := BufferOf(s)
		nb, killed := b.Delete(b.Pos(), to(b))
		c.Kill.Push(killed)
		return stay(wrap(nb))
	}
}

func deleteBackward(wrap rebuild) Action {
	return onBuffer(wrap, func(b Buffer) Buffer {
		nb, _ := b.Delete(b.Pos()-1, b.Pos())
		return nb
	})
}

func deleteForward(wrap rebuild) Action {
	return onBuffer(wrap, func(b Buffer) Buffer {
		nb, _ := b.Delete(b.Pos(), b.Pos()+1)
		return nb
	})
}

// eofOrDelete ends input on an empty line and deletes forward otherwise.
func eofOrDelete(wrap rebuild) Action {
	del := deleteForward(wrap)
	return func(c *Context, s State) Outcome {
		if BufferOf(s).Len() == 0 {
			return NoInput()
		}
		return del(c, s)
	}
}

func yank(wrap rebuild) Action {
	return func(c *Context, s State) Outcome {
		text := c.Kill.Top()
		if text == "" {
			return bell(s)
		}
		return stay(wrap(BufferOf(s).Insert(text)))
	}
}

func acceptLine(_ *Context, s State) Outcome {
	_, inner := countOf(s)
	return Accept(inner)
}

func clearScreen(_ *Context, s State) Outcome {
	return Continue(Redraw(true, s), ModeSame)
}

func ringBell(_ *Context, s State) Outcome { return bell(s) }

// historyMove replaces the line with the next older or newer entry.
func historyMove(wrap rebuild, older bool) Action {
	return func(c *Context, s State) Outcome {
		if c.History == nil {
			return bell(s)
		}
		_, inner := countOf(s)
		step := c.History.Next
		if older {
			step = c.History.Previous
		}
		e, ok := step(BufferOf(inner).String())
		if !ok {
			return bell(inner)
		}
		return stay(wrap(NewBuffer(e)))
	}
}

// addDigit extends the pending count, starting one if needed.
func addDigit(d rune) Action {
	return func(_ *Context, s State) Outcome {
		digit := int(d - '0')
		if a, ok := s.(Arg); ok {
			return stay(Arg{Count: min(a.Count*10+digit, maxCount), Inner: a.Inner})
		}
		return stay(Arg{Count: digit, Inner: s})
	}
}

// repeat runs do as many times as the pending count says. Repetition stops
// early at anything other than a plain state change.
func repeat(do Action) Action {
	return func(c *Context, s State) Outcome {
		n, cur := countOf(s)
		var out Outcome
		for i := 0; i < n; i++ {
			out = do(c, cur)
			if out.Done || out.Effect == nil || out.Effect.Kind != ChangeKind || out.Next != ModeSame {
				return out
			}
			cur = out.Effect.State
		}
		return out
	}
}

// completeWord runs the completer on the text around the cursor.
func completeWord(wrap rebuild) Action {
	return func(c *Context, s State) Outcome {
		if c.Completer == nil {
			return bell(s)
		}
		b := BufferOf(s)
		res, err := c.Completer.Complete(b.Before(), b.After())
		if err != nil {
			log.Debug("completion failed", "err", err)
			return bell(s)
		}
		n := max(0, min(res.Replace, b.Pos()))
		replace := func(text string) Outcome {
			nb, _ := b.Delete(b.Pos()-n, b.Pos())
			return stay(wrap(nb.Insert(text)))
		}

		switch len(res.Candidates) {
		case 0:
			return bell(s)
		case 1:
			cand := res.Candidates[0]
			text := cand.Replacement
			if cand.Finished {
				text += " "
			}
			return replace(text)
		}

		word := b.Slice(b.Pos()-n, b.Pos())
		if prefix := complete.CommonPrefix(res.Candidates); len(prefix) > len(word) {
			return replace(prefix)
		}
		left := b.Before()
		if !c.Prefs.ListCompletionsImmediately && !(c.tabArmed && c.tabLeft == left) {
			c.tabArmed, c.tabLeft = true, left
			return bell(s)
		}
		c.tabArmed = false
		shown := make([]string, len(res.Candidates))
		for i, cand := range res.Candidates {
			shown[i] = cand.Display
			if shown[i] == "" {
				shown[i] = cand.Replacement
			}
		}
		return Continue(PrintLines(Columns(shown, c.Layout.Columns), s), ModeSame)
	}
}

// Columns lays items out column by column in rows no wider than width.
func Columns(items []string, width int) []string {
	if len(items) == 0 {
		return nil
	}
	colw := 0
	for _, it := range items {
		colw = max(colw, runewidth.StringWidth(it))
	}
	colw += 2
	ncols := max(1, width/colw)
	nrows := (len(items) + ncols - 1) / ncols
	lines := make([]string, nrows)
	for r := 0; r < nrows; r++ {
		var sb strings.Builder
		for col := 0; col < ncols; col++ {
			i := col*nrows + r
			if i >= len(items) {
				break
			}
			sb.WriteString(items[i])
			sb.WriteString(strings.Repeat(" ", colw-runewidth.StringWidth(items[i])))
		}
		lines[r] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// searchFrom is the search start that includes every history entry.
const searchFrom = math.MaxInt
