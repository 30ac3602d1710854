// Package edit holds the line states the editor moves through, the effects
// that drive the screen, and the emacs, vi and single-character key maps.
package edit

import (
	"fmt"

	"github.com/flowave-io/lineinput/internal/render"
)

// State is one snapshot of the line being edited.
type State interface {
	// LineChars renders the state after prefix.
	LineChars(prefix []render.Cell) render.Line
	// Temporary states replace the prompt with their own and are erased
	// rather than kept when output is printed above the line.
	Temporary() bool
	// Text is the line a finished edit would submit.
	Text() string
}

// Insert is the text-entry state of emacs mode and vi insert mode.
type Insert struct{ Buffer }

func (s Insert) LineChars(prefix []render.Cell) render.Line {
	return render.LineChars(prefix, s.Before(), s.After())
}
func (Insert) Temporary() bool { return false }
func (s Insert) Text() string { return s.String() }

// Command is vi command mode. The cursor sits on a rune, never past the
// last one, unless the line is empty.
type Command struct{ Buffer }

// NewCommand returns b as a command-mode state, pulling the cursor back
// onto the last rune when needed.
func NewCommand(b Buffer) Command {
	if b.Len() > 0 && b.Pos() >= b.Len() {
		b = b.MoveTo(b.Len() - 1)
	}
	return Command{b}
}

func (s Command) LineChars(prefix []render.Cell) render.Line {
	return render.LineChars(prefix, s.Before(), s.After())
}
func (Command) Temporary() bool { return false }
func (s Command) Text() string { return s.String() }

// Arg accumulates a repeat count for the state it wraps.
type Arg struct {
	Count int
	Inner State
}

func (a Arg) LineChars([]render.Cell) render.Line {
	return a.Inner.LineChars(render.Cells(fmt.Sprintf("(arg: %d) ", a.Count)))
}
func (Arg) Temporary() bool { return true }
func (a Arg) Text() string { return a.Inner.Text() }

// SearchState is reverse incremental history search.
type SearchState struct {
	Query  string
	Match  Buffer // the matching entry, cursor at the match
	Index  int    // history index of Match, or -1 before any match
	Failed bool
	Origin Buffer // the line being edited when the search began
	Return Mode   // mode to resume when the search ends
}

func (s SearchState) LineChars([]render.Cell) render.Line {
	label := "(reverse-i-search)`"
	if s.Failed {
		label = "(failed reverse-i-search)`"
	}
	return render.LineChars(render.Cells(label+s.Query+"': "), s.Match.Before(), s.Match.After())
}
func (SearchState) Temporary() bool { return true }
func (s SearchState) Text() string { return s.Match.String() }

// Cleared draws nothing. It stands for a screen region that has just been
// erased.
type Cleared struct{}

func (Cleared) LineChars([]render.Cell) render.Line { return render.Line{} }
func (Cleared) Temporary() bool { return false }
func (Cleared) Text() string { return "" }

// BufferOf returns the text and cursor carried by s.
func BufferOf(s State) Buffer {
	switch s := s.(type) {
	case Insert:
		return s.Buffer
	case Command:
		return s.Buffer
	case Arg:
		return BufferOf(s.Inner)
	case SearchState:
		return s.Match
	}
	return Buffer{}
}

// EffectKind enumerates the screen operations an action can request.
type EffectKind int

const (
	ChangeKind     EffectKind = iota // draw the diff to the new state
	RedrawKind                       // redraw from scratch, optionally clearing the screen
	PrintLinesKind                   // print lines above, then redraw the state below them
	RingBellKind                     // signal, leaving the state unchanged
)

// Effect is the screen operation produced by one key.
type Effect struct {
	Kind  EffectKind
	Clear bool
	Lines []string
	State State
}

func Change(s State) Effect { return Effect{Kind: ChangeKind, State: s} }

func Redraw(clear bool, s State) Effect { return Effect{Kind: RedrawKind, Clear: clear, State: s} }

func PrintLines(lines []string, s State) Effect {
	return Effect{Kind: PrintLinesKind, Lines: lines, State: s}
}

func RingBell(s State) Effect { return Effect{Kind: RingBellKind, State: s} }

// Outcome is the result of running an action: either the edit is done or
// it continues with an effect and possibly a new mode.
type Outcome struct {
	Done  bool
	Value string // submitted line
	Rune  rune   // submitted character
	EOF   bool   // done without input
	// Effect is applied before the loop continues or, when Done, before
	// the cursor leaves the line. Nil means no output.
	Effect *Effect
	// Next overrides the binding's next mode when it is not ModeSame.
	Next Mode
}

// Continue keeps editing after applying e.
func Continue(e Effect, next Mode) Outcome { return Outcome{Effect: &e, Next: next} }

// Accept finishes with the text of s, first drawing s.
func Accept(s State) Outcome {
	e := Change(s)
	return Outcome{Done: true, Value: s.Text(), Effect: &e}
}

// AcceptRune finishes with r and leaves the line in final.
func AcceptRune(r rune, final State) Outcome {
	e := Change(final)
	return Outcome{Done: true, Rune: r, Effect: &e}
}

// NoInput finishes without a value.
func NoInput() Outcome { return Outcome{Done: true, EOF: true} }
