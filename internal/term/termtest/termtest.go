// Package termtest provides an in-memory terminal surface fed from a
// script of events, for testing code that edits lines.
package termtest

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/render"
	"github.com/flowave-io/lineinput/internal/term"
)

// Step is one scripted input: an event, an error, or a layout change that
// takes effect before the event is delivered.
type Step struct {
	Event  keys.Event
	Err    error
	Layout *render.Layout
}

// Key is a step delivering k.
func Key(k keys.Key) Step { return Step{Event: keys.KeyEvent(k)} }

// Keys returns one step per key.
func Keys(ks ...keys.Key) []Step {
	out := make([]Step, len(ks))
	for i, k := range ks {
		out[i] = Key(k)
	}
	return out
}

// Text returns one character step per rune of s.
func Text(s string) []Step {
	var out []Step
	for _, r := range s {
		out = append(out, Key(keys.Char(r)))
	}
	return out
}

// Resize is a step changing the window size and reporting it.
func Resize(l render.Layout) Step {
	return Step{Event: keys.ResizeEvent(), Layout: &l}
}

// Fail is a step making NextEvent return err.
func Fail(err error) Step { return Step{Err: err} }

// Call records one drawing operation.
type Call struct {
	Op    string
	Line  render.Line
	Lines []string
}

// Surface is a term.Device over a bytes.Buffer. Once the script is used up
// NextEvent returns io.EOF.
type Surface struct {
	*term.Screen

	mu     sync.Mutex
	Out    bytes.Buffer
	steps  []Step
	layout render.Layout
	calls  []Call
	Bells  int
	Closed bool
}

var _ term.Device = (*Surface)(nil)

// New returns a surface of the given size that replays steps.
func New(layout render.Layout, steps ...Step) *Surface {
	s := &Surface{steps: steps, layout: layout}
	s.Screen = term.NewScreen(&s.Out, layout)
	return s
}

// Layout returns the current window size.
func (s *Surface) Layout() render.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

func (s *Surface) NextEvent(ctx context.Context) (keys.Event, error) {
	if err := context.Cause(ctx); err != nil {
		return keys.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 {
		return keys.Event{}, io.EOF
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	if st.Layout != nil {
		s.layout = *st.Layout
	}
	if st.Err != nil {
		return keys.Event{}, st.Err
	}
	return st.Event, nil
}

func (s *Surface) record(c Call) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

// Calls returns the drawing operations performed so far.
func (s *Surface) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Ops returns the names of the drawing operations performed so far.
func (s *Surface) Ops() []string {
	var out []string
	for _, c := range s.Calls() {
		out = append(out, c.Op)
	}
	return out
}

// Last returns the most recent call, or a zero Call.
func (s *Surface) Last() Call {
	calls := s.Calls()
	if len(calls) == 0 {
		return Call{}
	}
	return calls[len(calls)-1]
}

func (s *Surface) DrawDiff(old, new render.Line) error {
	s.record(Call{Op: "draw", Line: new})
	return s.Screen.DrawDiff(old, new)
}

func (s *Surface) MoveCursorPastEnd(l render.Line) error {
	s.record(Call{Op: "end", Line: l})
	return s.Screen.MoveCursorPastEnd(l)
}

func (s *Surface) ClearRegion(l render.Line) error {
	s.record(Call{Op: "clear-line", Line: l})
	return s.Screen.ClearRegion(l)
}

func (s *Surface) ClearScreen(l render.Line) error {
	s.record(Call{Op: "clear-screen", Line: l})
	return s.Screen.ClearScreen(l)
}

func (s *Surface) PrintLines(lines []string) error {
	s.record(Call{Op: "print", Lines: lines})
	return s.Screen.PrintLines(lines)
}

func (s *Surface) RingBell(audible bool) error {
	s.mu.Lock()
	s.Bells++
	s.mu.Unlock()
	s.record(Call{Op: "bell"})
	return s.Screen.RingBell(audible)
}

func (s *Surface) Reposition(old, new render.Layout, l render.Line) error {
	s.record(Call{Op: "reposition", Line: l})
	return s.Screen.Reposition(old, new, l)
}

func (s *Surface) Close() error {
	s.mu.Lock()
	s.Closed = true
	s.mu.Unlock()
	return nil
}
