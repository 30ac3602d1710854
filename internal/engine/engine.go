// Package engine runs the edit loop: it reads events from a terminal
// surface, dispatches keys through a key map and keeps the screen in step
// with the line state.
package engine

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/flowave-io/lineinput/internal/edit"
	"github.com/flowave-io/lineinput/internal/history"
	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/prefs"
	"github.com/flowave-io/lineinput/internal/render"
	"github.com/flowave-io/lineinput/internal/term"
	"github.com/flowave-io/lineinput/pkg/log"
)

// Session is one call's worth of editing.
type Session struct {
	Surface term.Surface
	Prompt  []render.Cell // last row of the prompt, drawn before the state
	KeyMap  edit.KeyMap
	Mode    edit.Mode
	State   edit.State
	Context *edit.Context
	// History, when set, receives every non-blank accepted line.
	History *history.History
}

// Result is what an edit produced. OK is false when the user ended input
// without submitting anything.
type Result struct {
	Line string
	Rune rune
	OK   bool
}

type loop struct {
	Session
	layout render.Layout
	line   render.Line
}

// Run draws the initial state and processes events until an action
// finishes the edit or an error occurs. On every exit path, the cursor is
// first moved below the line so later output starts on a fresh row.
func Run(ctx context.Context, s Session) (Result, error) {
	if s.State == nil {
		s.State = edit.Insert{}
	}
	if s.Context == nil {
		s.Context = &edit.Context{Prefs: prefs.Defaults(), Kill: &edit.KillRing{}}
	}
	l := &loop{Session: s, layout: s.Surface.Layout()}
	l.Context.Layout = l.layout

	if err := l.draw(l.State); err != nil {
		return Result{}, l.fail(err)
	}
	for {
		if err := context.Cause(ctx); err != nil {
			return Result{}, l.fail(err)
		}
		ev, err := l.Surface.NextEvent(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Result{}, l.finish()
			}
			return Result{}, l.fail(err)
		}

		if ev.Kind == keys.WindowResize {
			if err := l.resize(); err != nil {
				return Result{}, l.fail(err)
			}
			continue
		}

		b, ok := l.KeyMap.Lookup(l.Mode, ev.Key)
		if !ok {
			log.Debug("unbound key", "mode", l.Mode, "key", ev.Key)
			if err := l.bell(); err != nil {
				return Result{}, l.fail(err)
			}
			continue
		}
		out := b.Do(l.Context, l.State)
		if out.Effect != nil {
			if err := l.apply(*out.Effect); err != nil {
				return Result{}, l.fail(err)
			}
		}
		if out.Done {
			if err := l.finish(); err != nil {
				return Result{}, err
			}
			if out.EOF {
				return Result{}, nil
			}
			if l.History != nil && strings.TrimSpace(out.Value) != "" {
				l.History.Push(out.Value)
			}
			return Result{Line: out.Value, Rune: out.Rune, OK: true}, nil
		}
		l.Mode = edit.Resolve(l.Mode, b, out)
	}
}

// draw moves the screen to s by diffing against what is shown.
func (l *loop) draw(s edit.State) error {
	next := s.LineChars(l.Prompt)
	if err := l.Surface.DrawDiff(l.line, next); err != nil {
		return err
	}
	l.State, l.line = s, next
	return nil
}

func (l *loop) apply(e edit.Effect) error {
	switch e.Kind {
	case edit.ChangeKind:
		return l.draw(e.State)
	case edit.RedrawKind:
		next := e.State.LineChars(l.Prompt)
		if e.Clear {
			if err := l.Surface.ClearScreen(next); err != nil {
				return err
			}
			l.State, l.line = e.State, next
			return nil
		}
		if err := l.Surface.ClearRegion(l.line); err != nil {
			return err
		}
		l.line = render.Line{}
		return l.draw(e.State)
	case edit.PrintLinesKind:
		if l.State.Temporary() {
			if err := l.Surface.ClearRegion(l.line); err != nil {
				return err
			}
		} else if err := l.Surface.MoveCursorPastEnd(l.line); err != nil {
			return err
		}
		l.line = render.Line{}
		if err := l.Surface.PrintLines(e.Lines); err != nil {
			return err
		}
		return l.draw(e.State)
	case edit.RingBellKind:
		if err := l.bell(); err != nil {
			return err
		}
		return l.draw(e.State)
	}
	return nil
}

func (l *loop) bell() error {
	switch l.Context.Prefs.BellStyle {
	case prefs.NoBell:
		return nil
	case prefs.VisualBell:
		return l.Surface.RingBell(false)
	}
	return l.Surface.RingBell(true)
}

// resize re-queries the window and redraws the line when it changed.
func (l *loop) resize() error {
	next := l.Surface.Layout()
	if next == l.layout {
		return nil
	}
	log.Debug("window resized", "columns", next.Columns, "rows", next.Rows)
	if err := l.Surface.Reposition(l.layout, next, l.line); err != nil {
		return err
	}
	l.layout = next
	l.Context.Layout = next
	return nil
}

// finish leaves the line on screen and moves the cursor past it.
func (l *loop) finish() error {
	return l.Surface.MoveCursorPastEnd(l.line)
}

// fail flushes the cursor and returns err. A flush error is only logged so
// the original cause reaches the caller.
func (l *loop) fail(err error) error {
	if ferr := l.finish(); ferr != nil {
		log.Debug("cursor flush failed", "err", ferr)
	}
	return err
}
