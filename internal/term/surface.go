// Package term is the terminal side of the line editor: reading key events,
// querying the window size and drawing lines with ANSI sequences.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/render"
)

// ErrNoTerminal is returned by Open when input is not an interactive
// terminal with echo enabled.
var ErrNoTerminal = errors.New("not an interactive terminal")

// Surface is what an editing session draws on and reads from.
type Surface interface {
	// Layout queries the current window size.
	Layout() render.Layout
	// NextEvent blocks for the next key or resize. It returns io.EOF at end
	// of input, interrupt.ErrInterrupted on Ctrl-C and the context's cause
	// when ctx is done.
	NextEvent(ctx context.Context) (keys.Event, error)
	DrawDiff(old, new render.Line) error
	MoveCursorPastEnd(l render.Line) error
	// ClearRegion erases the rows l occupies, leaving the cursor at its start.
	ClearRegion(l render.Line) error
	// ClearScreen clears the whole window and draws l at the top.
	ClearScreen(l render.Line) error
	// PrintLines writes lines at the cursor, each followed by a line break.
	PrintLines(lines []string) error
	RingBell(audible bool) error
	// Reposition redraws l after the window size changed from old to new.
	Reposition(old, new render.Layout, l render.Line) error
}

// Device is a Surface holding terminal resources until Close.
type Device interface {
	Surface
	Close() error
}

// Screen implements the drawing half of Surface by writing ANSI sequences
// to w. Each operation is written in one flush.
type Screen struct {
	w      *bufio.Writer
	layout render.Layout
}

// NewScreen returns a screen drawing on w laid out for layout.
func NewScreen(w io.Writer, layout render.Layout) *Screen {
	return &Screen{w: bufio.NewWriter(w), layout: layout}
}

// Layout returns the layout lines are currently drawn with.
func (s *Screen) Layout() render.Layout { return s.layout }

func (s *Screen) do(op string, f func(io.Writer) error) error {
	if err := f(s.w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Screen) DrawDiff(old, new render.Line) error {
	return s.do("draw", func(w io.Writer) error { return render.DrawDiff(w, s.layout, old, new) })
}

func (s *Screen) MoveCursorPastEnd(l render.Line) error {
	return s.do("move cursor", func(w io.Writer) error { return render.MoveCursorPastEnd(w, s.layout, l) })
}

func (s *Screen) ClearRegion(l render.Line) error {
	return s.do("clear line", func(w io.Writer) error { return render.ClearRegion(w, s.layout, l) })
}

func (s *Screen) ClearScreen(l render.Line) error {
	return s.do("clear screen", func(w io.Writer) error { return render.ClearScreen(w, s.layout, l) })
}

func (s *Screen) PrintLines(lines []string) error {
	return s.do("print", func(w io.Writer) error {
		for _, l := range lines {
			if _, err := io.WriteString(w, crlf(l)+"\r\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

const (
	// reverseVideo is DECSCNM; setting it swaps the screen colors.
	reverseVideo = ansi.DECMode(5)
	flashPeriod  = 100 * time.Millisecond
)

// RingBell beeps, or when audible is false flashes the window.
func (s *Screen) RingBell(audible bool) error {
	if audible {
		return s.do("bell", func(w io.Writer) error {
			_, err := w.Write([]byte{ansi.BEL})
			return err
		})
	}
	if err := s.do("bell", func(w io.Writer) error {
		_, err := io.WriteString(w, ansi.SetMode(reverseVideo))
		return err
	}); err != nil {
		return err
	}
	time.Sleep(flashPeriod)
	return s.do("bell", func(w io.Writer) error {
		_, err := io.WriteString(w, ansi.ResetMode(reverseVideo))
		return err
	})
}

func (s *Screen) Reposition(old, new render.Layout, l render.Line) error {
	s.layout = new
	return s.do("reposition", func(w io.Writer) error { return render.Reposition(w, old, new, l) })
}

// crlf turns bare line feeds into CRLF, as output processing is off while
// a line is being edited.
func crlf(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	prev := byte(0)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\n' && prev != '\r' {
			b.WriteByte('\r')
		}
		b.WriteByte(ch)
		prev = ch
	}
	return b.String()
}
