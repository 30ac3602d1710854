package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowave-io/lineinput/internal/complete"
	"github.com/flowave-io/lineinput/internal/edit"
	"github.com/flowave-io/lineinput/internal/history"
	"github.com/flowave-io/lineinput/internal/interrupt"
	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/prefs"
	"github.com/flowave-io/lineinput/internal/render"
	"github.com/flowave-io/lineinput/internal/term/termtest"
)

var (
	screen = render.Layout{Columns: 80, Rows: 24}
	enter  = keys.Named(keys.Enter)
)

func steps(groups ...[]termtest.Step) []termtest.Step {
	var out []termtest.Step
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func emacsSession(surf *termtest.Surface, h *history.History) Session {
	km, mode := edit.ForPrefs(prefs.Defaults())
	c := &edit.Context{Prefs: prefs.Defaults(), Kill: &edit.KillRing{}}
	if h != nil {
		c.History = h.Cursor()
	}
	return Session{
		Surface: surf,
		Prompt:  render.Cells("> "),
		KeyMap:  km,
		Mode:    mode,
		Context: c,
		History: h,
	}
}

func TestRun_AcceptsLineAndRecordsHistory(t *testing.T) {
	h := history.New(0, history.AlwaysAdd)
	surf := termtest.New(screen, steps(termtest.Text("hello"), termtest.Keys(enter))...)
	res, err := Run(context.Background(), emacsSession(surf, h))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Result{Line: "hello", OK: true}, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hello"}, h.Entries()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	if last := surf.Last(); last.Op != "end" {
		t.Fatalf("last op = %q, want end", last.Op)
	}
}

func TestRun_BlankLineNotRecorded(t *testing.T) {
	h := history.New(0, history.AlwaysAdd)
	surf := termtest.New(screen, steps(termtest.Text("   "), termtest.Keys(enter))...)
	res, err := Run(context.Background(), emacsSession(surf, h))
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Line != "   " {
		t.Fatalf("got %+v", res)
	}
	if h.Len() != 0 {
		t.Fatalf("blank line recorded: %q", h.Entries())
	}
}

func TestRun_EndOfInput(t *testing.T) {
	t.Run("ctrl-d on empty line", func(t *testing.T) {
		surf := termtest.New(screen, termtest.Key(keys.Ctrl('d')))
		res, err := Run(context.Background(), emacsSession(surf, nil))
		if err != nil || res.OK {
			t.Fatalf("got %+v, %v; want no input", res, err)
		}
		if surf.Last().Op != "end" {
			t.Fatalf("cursor not flushed: %v", surf.Ops())
		}
	})
	t.Run("surface reaches end", func(t *testing.T) {
		surf := termtest.New(screen, termtest.Text("abc")...)
		res, err := Run(context.Background(), emacsSession(surf, nil))
		if err != nil || res.OK {
			t.Fatalf("got %+v, %v; want no input", res, err)
		}
		if surf.Last().Op != "end" {
			t.Fatalf("cursor not flushed: %v", surf.Ops())
		}
	})
}

func TestRun_InterruptFlushesOnce(t *testing.T) {
	surf := termtest.New(screen, steps(termtest.Text("ab"), []termtest.Step{termtest.Fail(interrupt.ErrInterrupted)})...)
	_, err := Run(context.Background(), emacsSession(surf, nil))
	if !errors.Is(err, interrupt.ErrInterrupted) {
		t.Fatalf("got %v, want ErrInterrupted", err)
	}
	ops := surf.Ops()
	want := []string{"draw", "draw", "draw", "end"}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if got := surf.Last().Line.Cells; render.Width(got) != 4 {
		t.Fatalf("flushed line has width %d, want 4", render.Width(got))
	}
}

func TestRun_ContextCause(t *testing.T) {
	stop := errors.New("stop")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(stop)
	surf := termtest.New(screen, termtest.Text("x")...)
	if _, err := Run(ctx, emacsSession(surf, nil)); !errors.Is(err, stop) {
		t.Fatalf("got %v, want cause", err)
	}
	if diff := cmp.Diff([]string{"draw", "end"}, surf.Ops()); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Resize(t *testing.T) {
	wide := render.Layout{Columns: 120, Rows: 40}
	surf := termtest.New(screen, steps(
		termtest.Text("a"),
		[]termtest.Step{termtest.Resize(screen), termtest.Resize(wide)},
		termtest.Keys(enter),
	)...)
	s := emacsSession(surf, nil)
	res, err := Run(context.Background(), s)
	if err != nil || res.Line != "a" {
		t.Fatalf("got %+v, %v", res, err)
	}
	want := []string{"draw", "draw", "reposition", "draw", "end"}
	if diff := cmp.Diff(want, surf.Ops()); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if s.Context.Layout != wide {
		t.Fatalf("context layout = %+v, want %+v", s.Context.Layout, wide)
	}
	if surf.Screen.Layout() != wide {
		t.Fatalf("screen layout = %+v, want %+v", surf.Screen.Layout(), wide)
	}
}

func TestRun_UnboundKeyRingsBell(t *testing.T) {
	surf := termtest.New(screen, termtest.Key(keys.Ctrl('x')), termtest.Key(keys.Char('y')))
	res, err := Run(context.Background(), Session{
		Surface: surf,
		Prompt:  render.Cells("? "),
		KeyMap:  edit.CharKeyMap(),
		Mode:    edit.ModeChar,
		Context: &edit.Context{Prefs: prefs.Defaults()},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Rune != 'y' {
		t.Fatalf("got %+v, want rune y", res)
	}
	if surf.Bells != 1 {
		t.Fatalf("bells = %d, want 1", surf.Bells)
	}
}

func TestRun_NoBellStyle(t *testing.T) {
	p := prefs.Defaults()
	p.BellStyle = prefs.NoBell
	surf := termtest.New(screen, termtest.Key(keys.Ctrl('x')), termtest.Key(keys.Char('y')))
	_, err := Run(context.Background(), Session{
		Surface: surf,
		KeyMap:  edit.CharKeyMap(),
		Mode:    edit.ModeChar,
		Context: &edit.Context{Prefs: p},
	})
	if err != nil {
		t.Fatal(err)
	}
	if surf.Bells != 0 {
		t.Fatalf("bells = %d, want 0", surf.Bells)
	}
}

func TestRun_ClearScreen(t *testing.T) {
	surf := termtest.New(screen, steps(termtest.Text("ab"), termtest.Keys(keys.Ctrl('l'), enter))...)
	res, err := Run(context.Background(), emacsSession(surf, nil))
	if err != nil || res.Line != "ab" {
		t.Fatalf("got %+v, %v", res, err)
	}
	want := []string{"draw", "draw", "draw", "clear-screen", "draw", "end"}
	if diff := cmp.Diff(want, surf.Ops()); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_CompletionListing(t *testing.T) {
	tab := keys.Named(keys.Tab)
	surf := termtest.New(screen, steps(termtest.Text("al"), termtest.Keys(tab, tab, enter))...)
	s := emacsSession(surf, nil)
	s.Context.Completer = complete.Words("alpha", "alps")
	res, err := Run(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Line != "alp" {
		t.Fatalf("line = %q, want alp", res.Line)
	}
	var printed []string
	for _, c := range surf.Calls() {
		if c.Op == "print" {
			printed = c.Lines
		}
	}
	if len(printed) != 1 || printed[0] == "" {
		t.Fatalf("listing = %q", printed)
	}
}
