package cli

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowave-io/lineinput/internal/encoding/jsonx"
	"github.com/flowave-io/lineinput/internal/interrupt"
	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/prefs"
	"github.com/flowave-io/lineinput/internal/render"
	"github.com/flowave-io/lineinput/internal/term"
	"github.com/flowave-io/lineinput/internal/term/termtest"
	"github.com/flowave-io/lineinput/pkg/lineinput"
)

var screen = render.Layout{Columns: 80, Rows: 24}

func typed(s string) []termtest.Step {
	return append(termtest.Text(s), termtest.Key(keys.Named(keys.Enter)))
}

func runScript(t *testing.T, scripts ...[]termtest.Step) (string, *lineinput.Input) {
	t.Helper()
	out, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	open := func() (term.Device, error) {
		if len(scripts) == 0 {
			return termtest.New(screen), nil
		}
		s := termtest.New(screen, scripts[0]...)
		scripts = scripts[1:]
		return s, nil
	}
	in, err := lineinput.New(lineinput.Settings{},
		lineinput.WithStreams(os.Stdin, out),
		lineinput.WithSurface(open),
		lineinput.WithPreferences(prefs.Defaults()))
	if err != nil {
		t.Fatal(err)
	}
	if err := RunREPL(context.Background(), in); err != nil {
		t.Fatalf("repl: %v", err)
	}
	b, err := os.ReadFile(out.Name())
	if err != nil {
		t.Fatal(err)
	}
	return string(b), in
}

func TestRunREPL_EchoAndHistory(t *testing.T) {
	got, in := runScript(t,
		typed("hello"),
		typed("call(1,"),
		typed("  2)"),
		typed(":history"),
		typed(":quit"),
	)
	want := "hello\ncall(1,\n  2)\n   1  hello\n   2  call(1, 2)\n   3  :history\n"
	if got != want {
		t.Fatalf("output:\n%s\nwant:\n%s", got, want)
	}
	if diff := cmp.Diff([]string{"hello", "call(1, 2)", ":history", ":quit"}, in.History()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestRunREPL_InterruptContinues(t *testing.T) {
	got, _ := runScript(t,
		append(termtest.Text("abandon"), termtest.Fail(interrupt.ErrInterrupted)),
		typed("next"),
	)
	if got != "^C\nnext\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunREPL_ReadChar(t *testing.T) {
	got, _ := runScript(t,
		typed(":char"),
		[]termtest.Step{termtest.Key(keys.Char('z'))},
	)
	if got != "'z' U+007A\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestDumpKeys(t *testing.T) {
	wide := render.Layout{Columns: 100, Rows: 30}
	steps := append([]termtest.Step{
		termtest.Key(keys.Meta(keys.Named(keys.Left))),
		termtest.Resize(wide),
	}, termtest.Text("quit")...)
	steps = append(steps, termtest.Key(keys.Char('!')))
	surf := termtest.New(screen, steps...)
	if err := DumpKeys(context.Background(), surf); err != nil {
		t.Fatal(err)
	}

	var records []keyRecord
	for _, c := range surf.Calls()[1:] {
		var r keyRecord
		if err := jsonx.UnmarshalLine(c.Lines[0], &r); err != nil {
			t.Fatalf("bad record %q: %v", c.Lines[0], err)
		}
		records = append(records, r)
	}
	if len(records) != 6 {
		t.Fatalf("got %d records, want 6 (stopping after quit)", len(records))
	}
	if !strings.Contains(surf.Calls()[1].Lines[0], `"key":"M-<left>"`) {
		t.Fatalf("key name escaped: %s", surf.Calls()[1].Lines[0])
	}
	if diff := cmp.Diff(keyRecord{Event: "key", Key: "M-<left>", Name: "left", Meta: true}, records[0]); diff != "" {
		t.Fatalf("meta-left mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(keyRecord{Event: "resize", Columns: 100, Rows: 30}, records[1]); diff != "" {
		t.Fatalf("resize mismatch (-want +got):\n%s", diff)
	}
	if records[2].Rune != "U+0071" || !strings.Contains(records[2].Key, "q") {
		t.Fatalf("q record = %+v", records[2])
	}
}
