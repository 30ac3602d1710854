package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCells(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Cell
	}{
		{"ascii", "ab", []Cell{{"a", 1}, {"b", 1}}},
		{"wide", "漢字", []Cell{{"漢", 2}, {"字", 2}}},
		{"combining", "éx", []Cell{{"é", 1}, {"x", 1}}},
		{"control", "a\x01\x7f", []Cell{{"a", 1}, {"^A", 2}, {"^?", 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Cells(tt.in)); diff != "" {
				t.Fatalf("cells (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPromptCells_KeepsEscapesZeroWidth(t *testing.T) {
	got := PromptCells("\x1b[1;32m>\x1b[0m ")
	want := []Cell{{"\x1b[1;32m>", 1}, {"\x1b[0m ", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cells (-want +got):\n%s", diff)
	}
	if w := Width(got); w != 2 {
		t.Fatalf("width %d, want 2", w)
	}

	trailing := PromptCells("$\x1b[0m")
	if len(trailing) != 1 || trailing[0].Glyph != "$\x1b[0m" {
		t.Fatalf("trailing escape not attached: %#v", trailing)
	}
}

func TestPromptCells_OSCAndWide(t *testing.T) {
	got := PromptCells("\x1b]0;repl\a漢\x1b[31m>")
	want := []Cell{{"\x1b]0;repl\a漢", 2}, {"\x1b[31m>", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cells (-want +got):\n%s", diff)
	}
}

func TestLineChars_CursorIndex(t *testing.T) {
	l := LineChars(Cells("> "), "ab", "c")
	if l.Cursor != 4 || len(l.Cells) != 5 {
		t.Fatalf("got cursor %d of %d cells, want 4 of 5", l.Cursor, len(l.Cells))
	}
}

func TestPositions_WideCharWrapsWhole(t *testing.T) {
	layout := Layout{Columns: 3}
	ps := layout.positions(Cells("ab漢"))
	want := []pos{{0, 0}, {0, 1}, {1, 0}, {1, 2}}
	if diff := cmp.Diff(want, ps, cmp.AllowUnexported(pos{})); diff != "" {
		t.Fatalf("positions (-want +got):\n%s", diff)
	}
}
