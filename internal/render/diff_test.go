package render

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var prompt = Cells("> ")

func line(before, after string) Line {
	return LineChars(prompt, before, after)
}

func draw(t *testing.T, v *vt, layout Layout, old, new Line) int {
	t.Helper()
	var buf bytes.Buffer
	if err := DrawDiff(&buf, layout, old, new); err != nil {
		t.Fatalf("DrawDiff: %v", err)
	}
	if _, err := v.Write(buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	return buf.Len()
}

func randomText(r *rand.Rand) string {
	glyphs := []string{"a", "b", "c", " ", "x", "漢", "é", "\x01"}
	var b strings.Builder
	n := r.IntN(26)
	for i := 0; i < n; i++ {
		b.WriteString(glyphs[r.IntN(len(glyphs))])
	}
	return b.String()
}

func randomLine(r *rand.Rand) Line {
	cells := append(append([]Cell{}, prompt...), Cells(randomText(r))...)
	return Line{Cells: cells, Cursor: len(prompt) + r.IntN(len(cells)-len(prompt)+1)}
}

func TestDrawDiff_MatchesFreshDraw(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for _, cols := range []int{4, 5, 10, 80} {
		layout := Layout{Columns: cols, Rows: 24}
		for i := 0; i < 500; i++ {
			old, new := randomLine(r), randomLine(r)

			incremental := newVT(cols)
			draw(t, incremental, layout, Line{}, old)
			draw(t, incremental, layout, old, new)

			fresh := newVT(cols)
			draw(t, fresh, layout, Line{}, new)

			if diff := cmp.Diff(fresh.text(), incremental.text()); diff != "" {
				t.Fatalf("cols=%d old=%q new=%q: screen mismatch (-fresh +incremental):\n%s",
					cols, cellText(old), cellText(new), diff)
			}
			want := layout.positions(new.Cells)[new.Cursor]
			if incremental.cursor() != want || fresh.cursor() != want {
				t.Fatalf("cols=%d new=%q: cursor incremental=%v fresh=%v want=%v",
					cols, cellText(new), incremental.cursor(), fresh.cursor(), want)
			}
		}
	}
}

func TestDrawDiff_Idempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	layout := Layout{Columns: 7, Rows: 24}
	for i := 0; i < 200; i++ {
		old, new := randomLine(r), randomLine(r)
		var buf bytes.Buffer
		if err := DrawDiff(&buf, layout, old, new); err != nil {
			t.Fatal(err)
		}
		buf.Reset()
		if err := DrawDiff(&buf, layout, new, new); err != nil {
			t.Fatal(err)
		}
		if buf.Len() != 0 {
			t.Fatalf("second draw of %q wrote %q", cellText(new), buf.String())
		}
	}
}

func TestDrawDiff_WrapBoundary(t *testing.T) {
	layout := Layout{Columns: 10, Rows: 24}
	v := newVT(10)
	ten := LineChars(nil, "abcdefghij", "")
	eleven := LineChars(nil, "abcdefghijk", "")

	draw(t, v, layout, Line{}, ten)
	if got := v.cursor(); got != (pos{1, 0}) {
		t.Fatalf("after 10 cells cursor at %v, want {1 0}", got)
	}
	draw(t, v, layout, ten, eleven)
	if diff := cmp.Diff([]string{"abcdefghij", "k"}, v.text()); diff != "" {
		t.Fatalf("screen (-want +got):\n%s", diff)
	}
	if got := v.cursor(); got != (pos{1, 1}) {
		t.Fatalf("cursor at %v, want {1 1}", got)
	}

	// moving the cursor back onto the first row and forward again
	mid := LineChars(nil, "abcde", "fghijk")
	draw(t, v, layout, eleven, mid)
	if got := v.cursor(); got != (pos{0, 5}) {
		t.Fatalf("cursor at %v, want {0 5}", got)
	}
}

func TestDrawDiff_WideCellWrapPaintsPadding(t *testing.T) {
	layout := Layout{Columns: 4, Rows: 24}
	tests := []struct {
		name     string
		old, new Line
		want     []string
	}{
		{"at end", line("xx", ""), line("x漢", ""), []string{"> x", "漢"}},
		{"before kept tail", line("xxa", ""), line("x漢", "a"), []string{"> x", "漢a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVT(4)
			draw(t, v, layout, Line{}, tt.old)
			draw(t, v, layout, tt.old, tt.new)
			if diff := cmp.Diff(tt.want, v.text()); diff != "" {
				t.Fatalf("screen (-want +got):\n%s", diff)
			}
			if got, want := v.cursor(), layout.positions(tt.new.Cells)[tt.new.Cursor]; got != want {
				t.Fatalf("cursor at %v, want %v", got, want)
			}
		})
	}
}

func TestDrawDiff_WritesOnlyTheChange(t *testing.T) {
	layout := Layout{Columns: 80, Rows: 24}
	tests := []struct {
		name     string
		old, new Line
		want     string
	}{
		{"insert mid", line("a", "b"), line("ax", "b"), "xb\x1b[D"},
		{"replace same width", line("abc", ""), line("aXc", ""), "\x1b[2DX\x1b[C"},
		{"shrink erases", line("abcdef", ""), line("abc", ""), "\x1b[3D\x1b[J"},
		{"cursor only", line("abc", ""), line("a", "bc"), "\x1b[2D"},
		{"to column zero", line("", "abc"), Line{Cells: prompt[:0]}, "\r\x1b[J"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := DrawDiff(&buf, layout, tt.old, tt.new); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveCursorPastEnd(t *testing.T) {
	layout := Layout{Columns: 10, Rows: 24}
	tests := []struct {
		name string
		l    Line
		want pos
	}{
		{"empty", Line{}, pos{1, 0}},
		{"mid cursor", LineChars(nil, "ab", "cd"), pos{1, 0}},
		{"wrapped", LineChars(nil, "abc", "defghijklm"), pos{2, 0}},
		{"exact row", LineChars(nil, "abcdefghij", ""), pos{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVT(10)
			draw(t, v, layout, Line{}, tt.l)
			var buf bytes.Buffer
			if err := MoveCursorPastEnd(&buf, layout, tt.l); err != nil {
				t.Fatal(err)
			}
			v.Write(buf.Bytes())
			if got := v.cursor(); got != tt.want {
				t.Fatalf("cursor at %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClearRegionAndReposition(t *testing.T) {
	small := Layout{Columns: 6, Rows: 24}
	l := LineChars(prompt, "hello wor", "ld")

	v := newVT(6)
	draw(t, v, small, Line{}, l)
	var buf bytes.Buffer
	if err := ClearRegion(&buf, small, l); err != nil {
		t.Fatal(err)
	}
	v.Write(buf.Bytes())
	if len(v.text()) != 0 || v.cursor() != (pos{}) {
		t.Fatalf("after clear: text=%q cursor=%v", v.text(), v.cursor())
	}

	// a terminal that does not reflow keeps the old rows until redrawn
	v = newVT(6)
	draw(t, v, small, Line{}, l)
	wide := Layout{Columns: 20, Rows: 24}
	buf.Reset()
	if err := Reposition(&buf, small, wide, l); err != nil {
		t.Fatal(err)
	}
	v.cols = 20
	for i := range v.grid {
		v.grid[i] = append(v.grid[i], make([]string, 14)...)
	}
	v.Write(buf.Bytes())
	if diff := cmp.Diff([]string{"> hello world"}, v.text()); diff != "" {
		t.Fatalf("screen (-want +got):\n%s", diff)
	}
	if got := v.cursor(); got != (pos{0, 11}) {
		t.Fatalf("cursor at %v, want {0 11}", got)
	}
}

func TestClearScreen(t *testing.T) {
	layout := Layout{Columns: 20, Rows: 24}
	v := newVT(20)
	draw(t, v, layout, Line{}, line("junk", ""))
	v.Write([]byte("\r\nmore junk"))
	var buf bytes.Buffer
	if err := ClearScreen(&buf, layout, line("ok", "")); err != nil {
		t.Fatal(err)
	}
	v.Write(buf.Bytes())
	if diff := cmp.Diff([]string{"> ok"}, v.text()); diff != "" {
		t.Fatalf("screen (-want +got):\n%s", diff)
	}
}

func cellText(l Line) string {
	var b strings.Builder
	for i, c := range l.Cells {
		if i == l.Cursor {
			b.WriteString("|")
		}
		b.WriteString(c.Glyph)
	}
	if l.Cursor == len(l.Cells) {
		b.WriteString("|")
	}
	return b.String()
}
