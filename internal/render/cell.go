// Package render computes the display cells of an input line and the
// terminal output needed to move the screen from one line to another.
package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell is one grapheme as it appears on screen.
type Cell struct {
	Glyph string // bytes written to the terminal
	Width int    // columns occupied, 0..2
}

// Line is the rendering of a prompt plus an edit buffer.
// Cursor is the index of the cell the terminal cursor sits on; len(Cells)
// means after the last cell.
type Line struct {
	Cells  []Cell
	Cursor int
}

// Layout is the size of the terminal window.
type Layout struct {
	Columns int
	Rows    int
}

func (l Layout) width() int {
	if l.Columns < 1 {
		return 1
	}
	return l.Columns
}

// Cells splits s into grapheme cells. Control characters are shown in caret form.
func Cells(s string) []Cell {
	var out []Cell
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cellFor(cluster))
	}
	return out
}

func cellFor(cluster string) Cell {
	if len(cluster) == 1 {
		b := cluster[0]
		switch {
		case b == 0x7f:
			return Cell{Glyph: "^?", Width: 2}
		case b < 0x20:
			return Cell{Glyph: "^" + string(rune(b+0x40)), Width: 2}
		}
	}
	w := runewidth.StringWidth(cluster)
	if w > 2 {
		w = 2
	}
	return Cell{Glyph: cluster, Width: w}
}

// PromptCells is Cells for prompt text that may carry escape sequences
// (colors, titles). Sequences are kept as zero-width prefixes of the
// following glyph.
func PromptCells(s string) []Cell {
	var out []Cell
	var esc, text strings.Builder
	flush := func() {
		cells := Cells(text.String())
		text.Reset()
		if esc.Len() > 0 && len(cells) > 0 {
			cells[0].Glyph = esc.String() + cells[0].Glyph
			esc.Reset()
		}
		out = append(out, cells...)
	}
	var state byte
	for len(s) > 0 {
		seq, _, n, next := ansi.DecodeSequence(s, state, nil)
		if n <= 0 {
			text.WriteString(s)
			break
		}
		state = next
		if len(seq) > 0 && seq[0] == ansi.ESC {
			flush()
			esc.WriteString(seq)
		} else {
			text.WriteString(seq)
		}
		s = s[n:]
	}
	flush()
	if esc.Len() > 0 {
		if len(out) > 0 {
			out[len(out)-1].Glyph += esc.String()
		} else {
			out = append(out, Cell{Glyph: esc.String()})
		}
	}
	return out
}

// LineChars renders prefix followed by the text on each side of the cursor.
func LineChars(prefix []Cell, before, after string) Line {
	b := Cells(before)
	a := Cells(after)
	cells := make([]Cell, 0, len(prefix)+len(b)+len(a))
	cells = append(cells, prefix...)
	cells = append(cells, b...)
	cursor := len(cells)
	cells = append(cells, a...)
	return Line{Cells: cells, Cursor: cursor}
}

// Width returns the number of columns the cells occupy unwrapped.
func Width(cells []Cell) int {
	n := 0
	for _, c := range cells {
		n += c.Width
	}
	return n
}
