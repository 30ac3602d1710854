package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// pos is a screen position relative to the first row of the line.
type pos struct {
	row, col int
}

func (p pos) before(q pos) bool {
	return p.row < q.row || (p.row == q.row && p.col < q.col)
}

// positions returns the screen position of every cell plus the position
// just past the last one. A cell that does not fit in the rest of a row
// starts the next row; a row that is filled exactly moves the cursor to the
// start of the next row.
func (l Layout) positions(cells []Cell) []pos {
	cols := l.width()
	ps := make([]pos, len(cells)+1)
	r, c := 0, 0
	for i, cell := range cells {
		if cell.Width > 0 && c > 0 && c+cell.Width > cols {
			r++
			c = 0
		}
		ps[i] = pos{r, c}
		c += cell.Width
		if c >= cols {
			r++
			c = 0
		}
	}
	ps[len(cells)] = pos{r, c}
	return ps
}

// after returns where the cursor is once the first n cells are written,
// before the next cell is placed. It differs from ps[n] when cell n is wide
// and wraps: the columns it skips still have to be painted over.
func (l Layout) after(ps []pos, cells []Cell, n int) pos {
	if n == 0 {
		return pos{}
	}
	p := ps[n-1]
	p.col += cells[n-1].Width
	if p.col >= l.width() {
		return pos{p.row + 1, 0}
	}
	return p
}

// painter emits cursor motion and glyphs while tracking where the cursor is.
type painter struct {
	buf  bytes.Buffer
	cols int
	cur  pos
}

func (p *painter) moveTo(t pos) {
	switch {
	case t.row < p.cur.row:
		p.buf.WriteString(ansi.CursorUp(p.cur.row - t.row))
	case t.row > p.cur.row:
		p.buf.WriteString(ansi.CursorDown(t.row - p.cur.row))
	}
	switch {
	case t.col == p.cur.col:
	case t.col == 0:
		p.buf.WriteByte(ansi.CR)
	case t.col > p.cur.col:
		p.buf.WriteString(ansi.CursorForward(t.col - p.cur.col))
	default:
		p.buf.WriteString(ansi.CursorBackward(p.cur.col - t.col))
	}
	p.cur = t
}

// eraseBelow clears from the cursor to the end of the screen.
func (p *painter) eraseBelow() {
	p.buf.WriteString(ansi.EraseScreenBelow)
}

func (p *painter) newline() {
	p.buf.WriteString("\r\n")
	p.cur = pos{p.cur.row + 1, 0}
}

// put writes cells from the current position, mirroring Layout.positions.
func (p *painter) put(cells []Cell) {
	for _, cell := range cells {
		if cell.Width > 0 && p.cur.col > 0 && p.cur.col+cell.Width > p.cols {
			p.buf.WriteString(strings.Repeat(" ", p.cols-p.cur.col))
			p.newline()
		}
		p.buf.WriteString(cell.Glyph)
		p.cur.col += cell.Width
		if p.cur.col >= p.cols {
			p.newline()
		}
	}
}

func (p *painter) flush(w io.Writer) error {
	if p.buf.Len() == 0 {
		return nil
	}
	_, err := w.Write(p.buf.Bytes())
	return err
}

func clampCursor(l Line) int {
	switch {
	case l.Cursor < 0:
		return 0
	case l.Cursor > len(l.Cells):
		return len(l.Cells)
	}
	return l.Cursor
}

func newPainter(layout Layout, l Line) (*painter, []pos) {
	ps := layout.positions(l.Cells)
	return &painter{cols: layout.width(), cur: ps[clampCursor(l)]}, ps
}

// DrawDiff writes the output that turns a screen showing old into one
// showing new. Only cells that differ are written: the common leading run is
// skipped, and the common trailing run is skipped too when it keeps its
// screen position. The cursor ends on new.Cursor. DrawDiff(new, new) writes
// nothing.
func DrawDiff(w io.Writer, layout Layout, old, new Line) error {
	p := drawDiff(layout, old, new)
	return p.flush(w)
}

func drawDiff(layout Layout, old, new Line) *painter {
	p, op := newPainter(layout, old)
	np := layout.positions(new.Cells)

	pre := 0
	for pre < len(old.Cells) && pre < len(new.Cells) && old.Cells[pre] == new.Cells[pre] {
		pre++
	}
	suf := 0
	for suf < len(old.Cells)-pre && suf < len(new.Cells)-pre &&
		old.Cells[len(old.Cells)-1-suf] == new.Cells[len(new.Cells)-1-suf] {
		suf++
	}
	oldEnd, newEnd := len(old.Cells)-suf, len(new.Cells)-suf

	switch {
	case pre == oldEnd && pre == newEnd:
		// identical cells, cursor motion only
	case suf > 0 && op[oldEnd] == np[newEnd]:
		p.moveTo(layout.after(np, new.Cells, pre))
		p.put(new.Cells[pre:newEnd])
	default:
		p.moveTo(layout.after(np, new.Cells, pre))
		p.put(new.Cells[pre:])
		if p.cur.before(op[len(old.Cells)]) {
			p.eraseBelow()
		}
	}
	p.moveTo(np[clampCursor(new)])
	return p
}

// MoveCursorPastEnd leaves l on screen and puts the cursor at the start of
// the row below it.
func MoveCursorPastEnd(w io.Writer, layout Layout, l Line) error {
	p, ps := newPainter(layout, l)
	end := ps[len(l.Cells)]
	p.moveTo(end)
	if end.col != 0 || end.row == 0 {
		p.newline()
	}
	return p.flush(w)
}

// ClearRegion erases the rows l occupies and leaves the cursor where the
// line started.
func ClearRegion(w io.Writer, layout Layout, l Line) error {
	p, _ := newPainter(layout, l)
	p.moveTo(pos{})
	p.eraseBelow()
	return p.flush(w)
}

// ClearScreen clears the whole screen and draws l at the top.
func ClearScreen(w io.Writer, layout Layout, l Line) error {
	p := drawDiff(layout, Line{}, l)
	if _, err := io.WriteString(w, ansi.CursorHomePosition+ansi.EraseEntireScreen); err != nil {
		return err
	}
	return p.flush(w)
}

// Reposition redraws l after the window changed from old to new. The cursor
// is taken back to the start of the line as laid out under old, everything
// below is erased and l is drawn again under new.
func Reposition(w io.Writer, old, new Layout, l Line) error {
	p, _ := newPainter(old, l)
	p.moveTo(pos{})
	p.eraseBelow()
	q := drawDiff(new, Line{}, l)
	p.buf.Write(q.buf.Bytes())
	return p.flush(w)
}
