package render

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// vt is a minimal xterm-like screen used to check what DrawDiff output looks
// like once a terminal has interpreted it. Rows grow without scrolling.
type vt struct {
	cols    int
	grid    [][]string
	r, c    int
	pending bool // xterm's deferred wrap after writing the last column
	bells   int
}

func newVT(cols int) *vt {
	return &vt{cols: cols}
}

func (v *vt) row(r int) []string {
	for len(v.grid) <= r {
		v.grid = append(v.grid, make([]string, v.cols))
	}
	return v.grid[r]
}

func (v *vt) Write(p []byte) (int, error) {
	s := string(p)
	for len(s) > 0 {
		switch {
		case strings.HasPrefix(s, "\x1b["):
			j := 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			v.csi(s[2:j], s[j])
			s = s[j+1:]
		case s[0] == '\r':
			v.c, v.pending = 0, false
			s = s[1:]
		case s[0] == '\n':
			v.r++
			v.pending = false
			s = s[1:]
		case s[0] == '\a':
			v.bells++
			s = s[1:]
		default:
			var g string
			g, s, _, _ = uniseg.FirstGraphemeClusterInString(s, -1)
			v.print(g, runewidth.StringWidth(g))
		}
	}
	return len(p), nil
}

func (v *vt) print(g string, w int) {
	if v.pending {
		v.r++
		v.c = 0
		v.pending = false
	}
	if v.c+w > v.cols {
		v.r++
		v.c = 0
	}
	row := v.row(v.r)
	row[v.c] = g
	for i := 1; i < w && v.c+i < v.cols; i++ {
		row[v.c+i] = "\x00"
	}
	v.c += w
	if v.c >= v.cols {
		v.c = v.cols - 1
		v.pending = true
	}
}

func (v *vt) csi(params string, final byte) {
	n := 1
	if params != "" && params[0] != '?' {
		if x, err := strconv.Atoi(params); err == nil {
			n = x
		}
	}
	switch final {
	case 'A':
		v.r -= n
	case 'B':
		v.r += n
	case 'C':
		v.c += n
		if v.c >= v.cols {
			v.c = v.cols - 1
		}
	case 'D':
		v.c -= n
		if v.c < 0 {
			v.c = 0
		}
	case 'H':
		v.r, v.c = 0, 0
	case 'K':
		row := v.row(v.r)
		for i := v.c; i < v.cols; i++ {
			row[i] = ""
		}
	case 'J':
		if params == "2" {
			v.grid = nil
			return
		}
		row := v.row(v.r)
		for i := v.c; i < v.cols; i++ {
			row[i] = ""
		}
		if v.r+1 < len(v.grid) {
			v.grid = v.grid[:v.r+1]
		}
	}
	v.pending = false
}

// text returns the screen rows with trailing blanks removed. Padding
// spaces and never-written cells are equivalent.
func (v *vt) text() []string {
	var out []string
	for _, row := range v.grid {
		var b strings.Builder
		for _, g := range row {
			switch g {
			case "\x00":
			case "":
				b.WriteByte(' ')
			default:
				b.WriteString(g)
			}
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func (v *vt) cursor() pos {
	return pos{v.r, v.c}
}
