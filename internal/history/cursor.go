package history

import "strings"

// Cursor walks a History during one editing session. Position Len() stands
// for the line being edited, which is remembered when the cursor first
// moves away from it.
type Cursor struct {
	h     *History
	idx   int
	saved string
}

// Cursor returns a navigation cursor positioned after the newest entry.
func (h *History) Cursor() *Cursor {
	return &Cursor{h: h, idx: len(h.entries)}
}

// Index returns the current position.
func (c *Cursor) Index() int { return c.idx }

// Previous moves to the next older entry. current is the text being edited.
func (c *Cursor) Previous(current string) (string, bool) {
	if c.idx == 0 || len(c.h.entries) == 0 {
		return "", false
	}
	if c.idx >= len(c.h.entries) {
		c.idx = len(c.h.entries)
		c.saved = current
	}
	c.idx--
	return c.h.entries[c.idx], true
}

// Next moves to the next newer entry, returning the remembered edit line
// after the newest one.
func (c *Cursor) Next(current string) (string, bool) {
	if c.idx >= len(c.h.entries) {
		return "", false
	}
	c.idx++
	if c.idx == len(c.h.entries) {
		return c.saved, true
	}
	return c.h.entries[c.idx], true
}

// Search looks backwards from the entry before from for one containing
// query. It returns the entry, its index and the rune offset of the match.
// The cursor does not move.
func (c *Cursor) Search(query string, from int) (entry string, idx, offset int, ok bool) {
	if from > len(c.h.entries) {
		from = len(c.h.entries)
	}
	for i := from - 1; i >= 0; i-- {
		e := c.h.entries[i]
		if b := strings.LastIndex(e, query); b >= 0 {
			return e, i, len([]rune(e[:b])), true
		}
	}
	return "", -1, 0, false
}

// Jump moves the cursor to idx, remembering current if it leaves the edit line.
func (c *Cursor) Jump(idx int, current string) {
	if c.idx >= len(c.h.entries) && idx < len(c.h.entries) {
		c.saved = current
	}
	c.idx = idx
}
