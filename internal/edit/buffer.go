package edit

import (
	"unicode"
)

// Buffer is an immutable line of text with a cursor position counted in
// runes. Every edit returns a new Buffer.
type Buffer struct {
	text []rune
	pos  int
}

// NewBuffer returns a buffer holding s with the cursor at the end.
func NewBuffer(s string) Buffer {
	r := []rune(s)
	return Buffer{text: r, pos: len(r)}
}

// BufferAt returns a buffer holding s with the cursor at pos (clamped).
func BufferAt(s string, pos int) Buffer {
	return Buffer{text: []rune(s)}.MoveTo(pos)
}

func (b Buffer) String() string { return string(b.text) }

// Before returns the text left of the cursor.
func (b Buffer) Before() string { return string(b.text[:b.pos]) }

// After returns the text from the cursor on.
func (b Buffer) After() string { return string(b.text[b.pos:]) }

// Pos returns the cursor position.
func (b Buffer) Pos() int { return b.pos }

// Len returns the number of runes.
func (b Buffer) Len() int { return len(b.text) }

// At returns the rune at i.
func (b Buffer) At(i int) (rune, bool) {
	if i < 0 || i >= len(b.text) {
		return 0, false
	}
	return b.text[i], true
}

// Slice returns the text between from and to, in either order.
func (b Buffer) Slice(from, to int) string {
	lo, hi := b.span(from, to)
	return string(b.text[lo:hi])
}

// MoveTo places the cursor at p, clamped to the text.
func (b Buffer) MoveTo(p int) Buffer {
	b.pos = max(0, min(p, len(b.text)))
	return b
}

// Insert adds s at the cursor and moves the cursor past it.
func (b Buffer) Insert(s string) Buffer {
	ins := []rune(s)
	text := make([]rune, 0, len(b.text)+len(ins))
	text = append(text, b.text[:b.pos]...)
	text = append(text, ins...)
	text = append(text, b.text[b.pos:]...)
	return Buffer{text: text, pos: b.pos + len(ins)}
}

// Delete removes the runes between from and to, in either order, and
// returns the removed text. The cursor ends at the start of the removed
// span when it was inside or after it.
func (b Buffer) Delete(from, to int) (Buffer, string) {
	lo, hi := b.span(from, to)
	if lo == hi {
		return b, ""
	}
	killed := string(b.text[lo:hi])
	text := make([]rune, 0, len(b.text)-(hi-lo))
	text = append(text, b.text[:lo]...)
	text = append(text, b.text[hi:]...)
	pos := b.pos
	switch {
	case pos >= hi:
		pos -= hi - lo
	case pos > lo:
		pos = lo
	}
	return Buffer{text: text, pos: pos}, killed
}

// Set replaces the rune at i.
func (b Buffer) Set(i int, r rune) Buffer {
	if i < 0 || i >= len(b.text) {
		return b
	}
	text := append([]rune(nil), b.text...)
	text[i] = r
	return Buffer{text: text, pos: b.pos}
}

// Transpose swaps the runes around the cursor, or the last two at the end
// of the line, and advances the cursor.
func (b Buffer) Transpose() Buffer {
	if b.pos == 0 || len(b.text) < 2 {
		return b
	}
	p := b.pos
	if p == len(b.text) {
		p--
	}
	text := append([]rune(nil), b.text...)
	text[p-1], text[p] = text[p], text[p-1]
	return Buffer{text: text, pos: p + 1}
}

func (b Buffer) span(from, to int) (int, int) {
	if from > to {
		from, to = to, from
	}
	return max(0, from), min(to, len(b.text))
}

// charClass groups runes for word motions: 0 whitespace, 1 word, 2 other.
func charClass(r rune) int {
	switch {
	case unicode.IsSpace(r):
		return 0
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return 1
	}
	return 2
}

func (b Buffer) class(i int) int { return charClass(b.text[i]) }

// WordStart is the start of the word before the cursor (vi "b").
func (b Buffer) WordStart() int {
	i := b.pos - 1
	for i > 0 && b.class(i) == 0 {
		i--
	}
	if i <= 0 {
		return 0
	}
	c := b.class(i)
	for i > 0 && b.class(i-1) == c {
		i--
	}
	return i
}

// NextWord is the start of the next word (vi "w").
func (b Buffer) NextWord() int {
	i := b.pos
	if i >= len(b.text) {
		return len(b.text)
	}
	c := b.class(i)
	for i < len(b.text) && b.class(i) == c && c != 0 {
		i++
	}
	for i < len(b.text) && b.class(i) == 0 {
		i++
	}
	return i
}

// WordEnd is the last rune of the current or next word (vi "e").
func (b Buffer) WordEnd() int {
	n := len(b.text)
	if n == 0 {
		return 0
	}
	i := b.pos + 1
	for i < n && b.class(i) == 0 {
		i++
	}
	if i >= n {
		return n - 1
	}
	c := b.class(i)
	for i+1 < n && b.class(i+1) == c {
		i++
	}
	return i
}

// BigWordStart is like WordStart with words separated only by whitespace
// (vi "B", and the unix word rubout of C-w).
func (b Buffer) BigWordStart() int {
	i := b.pos - 1
	for i > 0 && b.class(i) == 0 {
		i--
	}
	for i > 0 && b.class(i-1) != 0 {
		i--
	}
	return max(i, 0)
}

// NextBigWord is the start of the next whitespace-separated word (vi "W").
func (b Buffer) NextBigWord() int {
	i := b.pos
	for i < len(b.text) && b.class(i) != 0 {
		i++
	}
	for i < len(b.text) && b.class(i) == 0 {
		i++
	}
	return i
}

// BigWordEnd is the last rune of the current or next whitespace-separated
// word (vi "E").
func (b Buffer) BigWordEnd() int {
	n := len(b.text)
	if n == 0 {
		return 0
	}
	i := b.pos + 1
	for i < n && b.class(i) == 0 {
		i++
	}
	if i >= n {
		return n - 1
	}
	for i+1 < n && b.class(i+1) != 0 {
		i++
	}
	return i
}

// BackwardWord is the start of the alphanumeric word before the cursor
// (emacs M-b).
func (b Buffer) BackwardWord() int {
	i := b.pos
	for i > 0 && b.class(i-1) != 1 {
		i--
	}
	for i > 0 && b.class(i-1) == 1 {
		i--
	}
	return i
}

// ForwardWord is the end of the alphanumeric word at or after the cursor
// (emacs M-f).
func (b Buffer) ForwardWord() int {
	i := b.pos
	for i < len(b.text) && b.class(i) != 1 {
		i++
	}
	for i < len(b.text) && b.class(i) == 1 {
		i++
	}
	return i
}

// FirstNonBlank is the first rune that is not whitespace (vi "^").
func (b Buffer) FirstNonBlank() int {
	for i, r := range b.text {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return len(b.text)
}
