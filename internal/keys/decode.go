package keys

import (
	"unicode/utf8"
)

type escapeSequence struct {
	seq  string
	name Name
	mod  Modifier
}

// CSI sequences, the part after ESC [.
var csiSequences = []escapeSequence{
	{"A", Up, ModNone},
	{"B", Down, ModNone},
	{"C", Right, ModNone},
	{"D", Left, ModNone},
	{"H", Home, ModNone},
	{"F", End, ModNone},
	{"Z", BackTab, ModShift},

	{"1;2A", Up, ModShift},
	{"1;2B", Down, ModShift},
	{"1;2C", Right, ModShift},
	{"1;2D", Left, ModShift},
	{"1;3A", Up, ModMeta},
	{"1;3B", Down, ModMeta},
	{"1;3C", Right, ModMeta},
	{"1;3D", Left, ModMeta},
	{"1;5A", Up, ModCtrl},
	{"1;5B", Down, ModCtrl},
	{"1;5C", Right, ModCtrl},
	{"1;5D", Left, ModCtrl},

	{"1~", Home, ModNone},
	{"2~", Insert, ModNone},
	{"3~", Delete, ModNone},
	{"4~", End, ModNone},
	{"5~", PageUp, ModNone},
	{"6~", PageDown, ModNone},
	{"7~", Home, ModNone},
	{"8~", End, ModNone},

	{"11~", F1, ModNone},
	{"12~", F2, ModNone},
	{"13~", F3, ModNone},
	{"14~", F4, ModNone},
	{"15~", F5, ModNone},
	{"17~", F6, ModNone},
	{"18~", F7, ModNone},
	{"19~", F8, ModNone},
	{"20~", F9, ModNone},
	{"21~", F10, ModNone},
	{"23~", F11, ModNone},
	{"24~", F12, ModNone},
}

// SS3 sequences, the part after ESC O.
var ss3Sequences = []escapeSequence{
	{"A", Up, ModNone},
	{"B", Down, ModNone},
	{"C", Right, ModNone},
	{"D", Left, ModNone},
	{"H", Home, ModNone},
	{"F", End, ModNone},
	{"P", F1, ModNone},
	{"Q", F2, ModNone},
	{"R", F3, ModNone},
	{"S", F4, ModNone},
}

var (
	csiMap = buildSequenceMap(csiSequences)
	ss3Map = buildSequenceMap(ss3Sequences)
)

func buildSequenceMap(seqs []escapeSequence) map[string]escapeSequence {
	m := make(map[string]escapeSequence, len(seqs))
	for _, s := range seqs {
		m[s.seq] = s
	}
	return m
}

// Decoder turns raw terminal bytes into keys. Bytes that end in the middle
// of a UTF-8 sequence or a CSI sequence are held until the next Decode call.
// A lone ESC at the end of a chunk is reported as the Esc key, since
// terminals send escape sequences in a single write.
type Decoder struct {
	pending []byte
}

// Decode appends p to any held bytes and returns the complete keys found.
func (d *Decoder) Decode(p []byte) []Key {
	buf := append(d.pending, p...)
	d.pending = nil
	var out []Key
	for len(buf) > 0 {
		k, n, ok := decodeOne(buf)
		if !ok {
			d.pending = append([]byte(nil), buf...)
			break
		}
		buf = buf[n:]
		if n > 0 && k != (Key{}) {
			out = append(out, k)
		}
	}
	return out
}

// Pending returns the bytes held back from the last Decode call.
func (d *Decoder) Pending() []byte { return d.pending }

// decodeOne decodes the key at the start of buf. ok is false when buf holds
// an incomplete sequence.
func decodeOne(buf []byte) (Key, int, bool) {
	b := buf[0]
	switch {
	case b == 0x1b:
		return decodeEscape(buf)
	case b == '\r':
		return Named(Enter), 1, true
	case b == '\t':
		return Named(Tab), 1, true
	case b == 0x7f:
		return Named(Backspace), 1, true
	case b == 0:
		return Ctrl(' '), 1, true
	case b < 0x20:
		// 0x01..0x1a are Ctrl-A..Ctrl-Z, the rest are Ctrl with punctuation
		if b <= 0x1a {
			return Ctrl(rune('a' + b - 1)), 1, true
		}
		return Ctrl(rune(b + 0x40)), 1, true
	case b < utf8.RuneSelf:
		return Char(rune(b)), 1, true
	}
	if !utf8.FullRune(buf) {
		return Key{}, 0, false
	}
	r, n := utf8.DecodeRune(buf)
	if r == utf8.RuneError && n == 1 {
		return Key{}, 1, true
	}
	return Char(r), n, true
}

func decodeEscape(buf []byte) (Key, int, bool) {
	if len(buf) == 1 {
		return Named(Esc), 1, true
	}
	switch buf[1] {
	case '[':
		// parameters and intermediates until a final byte in 0x40..0x7e
		for i := 2; i < len(buf); i++ {
			c := buf[i]
			if c >= 0x40 && c <= 0x7e {
				s, ok := csiMap[string(buf[2:i+1])]
				if !ok {
					return Key{}, i + 1, true
				}
				return Key{Mod: s.mod, Name: s.name}, i + 1, true
			}
		}
		return Key{}, 0, false
	case 'O':
		if len(buf) < 3 {
			return Key{}, 0, false
		}
		s, ok := ss3Map[string(buf[2:3])]
		if !ok {
			return Key{}, 3, true
		}
		return Key{Mod: s.mod, Name: s.name}, 3, true
	case 0x1b:
		return Named(Esc), 1, true
	}
	k, n, ok := decodeOne(buf[1:])
	if !ok {
		return Key{}, 0, false
	}
	return Meta(k), n + 1, true
}
