package keys

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode_Sequences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"printable", "ab", []Key{Char('a'), Char('b')}},
		{"utf8", "héλ", []Key{Char('h'), Char('é'), Char('λ')}},
		{"enter", "\r", []Key{Named(Enter)}},
		{"ctrl", "\x01\x05\x17", []Key{Ctrl('a'), Ctrl('e'), Ctrl('w')}},
		{"ctrl underscore", "\x1f", []Key{Ctrl('_')}},
		{"backspace", "\x7f", []Key{Named(Backspace)}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []Key{Named(Up), Named(Down), Named(Right), Named(Left)}},
		{"ss3", "\x1bOH\x1bOF", []Key{Named(Home), Named(End)}},
		{"delete", "\x1b[3~", []Key{Named(Delete)}},
		{"ctrl arrow", "\x1b[1;5C", []Key{{Mod: ModCtrl, Name: Right}}},
		{"meta char", "\x1bf", []Key{Meta(Char('f'))}},
		{"meta backspace", "\x1b\x7f", []Key{Meta(Named(Backspace))}},
		{"lone esc", "\x1b", []Key{Named(Esc)}},
		{"double esc", "\x1b\x1b", []Key{Named(Esc), Named(Esc)}},
		{"unknown csi dropped", "\x1b[99zq", []Key{Char('q')}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			got := d.Decode([]byte(tt.in))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_SplitAcrossReads(t *testing.T) {
	var d Decoder
	if got := d.Decode([]byte("\x1b[")); len(got) != 0 {
		t.Fatalf("expected no keys for partial CSI, got %v", got)
	}
	if got := d.Decode([]byte("1;5")); len(got) != 0 {
		t.Fatalf("expected no keys for partial CSI, got %v", got)
	}
	got := d.Decode([]byte("Dx"))
	want := []Key{{Mod: ModCtrl, Name: Left}, Char('x')}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	euro := []byte("€")
	if got := d.Decode(euro[:1]); len(got) != 0 {
		t.Fatalf("expected no keys for partial rune, got %v", got)
	}
	if len(d.Pending()) != 1 {
		t.Fatalf("expected 1 pending byte, got %d", len(d.Pending()))
	}
	got = d.Decode(euro[1:])
	if len(got) != 1 || got[0] != Char('€') {
		t.Fatalf("got %v, want [€]", got)
	}
}

func TestKeyString(t *testing.T) {
	tests := map[Key]string{
		Char('x'):                 "x",
		Ctrl('A'):                 "C-a",
		Meta(Char('f')):           "M-f",
		Named(Up):                 "<up>",
		{Mod: ModShift, Name: F5}: "S-<f5>",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Fatalf("String(%#v) = %q, want %q", k, got, want)
		}
	}
}

func TestIsChar(t *testing.T) {
	if !Char('a').IsChar() {
		t.Fatalf("a should be a char")
	}
	if Ctrl('a').IsChar() || Meta(Char('a')).IsChar() || Named(Enter).IsChar() {
		t.Fatalf("modified or named keys are not chars")
	}
}
