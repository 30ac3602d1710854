package edit

import (
	"testing"

	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/prefs"
	"github.com/flowave-io/lineinput/internal/render"
)

// driver feeds keys through a key map the way the edit loop does.
type driver struct {
	t       *testing.T
	km      KeyMap
	mode    Mode
	state   State
	ctx     *Context
	effects []Effect
	unbound int
	out     Outcome
}

func newDriver(t *testing.T, km KeyMap, mode Mode) *driver {
	t.Helper()
	return &driver{
		t:     t,
		km:    km,
		mode:  mode,
		state: Insert{},
		ctx: &Context{
			Layout: render.Layout{Columns: 80, Rows: 24},
			Prefs:  prefs.Defaults(),
			Kill:   &KillRing{},
		},
	}
}

func (d *driver) press(ks ...keys.Key) *driver {
	d.t.Helper()
	for _, k := range ks {
		if d.out.Done {
			d.t.Fatalf("key %v pressed after the edit finished", k)
		}
		b, ok := d.km.Lookup(d.mode, k)
		if !ok {
			d.unbound++
			continue
		}
		out := b.Do(d.ctx, d.state)
		if out.Effect != nil {
			d.effects = append(d.effects, *out.Effect)
			d.state = out.Effect.State
		}
		d.out = out
		if out.Done {
			return d
		}
		d.mode = Resolve(d.mode, b, out)
	}
	return d
}

func (d *driver) typeText(s string) *driver {
	d.t.Helper()
	for _, r := range s {
		d.press(keys.Char(r))
	}
	return d
}

func (d *driver) lastEffect() Effect {
	d.t.Helper()
	if len(d.effects) == 0 {
		d.t.Fatalf("no effects recorded")
	}
	return d.effects[len(d.effects)-1]
}

func (d *driver) expect(text string, pos int) {
	d.t.Helper()
	b := BufferOf(d.state)
	if b.String() != text || b.Pos() != pos {
		d.t.Fatalf("got %q cursor %d, want %q cursor %d", b.String(), b.Pos(), text, pos)
	}
}

func (d *driver) expectMode(m Mode) {
	d.t.Helper()
	if d.mode != m {
		d.t.Fatalf("mode %v, want %v", d.mode, m)
	}
}

var (
	esc   = keys.Named(keys.Esc)
	enter = keys.Named(keys.Enter)
	tab   = keys.Named(keys.Tab)
)
