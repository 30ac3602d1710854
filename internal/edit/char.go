package edit

import "github.com/flowave-io/lineinput/internal/keys"

// CharKeyMap returns the bindings for reading a single character. Editing
// starts in ModeChar.
func CharKeyMap() KeyMap {
	return KeyMap{
		ModeChar: &Table{
			Keys: map[keys.Key]Binding{
				keys.Ctrl('l'): bind(clearScreen),
				keys.Ctrl('d'): bind(func(*Context, State) Outcome { return NoInput() }),
			},
			Default: func(k keys.Key) (Binding, bool) {
				r, ok := printable(k)
				if !ok {
					return Binding{}, false
				}
				return bind(func(*Context, State) Outcome {
					return AcceptRune(r, Insert{NewBuffer(string(r))})
				}), true
			},
		},
	}
}
