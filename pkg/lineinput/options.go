package lineinput

import (
	"os"

	"github.com/flowave-io/lineinput/internal/term"
)

type options struct {
	in, out *os.File
	prefs   *Preferences
	open    func() (term.Device, error)
}

// Option adjusts how New sets up an Input.
type Option func(*options)

// WithStreams reads from in and writes to out instead of stdin and stdout.
func WithStreams(in, out *os.File) Option {
	return func(o *options) { o.in, o.out = in, out }
}

// WithPreferences uses p and skips the preferences file.
func WithPreferences(p Preferences) Option {
	return func(o *options) { o.prefs = &p }
}

// WithSurface replaces terminal acquisition. open is called once per input
// call; returning term.ErrNoTerminal selects the plain reader.
func WithSurface(open func() (term.Device, error)) Option {
	return func(o *options) { o.open = open }
}
