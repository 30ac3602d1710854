//go:build darwin || linux

package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/muesli/cancelreader"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"

	"github.com/flowave-io/lineinput/internal/interrupt"
	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/render"
	"github.com/flowave-io/lineinput/pkg/log"
)

var defaultLayout = render.Layout{Columns: 80, Rows: 24}

type tty struct {
	*Screen

	in     *os.File
	out    *os.File
	devTTY *os.File // opened when out is not the terminal
	fd     int
	saved  *unix.Termios

	reader cancelreader.CancelReader
	events chan keys.Event
	err    error // read error, valid once events is closed
	wg     sync.WaitGroup

	sigint   chan os.Signal
	sigwinch chan os.Signal
}

// Open puts the terminal behind in into raw mode and returns a Device that
// reads keys from it. Output goes to out, or to /dev/tty when out is not a
// terminal. ErrNoTerminal is returned when in is not a terminal or has echo
// turned off.
func Open(in, out *os.File) (Device, error) {
	fd := int(in.Fd())
	if !isatty.IsTerminal(in.Fd()) {
		return nil, ErrNoTerminal
	}
	saved, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("read terminal attributes: %w", err)
	}
	if saved.Lflag&unix.ECHO == 0 {
		return nil, ErrNoTerminal
	}

	t := &tty{in: in, out: out, fd: fd, saved: saved}
	if !isatty.IsTerminal(out.Fd()) {
		f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("open /dev/tty: %w", err)
		}
		t.devTTY = f
		t.out = f
	}

	raw := *saved
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	raw.Iflag &^= unix.IXON | unix.ICRNL
	raw.Oflag &^= unix.OPOST
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		t.closeDevTTY()
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	r, err := cancelreader.NewReader(in)
	if err != nil {
		_ = unix.IoctlSetTermios(fd, ioctlSetTermios, saved)
		t.closeDevTTY()
		return nil, fmt.Errorf("terminal reader: %w", err)
	}
	t.reader = r
	t.Screen = NewScreen(t.out, defaultLayout)
	t.Screen.layout = t.Layout()

	t.sigint = make(chan os.Signal, 1)
	t.sigwinch = make(chan os.Signal, 1)
	signal.Notify(t.sigint, os.Interrupt)
	signal.Notify(t.sigwinch, unix.SIGWINCH)

	t.events = make(chan keys.Event, 64)
	t.wg.Add(1)
	go t.readLoop()
	return t, nil
}

func (t *tty) closeDevTTY() {
	if t.devTTY != nil {
		_ = t.devTTY.Close()
	}
}

func (t *tty) readLoop() {
	defer t.wg.Done()
	defer close(t.events)
	var dec keys.Decoder
	buf := make([]byte, 256)
	for {
		n, err := t.reader.Read(buf)
		for _, k := range dec.Decode(buf[:n]) {
			t.events <- keys.KeyEvent(k)
		}
		if err != nil {
			switch {
			case errors.Is(err, cancelreader.ErrCanceled):
				t.err = io.EOF
			case errors.Is(err, io.EOF):
				t.err = io.EOF
			default:
				t.err = fmt.Errorf("read terminal: %w", err)
			}
			return
		}
		if n == 0 {
			t.err = io.EOF
			return
		}
	}
}

// Layout queries the window size, preferring the output side.
func (t *tty) Layout() render.Layout {
	for _, fd := range []int{int(t.out.Fd()), t.fd} {
		cols, rows, err := xterm.GetSize(fd)
		if err == nil && cols > 0 {
			return render.Layout{Columns: cols, Rows: rows}
		}
	}
	if t.Screen != nil {
		return t.Screen.Layout()
	}
	return defaultLayout
}

func (t *tty) NextEvent(ctx context.Context) (keys.Event, error) {
	select {
	case <-ctx.Done():
		return keys.Event{}, context.Cause(ctx)
	case <-t.sigint:
		return keys.Event{}, interrupt.ErrInterrupted
	case <-t.sigwinch:
		return keys.ResizeEvent(), nil
	case ev, ok := <-t.events:
		if !ok {
			return keys.Event{}, t.err
		}
		return ev, nil
	}
}

// Close restores the saved terminal attributes and releases the reader and
// signal subscriptions. Keys read but not consumed are dropped.
func (t *tty) Close() error {
	var result *multierror.Error
	signal.Stop(t.sigint)
	signal.Stop(t.sigwinch)

	if t.reader.Cancel() {
		go func() {
			for range t.events {
			}
		}()
		t.wg.Wait()
	} else {
		log.Debug("terminal reader could not be cancelled")
	}
	if err := t.reader.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close reader: %w", err))
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.saved); err != nil {
		result = multierror.Append(result, fmt.Errorf("restore terminal: %w", err))
	}
	if t.devTTY != nil {
		if err := t.devTTY.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close /dev/tty: %w", err))
		}
	}
	return result.ErrorOrNil()
}
