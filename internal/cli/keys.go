package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/flowave-io/lineinput/internal/encoding/jsonx"
	"github.com/flowave-io/lineinput/internal/interrupt"
	"github.com/flowave-io/lineinput/internal/keys"
	"github.com/flowave-io/lineinput/internal/term"
	"github.com/flowave-io/lineinput/pkg/log"
)

// keyRecord is one line of key dump output.
type keyRecord struct {
	Event   string `json:"event"`
	Key     string `json:"key,omitempty"`
	Rune    string `json:"rune,omitempty"`
	Name    string `json:"name,omitempty"`
	Ctrl    bool   `json:"ctrl,omitempty"`
	Meta    bool   `json:"meta,omitempty"`
	Shift   bool   `json:"shift,omitempty"`
	Columns int    `json:"columns,omitempty"`
	Rows    int    `json:"rows,omitempty"`
}

func describe(ev keys.Event, s term.Surface) keyRecord {
	if ev.Kind == keys.WindowResize {
		l := s.Layout()
		return keyRecord{Event: "resize", Columns: l.Columns, Rows: l.Rows}
	}
	k := ev.Key
	r := keyRecord{
		Event: "key",
		Key:   k.String(),
		Ctrl:  k.Mod&keys.ModCtrl != 0,
		Meta:  k.Mod&keys.ModMeta != 0,
		Shift: k.Mod&keys.ModShift != 0,
	}
	if k.Name != keys.NameNone {
		r.Name = k.Name.String()
	} else {
		r.Rune = fmt.Sprintf("U+%04X", k.Rune)
	}
	return r
}

const quitWord = "quit"

// DumpKeys prints every event read from s as a JSON line until "quit" is
// typed, Ctrl-D is pressed or input ends.
func DumpKeys(ctx context.Context, s term.Surface) error {
	if err := s.PrintLines([]string{"Press keys to see how they decode. Type 'quit' or Ctrl-D to exit."}); err != nil {
		return err
	}
	typed := ""
	for {
		ev, err := s.NextEvent(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, interrupt.ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
		rec, err := jsonx.MarshalLine(describe(ev, s))
		if err != nil {
			return fmt.Errorf("encode key: %w", err)
		}
		if err := s.PrintLines([]string{rec}); err != nil {
			return err
		}
		if ev.Kind != keys.KeyInput {
			continue
		}
		if ev.Key == keys.Ctrl('d') {
			return nil
		}
		if ev.Key.IsChar() {
			typed += string(ev.Key.Rune)
			if len(typed) > len(quitWord) {
				typed = typed[len(typed)-len(quitWord):]
			}
			if typed == quitWord {
				return nil
			}
		} else {
			typed = ""
		}
	}
}

// RunKeysCommand runs DumpKeys on the controlling terminal.
func RunKeysCommand(args []string) {
	fs := flag.NewFlagSet("keys", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	logging := addLogFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	closeLog, err := logging.apply(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "keys:", err)
		os.Exit(2)
	}
	defer closeLog()

	dev, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal("keys needs an interactive terminal", "err", err)
		os.Exit(1)
	}
	runErr := DumpKeys(context.Background(), dev)
	if err := dev.Close(); err != nil {
		log.Warn("restoring terminal", "err", err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "keys:", runErr)
		os.Exit(1)
	}
}
