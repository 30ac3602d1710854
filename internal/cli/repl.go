package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flowave-io/lineinput/pkg/lineinput"
)

const (
	primaryPrompt      = ">> "
	continuationPrompt = ".. "
)

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

// RunREPL reads statements from in until end of input or :quit and echoes
// each one back. Ctrl-C abandons the statement being typed. Statements with
// open brackets or a trailing backslash continue on the next line and are
// recorded in history as one line.
func RunREPL(ctx context.Context, in *lineinput.Input) error {
	for {
		err := lineinput.WithInterrupt(ctx, func(ctx context.Context) error {
			return lineinput.HandleInterrupt(
				func() error { return in.OutputStrLn("^C") },
				func() error {
					stmt, ok, err := readStatement(ctx, in)
					if err != nil {
						return err
					}
					if !ok {
						return errQuit
					}
					return evaluate(ctx, in, stmt)
				})
		})
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readStatement reads lines until they form a complete statement. ok is
// false at end of input on the first line.
func readStatement(ctx context.Context, in *lineinput.Input) (string, bool, error) {
	stmt := ""
	prompt := primaryPrompt
	for {
		line, ok, err := in.GetInputLine(ctx, prompt)
		if err != nil {
			return "", false, err
		}
		if !ok {
			if stmt == "" {
				return "", false, nil
			}
			break
		}
		stmt = joinContinued(stmt, line)
		if !needsMore(stmt) {
			break
		}
		prompt = continuationPrompt
	}
	if strings.TrimSpace(stmt) != "" {
		in.AddHistory(flattenForHistory(stmt))
	}
	return stmt, true, nil
}

func evaluate(ctx context.Context, in *lineinput.Input, stmt string) error {
	switch strings.TrimSpace(stmt) {
	case "":
		return nil
	case ":q", ":quit":
		return errQuit
	case ":history":
		for i, h := range in.History() {
			if err := in.OutputStrLn(fmt.Sprintf("%4d  %s", i+1, h)); err != nil {
				return err
			}
		}
		return nil
	case ":prefs":
		p := in.Preferences()
		return in.OutputStrLn(fmt.Sprintf("edit_mode=%s bell_style=%s max_history_size=%d history_duplicates=%s",
			p.EditMode, p.BellStyle, p.MaxHistorySize, p.HistoryDuplicates))
	case ":char":
		ch, ok, err := in.GetInputChar(ctx, "press a key: ")
		if err != nil {
			return err
		}
		if !ok {
			return in.OutputStrLn("no key")
		}
		return in.OutputStrLn(fmt.Sprintf("%q U+%04X", ch, ch))
	case ":help":
		return in.OutputStr(replHelp)
	}
	return in.OutputStrLn(stmt)
}

const replHelp = `:history  list recorded statements
:prefs    show the active preferences
:char     read a single key
:quit     leave
`
