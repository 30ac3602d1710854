// Package lineinput reads lines and characters from the user. On an
// interactive terminal the line can be edited with emacs or vi bindings,
// recalled from history and completed; otherwise input is read plainly.
package lineinput

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/flowave-io/lineinput/internal/complete"
	"github.com/flowave-io/lineinput/internal/edit"
	"github.com/flowave-io/lineinput/internal/engine"
	"github.com/flowave-io/lineinput/internal/fallback"
	"github.com/flowave-io/lineinput/internal/history"
	"github.com/flowave-io/lineinput/internal/interrupt"
	"github.com/flowave-io/lineinput/internal/monitor"
	"github.com/flowave-io/lineinput/internal/prefs"
	"github.com/flowave-io/lineinput/internal/render"
	"github.com/flowave-io/lineinput/internal/term"
	"github.com/flowave-io/lineinput/pkg/log"
)

// Preferences are the user-tunable editor settings.
type Preferences = prefs.Preferences

// Completer proposes completions for the word at the cursor.
type Completer = complete.Provider

// ErrInterrupted is returned when Ctrl-C cancels an input call.
var ErrInterrupted = interrupt.ErrInterrupted

// Settings configure an Input.
type Settings struct {
	// Complete proposes completions on Tab. Nil disables completion.
	Complete Completer
	// HistoryFile, when set, is loaded by New and saved by Close.
	HistoryFile string
	// AutoAddHistory records every non-blank accepted line.
	AutoAddHistory bool
	// PreferencesFile is an HCL or YAML preferences file. Empty means
	// built-in defaults.
	PreferencesFile string
	// WatchPreferences reloads PreferencesFile when it changes. A reload
	// takes effect on the next input call.
	WatchPreferences bool
}

// DefaultSettings completes filenames, records history in memory and reads
// preferences from ~/.lineinput.hcl.
func DefaultSettings() Settings {
	return Settings{
		Complete:        complete.Filename{},
		AutoAddHistory:  true,
		PreferencesFile: prefs.DefaultPath(),
	}
}

// FilenameCompleter completes paths relative to dir, or the working
// directory when dir is empty.
func FilenameCompleter(dir string) Completer { return complete.Filename{Dir: dir} }

// WordCompleter completes from a fixed list of words.
func WordCompleter(words ...string) Completer { return complete.Words(words...) }

// Input reads from one pair of streams. Calls must not overlap.
type Input struct {
	settings Settings
	in, out  *os.File
	open     func() (term.Device, error)

	mu    sync.Mutex
	prefs Preferences

	hist *history.History
	kill edit.KillRing
	fb   *fallback.Reader

	stopWatch context.CancelFunc
	watchDone chan struct{}
}

// reraise is swapped in tests to observe interrupts outside WithInterrupt.
var reraise = interrupt.Reraise

// New returns an Input configured by s and opts.
func New(s Settings, opts ...Option) (*Input, error) {
	in := &Input{settings: s, in: os.Stdin, out: os.Stdout}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.in != nil {
		in.in = o.in
	}
	if o.out != nil {
		in.out = o.out
	}
	in.open = o.open
	if in.open == nil {
		in.open = func() (term.Device, error) { return term.Open(in.in, in.out) }
	}

	switch {
	case o.prefs != nil:
		in.prefs = *o.prefs
	default:
		in.prefs = prefs.Load(s.PreferencesFile)
	}
	in.hist = history.New(in.prefs.MaxHistorySize, in.prefs.HistoryDuplicates)
	if s.HistoryFile != "" {
		if err := in.hist.Load(s.HistoryFile); err != nil {
			return nil, err
		}
		log.Info("history loaded", "path", s.HistoryFile, "entries", in.hist.Len())
	}
	if s.WatchPreferences && o.prefs == nil && s.PreferencesFile != "" {
		in.watch(s.PreferencesFile)
	}
	return in, nil
}

// watch reloads preferences from path whenever the file changes.
func (in *Input) watch(path string) {
	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 1)
	in.stopWatch = cancel
	in.watchDone = make(chan struct{})

	go func() {
		defer close(in.watchDone)
		errc := make(chan error, 1)
		go func() { errc <- monitor.WatchFile(ctx, path, changed) }()
		for {
			select {
			case <-changed:
				p := prefs.Load(path)
				in.mu.Lock()
				in.prefs = p
				in.mu.Unlock()
				log.Debug("preferences reloaded", "path", path, "edit_mode", p.EditMode)
			case err := <-errc:
				if err != nil {
					log.Warn("preferences watcher stopped", "path", path, "err", err)
				}
				return
			}
		}
	}()
}

// Preferences returns the preferences the next input call will use.
func (in *Input) Preferences() Preferences {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.prefs
}

// History returns the recorded lines, oldest first.
func (in *Input) History() []string { return in.hist.Entries() }

// AddHistory records line as if it had been accepted.
func (in *Input) AddHistory(line string) { in.hist.Push(line) }

// begin reads the preferences for one call and applies the history policy.
func (in *Input) begin() Preferences {
	p := in.Preferences()
	in.hist.SetPolicy(p.MaxHistorySize, p.HistoryDuplicates)
	return p
}

func (in *Input) plain() *fallback.Reader {
	if in.fb == nil {
		in.fb = fallback.New(in.in, in.out)
	}
	return in.fb
}

// GetInputLine shows prompt and reads one line. ok is false when input
// ended before anything was typed. The prompt may span several lines; only
// its last line stays next to the edited text.
func (in *Input) GetInputLine(ctx context.Context, prompt string) (line string, ok bool, err error) {
	p := in.begin()
	dev, err := in.open()
	if errors.Is(err, term.ErrNoTerminal) {
		return in.plain().ReadLine(prompt)
	}
	if err != nil {
		return "", false, err
	}

	km, mode := edit.ForPrefs(p)
	s := in.session(dev, p, km, mode)
	s.Context.Completer = in.settings.Complete
	s.Context.History = in.hist.Cursor()
	if in.settings.AutoAddHistory {
		s.History = in.hist
	}
	res, err := in.run(ctx, dev, prompt, s)
	return res.Line, res.OK, err
}

// GetInputChar shows prompt and reads one character. ok is false on Ctrl-D
// or end of input.
func (in *Input) GetInputChar(ctx context.Context, prompt string) (ch rune, ok bool, err error) {
	p := in.begin()
	dev, err := in.open()
	if errors.Is(err, term.ErrNoTerminal) {
		return in.plain().ReadChar(prompt)
	}
	if err != nil {
		return 0, false, err
	}
	res, err := in.run(ctx, dev, prompt, in.session(dev, p, edit.CharKeyMap(), edit.ModeChar))
	return res.Rune, res.OK, err
}

func (in *Input) session(dev term.Device, p Preferences, km edit.KeyMap, mode edit.Mode) engine.Session {
	return engine.Session{
		Surface: dev,
		KeyMap:  km,
		Mode:    mode,
		State:   edit.Insert{},
		Context: &edit.Context{Prefs: p, Kill: &in.kill},
	}
}

// run prints the leading lines of prompt, edits on its last line and
// releases the terminal. An interrupt outside WithInterrupt is re-raised
// once the terminal is restored.
func (in *Input) run(ctx context.Context, dev term.Device, prompt string, s engine.Session) (engine.Result, error) {
	upper, last, multi := splitPrompt(prompt)
	s.Prompt = render.PromptCells(last)

	var res engine.Result
	var err error
	if multi {
		err = dev.PrintLines(strings.Split(upper, "\n"))
	}
	if err == nil {
		res, err = engine.Run(ctx, s)
	}

	if cerr := dev.Close(); cerr != nil {
		if err == nil {
			err = fmt.Errorf("release terminal: %w", cerr)
		} else {
			err = multierror.Append(err, fmt.Errorf("release terminal: %w", cerr))
		}
	}
	if errors.Is(err, interrupt.ErrInterrupted) && !interrupt.Armed(ctx) {
		reraise()
	}
	return res, err
}

// splitPrompt separates the lines printed above the edit line from the
// one it is drawn after.
func splitPrompt(prompt string) (upper, last string, multi bool) {
	i := strings.LastIndex(prompt, "\n")
	if i < 0 {
		return "", prompt, false
	}
	return prompt[:i], prompt[i+1:], true
}

// OutputStr writes s to the output stream.
func (in *Input) OutputStr(s string) error {
	if _, err := io.WriteString(in.out, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// OutputStrLn writes s and a newline to the output stream.
func (in *Input) OutputStrLn(s string) error { return in.OutputStr(s + "\n") }

// Close stops the preferences watcher and saves history.
func (in *Input) Close() error {
	var result *multierror.Error
	if in.stopWatch != nil {
		in.stopWatch()
		<-in.watchDone
		in.stopWatch = nil
	}
	if in.settings.HistoryFile != "" {
		if err := in.hist.Save(in.settings.HistoryFile); err != nil {
			result = multierror.Append(result, err)
		} else {
			log.Info("history saved", "path", in.settings.HistoryFile, "entries", in.hist.Len())
		}
	}
	return result.ErrorOrNil()
}

// WithInterrupt runs fn in a scope where Ctrl-C cancels input calls with
// ErrInterrupted instead of ending the process.
func WithInterrupt(ctx context.Context, fn func(context.Context) error) error {
	return interrupt.WithInterrupt(ctx, fn)
}

// HandleInterrupt runs fn, running handler in its place when fn was
// interrupted.
func HandleInterrupt(handler func() error, fn func() error) error {
	return interrupt.HandleInterrupt(handler, fn)
}
