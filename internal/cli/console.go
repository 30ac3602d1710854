package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowave-io/lineinput/internal/prefs"
	"github.com/flowave-io/lineinput/pkg/lineinput"
	"github.com/flowave-io/lineinput/pkg/log"
)

// RunReplCommand parses the repl subcommand flags and runs the demo REPL.
func RunReplCommand(args []string) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	historyPath := fs.String("history", defaultHistoryPath(), "History file; empty keeps history in memory only")
	prefsPath := fs.String("prefs", prefs.DefaultPath(), "Preferences file (HCL or YAML)")
	watch := fs.Bool("watch", false, "Reload the preferences file when it changes")
	vi := fs.Bool("vi", false, "Use vi bindings regardless of preferences")
	words := fs.String("words", "", "Comma-separated words to complete instead of filenames")
	logging := addLogFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	closeLog, err := logging.apply(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "repl:", err)
		os.Exit(2)
	}
	defer closeLog()

	settings := lineinput.Settings{
		Complete:         lineinput.FilenameCompleter(""),
		HistoryFile:      *historyPath,
		PreferencesFile:  *prefsPath,
		WatchPreferences: *watch,
	}
	if *words != "" {
		settings.Complete = lineinput.WordCompleter(strings.Split(*words, ",")...)
	}
	var opts []lineinput.Option
	if *vi {
		p := prefs.Load(*prefsPath)
		p.EditMode = prefs.Vi
		opts = append(opts, lineinput.WithPreferences(p))
	}

	in, err := lineinput.New(settings, opts...)
	if err != nil {
		log.Fatal("cannot start repl", "err", err)
		os.Exit(1)
	}
	runErr := RunREPL(context.Background(), in)
	if err := in.Close(); err != nil {
		log.Warn("saving history", "path", *historyPath, "err", err)
	}
	if runErr != nil {
		log.Error("repl failed", "err", runErr)
		closeLog()
		os.Exit(1)
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lineinput_history")
}
