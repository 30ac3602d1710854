package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/flowave-io/lineinput/pkg/log"
)

// logFlags are the logging options shared by the subcommands.
type logFlags struct {
	level *string
	file  *string
}

func addLogFlags(fs *flag.FlagSet) logFlags {
	return logFlags{
		level: fs.String("log-level", "warn", "Lowest level logged: debug, info, warn, error or crit"),
		file:  fs.String("log-file", "", "Append log records to this file instead of stderr"),
	}
}

// apply routes the logger when either flag was given on the command line;
// otherwise the LINEINPUT_LOG default stays. The returned func closes the
// log file.
func (f logFlags) apply(fs *flag.FlagSet) (func(), error) {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "log-level" || fl.Name == "log-file" {
			set = true
		}
	})
	if !set {
		return func() {}, nil
	}
	if *f.file == "" {
		return func() {}, log.SetOutput(os.Stderr, *f.level)
	}
	out, err := os.OpenFile(*f.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := log.SetOutput(out, *f.level); err != nil {
		_ = out.Close()
		return nil, err
	}
	return func() { _ = out.Close() }, nil
}
