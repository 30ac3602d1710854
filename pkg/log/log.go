// Package log is the leveled logger shared by lineinput packages.
//
// Records are written in logfmt. By default only warnings and above reach
// stderr; setting LINEINPUT_LOG to a file path sends everything down to
// debug level to that file instead, which is the only safe sink while a
// terminal is in raw mode.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inconshreveable/log15"
)

// EnvFile names the environment variable holding a debug log path.
const EnvFile = "LINEINPUT_LOG"

var root = log15.New("module", "lineinput")

func init() {
	root.SetHandler(defaultHandler())
}

func defaultHandler() log15.Handler {
	if path := strings.TrimSpace(os.Getenv(EnvFile)); path != "" {
		h, err := log15.FileHandler(path, log15.LogfmtFormat())
		if err == nil {
			return h
		}
	}
	return log15.LvlFilterHandler(log15.LvlWarn, log15.StreamHandler(os.Stderr, log15.LogfmtFormat()))
}

// SetOutput redirects records at or above lvl ("debug", "info", "warn",
// "error", "crit") to w. A nil writer discards everything. An unknown
// level leaves the current output in place.
func SetOutput(w io.Writer, lvl string) error {
	if w == nil {
		root.SetHandler(log15.DiscardHandler())
		return nil
	}
	l, err := log15.LvlFromString(lvl)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	root.SetHandler(log15.LvlFilterHandler(l, log15.StreamHandler(w, log15.LogfmtFormat())))
	return nil
}

// New returns a child logger carrying the given key/value context.
func New(ctx ...any) log15.Logger {
	return root.New(ctx...)
}

func Fatal(msg string, ctx ...any) {
	root.Crit(msg, ctx...)
}

func Error(msg string, ctx ...any) {
	root.Error(msg, ctx...)
}

func Warn(msg string, ctx ...any) {
	root.Warn(msg, ctx...)
}

func Info(msg string, ctx ...any) {
	root.Info(msg, ctx...)
}

func Debug(msg string, ctx ...any) {
	root.Debug(msg, ctx...)
}
