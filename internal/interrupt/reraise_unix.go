//go:build darwin || linux

package interrupt

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Reraise restores the default SIGINT disposition and delivers SIGINT to
// the process, so an interrupt outside a WithInterrupt scope terminates the
// program as it would have without a raw terminal.
func Reraise() {
	signal.Reset(os.Interrupt)
	_ = unix.Kill(unix.Getpid(), unix.SIGINT)
}
