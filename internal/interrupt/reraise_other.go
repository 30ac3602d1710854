//go:build !darwin && !linux

package interrupt

import (
	"os"
	"os/signal"
)

// Reraise restores the default SIGINT disposition and exits with the
// conventional interrupted status.
func Reraise() {
	signal.Reset(os.Interrupt)
	os.Exit(130)
}
