// Package interrupt turns Ctrl-C into an error that editing sessions and
// their callers can handle.
package interrupt

import (
	"context"
	"errors"
	"os"
	"os/signal"
)

// ErrInterrupted is returned by input operations cancelled by Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

type armedKey struct{}

// WithInterrupt runs fn with a context that is cancelled with cause
// ErrInterrupted when SIGINT arrives. Inside the scope SIGINT never
// terminates the process.
func WithInterrupt(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sig:
			cancel(ErrInterrupted)
		case <-done:
		}
	}()
	return fn(context.WithValue(ctx, armedKey{}, true))
}

// Armed reports whether ctx descends from a WithInterrupt scope.
func Armed(ctx context.Context) bool {
	v, _ := ctx.Value(armedKey{}).(bool)
	return v
}

// HandleInterrupt runs fn and, if it failed with ErrInterrupted, runs
// handler in its place. Other errors are returned unchanged.
func HandleInterrupt(handler func() error, fn func() error) error {
	err := fn()
	if errors.Is(err, ErrInterrupted) {
		return handler()
	}
	return err
}
