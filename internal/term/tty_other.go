//go:build !darwin && !linux

package term

import "os"

// Open reports ErrNoTerminal; raw terminal input is only supported on
// Linux and macOS, other platforms use the plain line reader.
func Open(in, out *os.File) (Device, error) {
	return nil, ErrNoTerminal
}
