// Package monitor notifies callers when a file on disk changes.
package monitor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flowave-io/lineinput/pkg/log"
)

const debounce = 75 * time.Millisecond

// WatchFile sends on changed after path is written, created, renamed or
// removed. Bursts of events within the debounce window coalesce into one
// notification and sends never block. The parent directory is watched so
// that editors replacing the file by rename are seen. WatchFile returns
// when ctx is done.
func WatchFile(ctx context.Context, path string, changed chan<- struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logger := log.New("path", path)
	logger.Debug("watching file")

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op == fsnotify.Chmod {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			select {
			case changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
