// Package dirwatch delivers coalesced change signals for a watched
// directory. Consumers re-list the directory on each signal rather than
// interpreting individual events, so missed or merged events are harmless.
package dirwatch

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"shelf-go/internal/shelf"
)

// Watcher watches a single directory for create/delete/rename/write/chmod
// events and coalesces them into a 1-buffered signal channel.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger shelf.Logger
	ch     chan struct{}
	done   chan struct{}
}

// New starts watching dir. The directory must exist.
func New(dir string, logger shelf.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:    fsw,
		logger: logger,
		ch:     make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Coalesce: drop the signal if one is already pending.
			select {
			case w.ch <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watcher failures are never fatal; reconciliation re-lists
			// the directory on the next signal anyway.
			w.logger.Warn("directory watch error", "err", err)
		}
	}
}

// Events returns the coalesced change signal channel. Never closed.
func (w *Watcher) Events() <-chan struct{} { return w.ch }

// Close stops watching and releases the OS watch handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// Compile-time check that Watcher implements the shelf.DirWatcher interface
var _ shelf.DirWatcher = (*Watcher)(nil)
