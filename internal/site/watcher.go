package site

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-daylog/internal/data/scanner"
	"github.com/penwyp/go-daylog/internal/util"
)

// NoteEvent is a change to a daily note.
type NoteEvent struct {
	Path      string
	Operation string
}

// NoteWatcher reports changes to daily notes below a directory.
type NoteWatcher struct {
	watcher   *fsnotify.Watcher
	events    chan NoteEvent
	done      chan struct{}
	closeOnce sync.Once
}

func NewNoteWatcher(dir string) (*NoteWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	nw := &NoteWatcher{
		watcher: watcher,
		events:  make(chan NoteEvent, 100),
		done:    make(chan struct{}),
	}

	if err := nw.addPath(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go nw.processEvents()

	return nw, nil
}

func (nw *NoteWatcher) addPath(path string) error {
	// Recursively add directories
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nw.watcher.Add(p)
		}
		return nil
	})
}

func (nw *NoteWatcher) processEvents() {
	defer close(nw.events)
	for {
		select {
		case event, ok := <-nw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := nw.addPath(event.Name); err != nil {
						util.LogWarn("Failed to watch new directory", util.F("dir", event.Name), util.F("error", err))
					}
					continue
				}
			}

			if scanner.IsDailyNote(event.Name) {
				select {
				case nw.events <- NoteEvent{Path: event.Name, Operation: event.Op.String()}:
				case <-nw.done:
					return
				}
			}

		case err, ok := <-nw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (nw *NoteWatcher) Events() <-chan NoteEvent {
	return nw.events
}

// Close stops the watcher. It does not wait for a reader to drain Events.
func (nw *NoteWatcher) Close() error {
	nw.closeOnce.Do(func() { close(nw.done) })
	return nw.watcher.Close()
}

// Watch builds once, then rebuilds after note changes settle for debounce.
// report receives the outcome of every build. It returns when ctx is done.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration, report func(*Result, error)) error {
	nw, err := NewNoteWatcher(b.cfg.VaultDaily)
	if err != nil {
		return err
	}
	defer nw.Close()

	report(b.Run(ctx))

	// Since Go 1.23 Reset discards stale ticks.
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-nw.Events():
			if !ok {
				return nil
			}
			util.LogDebug("Note changed", util.F("path", ev.Path), util.F("op", ev.Operation))
			b.parser.Invalidate(ev.Path)
			timer.Reset(debounce)

		case <-timer.C:
			report(b.Run(ctx))
		}
	}
}
