// Package watch turns edits of a YAML settings file into settings-changed
// events.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/pkg/settings"
)

// DefaultDelay coalesces the bursts of events editors produce per save.
const DefaultDelay = 50 * time.Millisecond

// Event carries the full form state read after a change, or the error that
// prevented reading it.
type Event struct {
	Raw settings.Raw
	Err error
}

// Watcher watches one settings file. The parent directory is watched so
// that editors replacing the file by rename are followed.
type Watcher struct {
	path   string
	delay  time.Duration
	log    *zap.Logger
	fs     *fsnotify.Watcher
	events chan Event
}

// New starts watching path. Run must be called to deliver events.
func New(path string, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:   abs,
		delay:  DefaultDelay,
		log:    log,
		fs:     fsw,
		events: make(chan Event),
	}, nil
}

// SetDelay changes the coalescing delay. Call before Run.
func (w *Watcher) SetDelay(d time.Duration) {
	w.delay = d
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the event channel. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run delivers the current file contents, then one event per settled
// change, until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fs.Close()

	w.emit(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				w.log.Debug("ignoring settings file event", zap.Stringer("op", ev.Op))
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.emit(ctx)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) emit(ctx context.Context) {
	raw, err := settings.ReadFile(w.path)
	if err != nil {
		w.log.Warn("reading settings file", zap.String("path", w.path), zap.Error(err))
	}
	select {
	case w.events <- Event{Raw: raw, Err: err}:
	case <-ctx.Done():
	}
}
