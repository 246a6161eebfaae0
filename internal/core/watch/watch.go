// Package watch reports when the backing files of open sessions are
// changed or removed by other programs. It only observes; acting on the
// events is up to the caller.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/neilberkman/authno/internal/core/models"
	"go.uber.org/zap"
)

// Kind is what happened to a backing file
type Kind int

const (
	Changed Kind = iota
	Removed
)

func (k Kind) String() string {
	if k == Removed {
		return "removed"
	}
	return "changed"
}

// Event is one observed change to a session's backing file
type Event struct {
	SessionID string
	Path      string
	Kind      Kind
}

// Repeats of the same event inside this window are dropped; one save
// usually fires several writes.
const settleWindow = 100 * time.Millisecond

// Changes to a path this long after Expect are taken to be our own save
const ownWriteWindow = time.Second

// Watcher watches the directories holding tracked backing files
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *zap.Logger
	events  chan Event

	mu     sync.Mutex
	byPath map[string]string // Cleaned path to session id
	dirs   map[string]bool
	last   map[string]time.Time
	quiet  map[string]time.Time // Own writes in progress, by path
	closed bool
}

// New creates a watcher tracking nothing yet
func New(log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher: fw,
		log:     log,
		events:  make(chan Event, 64),
		byPath:  make(map[string]string),
		dirs:    make(map[string]bool),
		last:    make(map[string]time.Time),
		quiet:   make(map[string]time.Time),
	}, nil
}

// Track replaces the watched set with the file-backed sessions given
func (w *Watcher) Track(sessions []models.Session) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	byPath := make(map[string]string)
	dirs := make(map[string]bool)
	for _, s := range sessions {
		if s.FilePath == "" {
			continue
		}
		path := filepath.Clean(s.FilePath)
		byPath[path] = s.ID
		dirs[filepath.Dir(path)] = true
	}

	for dir := range w.dirs {
		if !dirs[dir] {
			_ = w.watcher.Remove(dir)
		}
	}
	var firstErr error
	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
			delete(dirs, dir)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			continue
		}
		w.log.Debug("watching", zap.String("dir", dir))
	}

	w.byPath = byPath
	w.dirs = dirs
	return firstErr
}

// Expect marks path as about to be written by this process. Changes to it
// are not reported for a short while afterwards; removals still are.
func (w *Watcher) Expect(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quiet[filepath.Clean(path)] = time.Now().Add(ownWriteWindow)
}

// Events delivers observed changes until Run returns
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run forwards file system events for tracked files until ctx is done.
// The events channel is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return nil

		case fe, ok := <-w.watcher.Events:
			if !ok {
				return w.closedErr("watcher closed unexpectedly")
			}
			ev, ok := w.translate(fe, time.Now())
			if !ok {
				continue
			}
			w.log.Info("backing file event", zap.String("path", ev.Path), zap.Stringer("kind", ev.Kind))
			select {
			case w.events <- ev:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.closedErr("watcher error channel closed")
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// translate maps a raw event onto a tracked session
func (w *Watcher) translate(fe fsnotify.Event, now time.Time) (Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Clean(fe.Name)
	id, ok := w.byPath[path]
	if !ok {
		return Event{}, false
	}

	var kind Kind
	switch {
	case fe.Has(fsnotify.Remove), fe.Has(fsnotify.Rename):
		kind = Removed
	case fe.Has(fsnotify.Write), fe.Has(fsnotify.Create):
		kind = Changed
	default:
		return Event{}, false
	}

	if until, ok := w.quiet[path]; ok {
		if now.Before(until) {
			if kind == Changed {
				return Event{}, false
			}
		} else {
			delete(w.quiet, path)
		}
	}

	key := kind.String() + ":" + path
	if at, seen := w.last[key]; seen && now.Sub(at) < settleWindow {
		return Event{}, false
	}
	w.last[key] = now

	return Event{SessionID: id, Path: path, Kind: kind}, true
}

// closedErr is nil when the channels closed because of Close
func (w *Watcher) closedErr(msg string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return errors.New(msg)
}

// Close stops watching. A running Run returns nil.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return w.watcher.Close()
}
