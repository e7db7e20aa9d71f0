package docstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes what happened to a document
type Op string

const (
	OpCreated Op = "created"
	OpWritten Op = "written"
	OpRemoved Op = "removed"
	OpRenamed Op = "renamed"
)

// DocumentEvent reports a change to a document in the container, typically
// made by the sync daemon on behalf of another device.
type DocumentEvent struct {
	Name string `json:"name"`
	Op   Op     `json:"op"`
}

// Watcher follows the container directory and emits debounced events.
type Watcher struct {
	store    *Store
	debounce time.Duration

	pending map[string]pendingEvent
	mu      sync.Mutex
}

type pendingEvent struct {
	op   Op
	seen time.Time
}

// NewWatcher creates a Watcher over the store's container
func (s *Store) NewWatcher() *Watcher {
	return &Watcher{
		store:    s,
		debounce: 500 * time.Millisecond,
		pending:  make(map[string]pendingEvent),
	}
}

// SetDebounceTime sets how long a document must be quiet before it is reported
func (w *Watcher) SetDebounceTime(d time.Duration) {
	w.debounce = d
}

// Watch starts following the container. It returns ErrUnavailable when the
// container cannot be resolved. The channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan DocumentEvent, error) {
	dir, ok := w.store.ResolveContainer()
	if !ok {
		return nil, ErrUnavailable
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan DocumentEvent, 16)
	go w.run(ctx, fw, events)

	w.store.logger.Info("watching container", "path", dir)
	return events, nil
}

// run collects fsnotify events and flushes those that have settled
func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, out chan<- DocumentEvent) {
	defer close(out)
	defer fw.Close()

	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			op, keep := translateOp(event.Op)
			if !keep {
				continue
			}
			w.mu.Lock()
			w.pending[filepath.Base(event.Name)] = pendingEvent{op: op, seen: time.Now()}
			w.mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.store.logger.Warn("watcher error", "error", err)

		case now := <-ticker.C:
			for _, ev := range w.settled(now) {
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// settled removes and returns the pending events older than the debounce time
func (w *Watcher) settled(now time.Time) []DocumentEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []DocumentEvent
	for name, p := range w.pending {
		if now.Sub(p.seen) < w.debounce {
			continue
		}
		ready = append(ready, DocumentEvent{Name: name, Op: p.op})
		delete(w.pending, name)
	}
	return ready
}

// translateOp maps fsnotify operations onto document operations; chmod is dropped
func translateOp(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemoved, true
	case op.Has(fsnotify.Rename):
		return OpRenamed, true
	case op.Has(fsnotify.Write):
		return OpWritten, true
	case op.Has(fsnotify.Create):
		return OpCreated, true
	default:
		return "", false
	}
}
