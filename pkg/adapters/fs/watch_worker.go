package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

// watchWorker observes the notes root with fsnotify and translates raw file
// events into per-note core.Events. It runs as a lifecycle worker so hosts
// embedding the store get tracked startup/shutdown for free.
type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("notes-watcher"),
		store:      store,
		pattern:    pattern,
		events:     events,
	}
}

// Watch starts a filesystem watcher on the notes root and emits an event per
// changed note id matching pattern (doublestar syntax, "*" for everything).
// The returned channel closes when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	events := make(chan core.Event, 16)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the root plus every existing note directory: fsnotify does
	// not recurse, and the interesting writes happen inside the per-note
	// directories.
	if err := watcher.Add(w.store.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch notes root: %w", err)
	}
	entries, err := os.ReadDir(w.store.Path)
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to enumerate note directories: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			_ = watcher.Add(filepath.Join(w.store.Path, entry.Name()))
		}
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if logger := w.store.logger(); logger != nil {
				if logger.Enabled(ctx, slog.LevelDebug) {
					logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
				} else {
					logger.Error("watcher panic", "error", panicErr)
				}
			}
		}
	}()
	defer close(w.events)
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	loopErr := w.eventLoop(ctx)

	// Drain in-flight debounce timers before the deferred close above
	// pulls the channel out from under them.
	w.debouncer.stopAndWait(5 * time.Second)

	return loopErr
}

func (w *watchWorker) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			if logger := w.store.logger(); logger != nil {
				logger.Error("fsnotify error", "error", wErr)
			}
		}
	}
}

// processEvent maps one raw filesystem event onto a note-level event,
// filtering out temp files and ids the pattern does not match.
func (w *watchWorker) processEvent(ctx context.Context, event fsnotify.Event) {
	id, topLevel, ok := w.resolveID(event.Name)
	if !ok {
		return
	}
	if match, err := doublestar.Match(w.pattern, id); err != nil || !match {
		return
	}

	var eType core.EventType
	switch {
	case topLevel && event.Has(fsnotify.Create):
		// A new note directory appeared: watch inside it too.
		_ = w.watcher.Add(event.Name)
		eType = core.EventCreate
	case topLevel && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)):
		eType = core.EventDelete
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		eType = core.EventModify
	default:
		return
	}

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		ID:        id,
		Timestamp: time.Now().Unix(),
	})
}

// resolveID extracts the note id from an event path. topLevel reports
// whether the path is the note directory itself rather than a file inside.
func (w *watchWorker) resolveID(name string) (id string, topLevel bool, ok bool) {
	rel, err := filepath.Rel(w.store.Path, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false, false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	id = parts[0]
	if strings.HasPrefix(id, ".") {
		return "", false, false
	}
	if len(parts) > 1 && strings.HasPrefix(filepath.Base(name), tempFilePrefix) {
		return "", false, false
	}
	return id, len(parts) == 1, true
}

// sendEvent enqueues an event via the debouncer, protecting against the
// events channel closing during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		defer func() {
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

var _ core.Watchable = (*Store)(nil)
