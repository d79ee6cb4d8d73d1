package fs

import (
	"sync"
	"time"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

// debouncer coalesces bursts of filesystem events per note id. A single
// upsert touches several files in the note directory; without coalescing a
// subscriber would see one event per file.
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	stopped bool
	timers  map[string]*time.Timer
	pending map[string]core.Event
	wg      sync.WaitGroup
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

// add schedules e for emission after the debounce window. Later events for
// the same note id within the window replace the pending one.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending[e.ID] = e
	if _, ok := d.timers[e.ID]; ok {
		return
	}

	d.wg.Add(1)
	d.timers[e.ID] = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		d.mu.Lock()
		event, ok := d.pending[e.ID]
		delete(d.pending, e.ID)
		delete(d.timers, e.ID)
		d.mu.Unlock()

		if ok {
			emit(event)
		}
	})
}

// stopAndWait refuses new events and waits (bounded) for in-flight timers,
// so the owner can safely close the destination channel afterwards.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			delete(d.pending, id)
			delete(d.timers, id)
			d.wg.Done()
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
