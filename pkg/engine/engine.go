// Package engine implements the reminder delivery state machine.
//
// A note moves through one reminder cycle as
//
//	Scheduled -> Due (wall clock passes the schedule, seen by a poll)
//	Due       -> Fired (the engine claims it via MarkFired)
//	Fired     -> Dismissed (terminal for the cycle), or
//	Fired     -> Scheduled again (snooze re-arms it)
//
// The engine polls on a fixed interval rather than keeping a timer per
// note: at personal-tool scale a scan per second is cheap, and polling
// needs no deduplication against UI-triggered reschedules.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

const (
	// DefaultPollInterval is how often the store is polled for due notes.
	DefaultPollInterval = time.Second

	// DefaultDueLimit bounds how many notes one tick can deliver.
	DefaultDueLimit = 20
)

// Notifier receives claimed notes for presentation. Implementations belong
// to the host (popup window, desktop notification, stdout); the engine only
// guarantees each note is handed over at most once per reminder cycle.
type Notifier interface {
	Notify(ctx context.Context, n core.Note)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n core.Note)

func (f NotifierFunc) Notify(ctx context.Context, n core.Note) { f(ctx, n) }

// Config holds the engine configuration.
type Config struct {
	Store        core.Store
	Notifier     Notifier
	Clock        core.Clock // defaults to the system clock
	PollInterval time.Duration
	DueLimit     int
	Logger       *slog.Logger
}

// Engine polls the store for due notes and delivers them. It runs as a
// lifecycle worker; hosts that do not want a background goroutine can drive
// it manually through Tick.
type Engine struct {
	*worker.BaseWorker

	store    core.Store
	notifier Notifier
	clock    core.Clock
	interval time.Duration
	limit    int
	logger   *slog.Logger
	cancel   context.CancelFunc

	stateMu   sync.RWMutex
	ticks     uint64
	fired     uint64
	lastTick  *time.Time
	lastError string
}

// New creates a reminder engine. Store is required; a nil Notifier is
// allowed and simply drops deliveries (the claim still happens).
func New(config Config) *Engine {
	clock := config.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}
	interval := config.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	limit := config.DueLimit
	if limit <= 0 {
		limit = DefaultDueLimit
	}
	return &Engine{
		BaseWorker: worker.NewBaseWorker("reminder-engine"),
		store:      config.Store,
		notifier:   config.Notifier,
		clock:      clock,
		interval:   interval,
		limit:      limit,
		logger:     config.Logger,
	}
}

// Start launches the poll loop. It returns immediately; the loop runs until
// ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := e.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("engine already started (status: %s)", status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.SetStatus(worker.StatusRunning)
	return e.StartFunc(runCtx, e.run)
}

// Stop requests the poll loop to terminate.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.StopRequested = true
		e.cancel()
	}
	return e.BaseWorker.Stop(ctx)
}

// State implements the lifecycle worker contract.
func (e *Engine) State() worker.State {
	return e.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (e *Engine) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("engine panic: %v", recovered)
			if e.logger != nil {
				if e.logger.Enabled(ctx, slog.LevelDebug) {
					e.logger.Error("engine panic", "error", panicErr, "stack", string(debug.Stack()))
				} else {
					e.logger.Error("engine panic", "error", panicErr)
				}
			}
		}
	}()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Tick errors are already logged and the affected notes
			// stay eligible; the loop must outlive them.
			_ = e.Tick(ctx)
		}
	}
}

// Tick performs one poll cycle: list the due notes, claim each one, then
// notify. Claiming strictly before notifying is the at-most-once-fire
// guarantee: once MarkFired succeeds the note is excluded from the next
// ListDue, no matter how slowly the presentation layer reacts. A claim that
// fails is logged and skipped; the note remains due and is retried on the
// next tick.
func (e *Engine) Tick(ctx context.Context) error {
	now := core.UnixMs(e.clock.Now())

	due, err := e.store.ListDue(ctx, now, e.limit)
	if err != nil {
		e.recordTick(0, err)
		if e.logger != nil {
			e.logger.Warn("due query failed", "error", err)
		}
		return err
	}

	var delivered int
	var firstErr error
	for _, n := range due {
		if ctx.Err() != nil {
			e.recordTick(delivered, ctx.Err())
			return ctx.Err()
		}

		if err := e.store.MarkFired(ctx, n.ID, now); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if e.logger != nil {
				e.logger.Warn("failed to claim due note", "id", n.ID, "error", err)
			}
			continue
		}
		n.HasFired = true
		n.FiredAtUTCMs = now

		if e.logger != nil {
			e.logger.Info("reminder fired", "id", n.ID, "title", n.Title, "importance", n.Importance)
		}
		delivered++
		if e.notifier != nil {
			e.notifier.Notify(ctx, n)
		}
	}

	e.recordTick(delivered, firstErr)
	return firstErr
}

// Snooze reschedules a fired (or even still-pending) note minutes into the
// future and resets its fired/dismissed flags, starting a fresh reminder
// cycle. The mutation runs as a single store operation so a concurrent edit
// of the same note is never overwritten with stale fields. The updated note
// is returned.
func (e *Engine) Snooze(ctx context.Context, id string, minutes int) (core.Note, error) {
	target := core.UnixMs(e.clock.Now()) + int64(minutes)*60_000
	stored, err := e.store.Reschedule(ctx, id, target)
	if err != nil {
		return core.Note{}, fmt.Errorf("snooze: %w", err)
	}
	if e.logger != nil {
		e.logger.Info("reminder snoozed", "id", id, "minutes", minutes)
	}
	return stored, nil
}

// Dismiss terminally acknowledges a fired note for the current cycle.
// The note stops appearing in due queries until a snooze re-arms it.
func (e *Engine) Dismiss(ctx context.Context, id string) error {
	now := core.UnixMs(e.clock.Now())
	if err := e.store.MarkDismissed(ctx, id, now); err != nil {
		return fmt.Errorf("dismiss: %w", err)
	}
	if e.logger != nil {
		e.logger.Info("reminder dismissed", "id", id)
	}
	return nil
}

func (e *Engine) recordTick(delivered int, err error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	now := time.Now()
	e.ticks++
	e.fired += uint64(delivered)
	e.lastTick = &now
	if err != nil {
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
}
