package alertcalendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/hvkeyn/AlertCalendar/pkg/adapters/fs"
	"github.com/hvkeyn/AlertCalendar/pkg/core"
	"github.com/hvkeyn/AlertCalendar/pkg/engine"
)

// --- Configuration ---

// options holds the internal configuration assembled by Option values.
type options struct {
	autoInit     bool
	mustExist    bool
	location     *time.Location
	clock        core.Clock
	pollInterval time.Duration
	dueLimit     int
	notifier     engine.Notifier
	logger       *slog.Logger
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// WithAutoInit creates the notes root directory if it is missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) { o.autoInit = auto }
}

// WithMustExist requires the notes root to already exist.
func WithMustExist(must bool) Option {
	return func(o *options) { o.mustExist = must }
}

// WithLocation sets the timezone used for calendar queries.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// WithClock injects a clock, mainly for tests.
func WithClock(clock core.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithPollInterval sets the reminder poll period.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

// WithDueLimit caps how many notes one poll tick may deliver.
func WithDueLimit(n int) Option {
	return func(o *options) { o.dueLimit = n }
}

// WithNotifier sets the presentation callback for fired reminders.
func WithNotifier(n engine.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLogger sets the logger for the store and the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// --- Service ---

// Service bundles the note store and the reminder engine behind one handle.
type Service struct {
	store  *fs.Store
	engine *engine.Engine
}

// New creates a Service rooted at the given notes directory and ensures the
// storage is ready.
func New(root string, opts ...Option) (*Service, error) {
	o := &options{autoInit: true}
	for _, opt := range opts {
		opt(o)
	}

	store := fs.NewStore(fs.Config{
		Path: root,
		// Disabling auto-init without asking for MustExist still means
		// "don't create anything".
		MustExist: o.mustExist || !o.autoInit,
		Location:  o.location,
		Clock:     o.clock,
		Logger:    o.logger,
	})
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}

	eng := engine.New(engine.Config{
		Store:        store,
		Notifier:     o.notifier,
		Clock:        o.clock,
		PollInterval: o.pollInterval,
		DueLimit:     o.dueLimit,
		Logger:       o.logger,
	})

	return &Service{store: store, engine: eng}, nil
}

// Store exposes the underlying note store.
func (s *Service) Store() *fs.Store { return s.store }

// Engine exposes the underlying reminder engine.
func (s *Service) Engine() *engine.Engine { return s.engine }

// --- Note store operations ---

// Upsert persists a note, assigning an id on first write.
func (s *Service) Upsert(ctx context.Context, n core.Note) (core.Note, error) {
	return s.store.Upsert(ctx, n)
}

// GetByID retrieves a note.
func (s *Service) GetByID(ctx context.Context, id string) (core.Note, error) {
	return s.store.GetByID(ctx, id)
}

// RemoveByID deletes a note irreversibly.
func (s *Service) RemoveByID(ctx context.Context, id string) error {
	return s.store.RemoveByID(ctx, id)
}

// ListForDate returns the notes on a local calendar date.
func (s *Service) ListForDate(ctx context.Context, localDate time.Time) ([]core.Note, error) {
	return s.store.ListForDate(ctx, localDate)
}

// MonthMeta returns the per-day aggregates for a local month.
func (s *Service) MonthMeta(ctx context.Context, year int, month time.Month) ([core.MonthDays]core.DayMeta, error) {
	return s.store.MonthMeta(ctx, year, month)
}

// ListDue returns unfired notes whose schedule has passed.
func (s *Service) ListDue(ctx context.Context, nowUTCMs int64, limit int) ([]core.Note, error) {
	return s.store.ListDue(ctx, nowUTCMs, limit)
}

// Watch streams change events for the note collection.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return s.store.Watch(ctx, pattern)
}

// --- Reminder operations ---

// StartReminders launches the background poll loop.
func (s *Service) StartReminders(ctx context.Context) error {
	return s.engine.Start(ctx)
}

// StopReminders stops the background poll loop.
func (s *Service) StopReminders(ctx context.Context) error {
	return s.engine.Stop(ctx)
}

// Tick runs one poll cycle synchronously.
func (s *Service) Tick(ctx context.Context) error {
	return s.engine.Tick(ctx)
}

// Snooze reschedules a note into the future and re-arms it.
func (s *Service) Snooze(ctx context.Context, id string, minutes int) (core.Note, error) {
	return s.engine.Snooze(ctx, id, minutes)
}

// Dismiss terminally acknowledges a fired note for its current cycle.
func (s *Service) Dismiss(ctx context.Context, id string) error {
	return s.engine.Dismiss(ctx, id)
}
