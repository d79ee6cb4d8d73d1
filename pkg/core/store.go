package core

import (
	"context"
	"time"
)

// Store defines the contract for the durable note collection.
// Adhering to this interface keeps the engine and any host UI independent of
// the underlying storage mechanism (filesystem today; anything tomorrow).
//
// Query operations (ListForDate, MonthMeta, ListDue) scan the whole
// collection on every call. There is no index: the expected collection size
// is personal-scale (hundreds to low thousands of notes), so O(n) per query
// is a deliberate simplicity trade-off.
type Store interface {
	// Upsert persists a note, creating it if needed. An empty ID is
	// assigned by the store. CreatedAtUTCMs is stamped on first write,
	// UpdatedAtUTCMs on every write. The stored note is returned.
	Upsert(ctx context.Context, n Note) (Note, error)

	// GetByID retrieves a note. Missing or unreadable records yield
	// ErrNotFound, never a partial note.
	GetByID(ctx context.Context, id string) (Note, error)

	// RemoveByID deletes a note's backing directory recursively.
	// Deleting a nonexistent note is a no-op, not an error.
	RemoveByID(ctx context.Context, id string) error

	// ListForDate returns the notes whose schedule falls on the given
	// local calendar date, ascending by schedule time.
	ListForDate(ctx context.Context, localDate time.Time) ([]Note, error)

	// MonthMeta aggregates the given local month per day of month
	// (index 1..31; index 0 unused).
	MonthMeta(ctx context.Context, year int, month time.Month) ([MonthDays]DayMeta, error)

	// ListDue returns unfired notes scheduled at or before nowUTCMs,
	// ascending by schedule time, truncated to limit.
	ListDue(ctx context.Context, nowUTCMs int64, limit int) ([]Note, error)

	// MarkFired claims a due note: sets HasFired and FiredAtUTCMs.
	// Fails with ErrNotFound if the note no longer exists.
	MarkFired(ctx context.Context, id string, firedAtUTCMs int64) error

	// MarkDismissed records the user's acknowledgment of a fired note.
	MarkDismissed(ctx context.Context, id string, dismissedAtUTCMs int64) error

	// Reschedule moves a note's reminder instant and clears its fired and
	// dismissed state, starting a fresh reminder cycle. The whole
	// read-modify-write is serialized against concurrent writes, so an
	// update landing alongside a snooze is never lost. The updated note is
	// returned.
	Reschedule(ctx context.Context, id string, scheduledAtUTCMs int64) (Note, error)

	// Initialize ensures the underlying storage is ready
	// (e.g. create the notes root directory).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report external changes to
// the note collection, so a host UI can refresh without polling.
type Watchable interface {
	// Watch emits an event per changed note id matching pattern until ctx
	// is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
