package alertcalendar_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertcalendar "github.com/hvkeyn/AlertCalendar"
	"github.com/hvkeyn/AlertCalendar/pkg/core"
	"github.com/hvkeyn/AlertCalendar/pkg/engine"
)

// TestReminderLifecycle walks one note through the full cycle:
// create -> due -> fired -> snoozed -> due again -> dismissed.
func TestReminderLifecycle(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := core.ClockFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	var fired []core.Note
	notifier := engine.NotifierFunc(func(_ context.Context, n core.Note) {
		fired = append(fired, n)
	})

	svc, err := alertcalendar.New(filepath.Join(t.TempDir(), "notes"),
		alertcalendar.WithClock(clock),
		alertcalendar.WithNotifier(notifier),
	)
	require.NoError(t, err)

	n, err := svc.Upsert(ctx, core.Note{
		Title:            "Stand-up",
		ScheduledAtUTCMs: core.UnixMs(now.Add(time.Minute)),
		Importance:       core.ImportanceImportant,
	})
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)

	// Not due yet.
	require.NoError(t, svc.Tick(ctx))
	assert.Empty(t, fired)

	// Passes its schedule: exactly one delivery across two ticks.
	advance(2 * time.Minute)
	require.NoError(t, svc.Tick(ctx))
	require.NoError(t, svc.Tick(ctx))
	require.Len(t, fired, 1)
	assert.Equal(t, n.ID, fired[0].ID)

	// Snooze re-arms it five minutes out.
	snoozed, err := svc.Snooze(ctx, n.ID, 5)
	require.NoError(t, err)
	assert.False(t, snoozed.HasFired)

	advance(6 * time.Minute)
	require.NoError(t, svc.Tick(ctx))
	require.Len(t, fired, 2)

	// Dismiss ends the cycle for good.
	require.NoError(t, svc.Dismiss(ctx, n.ID))
	advance(24 * time.Hour)
	require.NoError(t, svc.Tick(ctx))
	assert.Len(t, fired, 2)

	// The record survives with its history.
	got, err := svc.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Dismissed)
}

func TestCalendarQueries(t *testing.T) {
	ctx := context.Background()
	zone := time.FixedZone("UTC+3", 3*3600)

	svc, err := alertcalendar.New(filepath.Join(t.TempDir(), "notes"),
		alertcalendar.WithLocation(zone),
	)
	require.NoError(t, err)

	_, err = svc.Upsert(ctx, core.Note{
		Title: "late night",
		// 23:30 UTC on the 15th is the 16th in UTC+3.
		ScheduledAtUTCMs: core.UnixMs(time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	notes, err := svc.ListForDate(ctx, time.Date(2024, 3, 16, 0, 0, 0, 0, zone))
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	meta, err := svc.MonthMeta(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 1, meta[16].Count)
	assert.Equal(t, "02:30 late night", meta[16].Preview)
}
