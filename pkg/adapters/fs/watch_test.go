package fs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

func TestWatch_NoteCreation(t *testing.T) {
	store, _, _ := setupStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := store.Watch(ctx, "*")
	require.NoError(t, err, "Watch should be supported")
	require.NotNil(t, events)

	// Give the watcher a moment to arm (naive, same as upstream).
	time.Sleep(100 * time.Millisecond)

	stored := mustUpsert(t, store, core.Note{Title: "watched", ScheduledAtUTCMs: 1000})

	select {
	case event := <-events:
		assert.Equal(t, stored.ID, event.ID)
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, event.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for a watch event")
	}
}

func TestWatch_NoteDeletion(t *testing.T) {
	store, _, _ := setupStore(t)
	stored := mustUpsert(t, store, core.Note{Title: "doomed"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := store.Watch(ctx, "*")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, store.RemoveByID(ctx, stored.ID))

	for {
		select {
		case event := <-events:
			if event.Type == core.EventDelete && event.ID == stored.ID {
				return
			}
			// Removal of files inside the directory may surface as
			// MODIFY first; keep reading.
		case <-ctx.Done():
			t.Fatal("timed out waiting for the delete event")
		}
	}
}

func TestWatch_PatternFilter(t *testing.T) {
	store, _, _ := setupStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := store.Watch(ctx, "no-such-prefix-*")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	mustUpsert(t, store, core.Note{Title: "filtered out"})

	select {
	case event := <-events:
		t.Fatalf("expected no event through the filter, got %+v", event)
	case <-time.After(500 * time.Millisecond):
	}
}
