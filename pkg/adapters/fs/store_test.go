package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hvkeyn/AlertCalendar/pkg/adapters/fs"
	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

// The test zone is UTC+3 so the date-boundary cases in the calendar queries
// actually cross midnight.
var testZone = time.FixedZone("UTC+3", 3*3600)

// setupStore creates an initialized store over a temp directory with a
// controllable clock.
func setupStore(t *testing.T) (*fs.Store, string, *time.Time) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "notes")
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	store := fs.NewStore(fs.Config{
		Path:     root,
		Location: testZone,
		Clock:    core.ClockFunc(func() time.Time { return now }),
	})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return store, root, &now
}

func mustUpsert(t *testing.T, store *fs.Store, n core.Note) core.Note {
	t.Helper()
	stored, err := store.Upsert(context.Background(), n)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	return stored
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Root if Missing", func(t *testing.T) {
		_, root, _ := setupStore(t)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			t.Errorf("expected notes root to be created at %s", root)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		store := fs.NewStore(fs.Config{
			Path:      filepath.Join(t.TempDir(), "missing"),
			MustExist: true,
		})
		if err := store.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail when root is missing and MustExist=true")
		}
	})
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Assigns ID and Timestamps", func(t *testing.T) {
		store, _, now := setupStore(t)

		stored := mustUpsert(t, store, core.Note{Title: "Dentist"})
		if stored.ID == "" {
			t.Fatal("expected an assigned id")
		}
		wantMs := core.UnixMs(*now)
		if stored.CreatedAtUTCMs != wantMs {
			t.Errorf("CreatedAtUTCMs = %d, want %d", stored.CreatedAtUTCMs, wantMs)
		}
		if stored.UpdatedAtUTCMs != wantMs {
			t.Errorf("UpdatedAtUTCMs = %d, want %d", stored.UpdatedAtUTCMs, wantMs)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		store, _, _ := setupStore(t)

		stored := mustUpsert(t, store, core.Note{
			Title:            "Water the plants",
			ScheduledAtUTCMs: 1710500000000,
			Importance:       core.ImportanceUrgent,
			Content:          core.Content{Mode: core.ModeMarkdown, Body: "# don't forget\n"},
			AutoHideEnabled:  true,
			AutoHideSeconds:  30,
		})

		got, err := store.GetByID(ctx, stored.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got != stored {
			t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, stored)
		}
	})

	t.Run("CreatedAt Survives Updates", func(t *testing.T) {
		store, _, now := setupStore(t)

		stored := mustUpsert(t, store, core.Note{Title: "v1"})
		created := stored.CreatedAtUTCMs

		*now = now.Add(time.Hour)
		stored.Title = "v2"
		updated := mustUpsert(t, store, stored)

		if updated.CreatedAtUTCMs != created {
			t.Errorf("CreatedAtUTCMs changed on update: %d -> %d", created, updated.CreatedAtUTCMs)
		}
		if updated.UpdatedAtUTCMs == created {
			t.Error("UpdatedAtUTCMs was not refreshed")
		}
	})

	t.Run("On Disk Layout", func(t *testing.T) {
		store, root, _ := setupStore(t)

		stored := mustUpsert(t, store, core.Note{
			Title:            "Layout",
			ScheduledAtUTCMs: 42,
			Importance:       1,
			Content:          core.Content{Mode: core.ModeHTML, Body: "<p>hi</p>"},
		})

		dir := filepath.Join(root, stored.ID)
		meta, err := os.ReadFile(filepath.Join(dir, "meta.txt"))
		if err != nil {
			t.Fatalf("meta.txt missing: %v", err)
		}
		want := "scheduledAtUtcMs=42\n" +
			"importance=1\n" +
			"contentMode=1\n" +
			"autoHideEnabled=0\n" +
			"autoHideSeconds=0\n" +
			"firedAtUtcMs=0\n" +
			"dismissedAtUtcMs=0\n" +
			"createdAtUtcMs=1710504000000\n" +
			"updatedAtUtcMs=1710504000000\n"
		if string(meta) != want {
			t.Errorf("meta.txt mismatch:\n got:\n%s\n want:\n%s", meta, want)
		}

		if title, _ := os.ReadFile(filepath.Join(dir, "title.txt")); string(title) != "Layout" {
			t.Errorf("title.txt = %q", title)
		}
		if body, _ := os.ReadFile(filepath.Join(dir, "content.html")); string(body) != "<p>hi</p>" {
			t.Errorf("content.html = %q", body)
		}
		for _, leftover := range []string{"content.rtf", "content.md"} {
			if _, err := os.Stat(filepath.Join(dir, leftover)); !os.IsNotExist(err) {
				t.Errorf("unexpected %s present", leftover)
			}
		}
	})

	t.Run("Clearing Content Removes the File", func(t *testing.T) {
		store, root, _ := setupStore(t)

		stored := mustUpsert(t, store, core.Note{
			Title:   "Clear me",
			Content: core.Content{Mode: core.ModeRichText, Body: `{\rtf1 old}`},
		})

		stored.Content.Body = ""
		mustUpsert(t, store, stored)

		got, err := store.GetByID(ctx, stored.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Content.Body != "" {
			t.Errorf("stale content resurrected: %q", got.Content.Body)
		}
		if _, err := os.Stat(filepath.Join(root, stored.ID, "content.rtf")); !os.IsNotExist(err) {
			t.Error("content.rtf should have been deleted")
		}
	})

	t.Run("Switching Format Removes the Old Payload", func(t *testing.T) {
		store, root, _ := setupStore(t)

		stored := mustUpsert(t, store, core.Note{
			Content: core.Content{Mode: core.ModeMarkdown, Body: "old *md*"},
		})

		stored.Content = core.Content{Mode: core.ModeHTML, Body: "<b>new</b>"}
		mustUpsert(t, store, stored)

		if _, err := os.Stat(filepath.Join(root, stored.ID, "content.md")); !os.IsNotExist(err) {
			t.Error("content.md should have been deleted after the format switch")
		}
		got, _ := store.GetByID(ctx, stored.ID)
		if got.Content.Body != "<b>new</b>" || got.Content.Mode != core.ModeHTML {
			t.Errorf("unexpected content after switch: %+v", got.Content)
		}
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing is NotFound", func(t *testing.T) {
		store, _, _ := setupStore(t)
		if _, err := store.GetByID(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Foreign Directory is NotFound", func(t *testing.T) {
		store, root, _ := setupStore(t)
		if err := os.MkdirAll(filepath.Join(root, "stray"), 0755); err != nil {
			t.Fatal(err)
		}
		if _, err := store.GetByID(ctx, "stray"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound for directory without meta.txt, got %v", err)
		}
	})

	t.Run("Unknown Content Mode Degrades to Rich Text", func(t *testing.T) {
		store, root, _ := setupStore(t)
		dir := filepath.Join(root, "odd-mode")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		meta := "scheduledAtUtcMs=1000\ncontentMode=7\n"
		if err := os.WriteFile(filepath.Join(dir, "meta.txt"), []byte(meta), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "content.rtf"), []byte("keep me"), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := store.GetByID(ctx, "odd-mode")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Content.Mode != core.ModeRichText {
			t.Errorf("mode 7 should degrade to rich text, got %d", got.Content.Mode)
		}
		if got.Content.Body != "keep me" {
			t.Errorf("content body = %q, want %q", got.Content.Body, "keep me")
		}

		// A read-modify-write of the degraded note must not drop its payload.
		mustUpsert(t, store, got)
		again, err := store.GetByID(ctx, "odd-mode")
		if err != nil {
			t.Fatal(err)
		}
		if again.Content.Body != "keep me" {
			t.Errorf("content lost after read-back upsert: %q", again.Content.Body)
		}
	})

	t.Run("Garbled Meta Falls Back to Defaults", func(t *testing.T) {
		store, root, _ := setupStore(t)
		dir := filepath.Join(root, "damaged")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		garbage := "scheduledAtUtcMs=not-a-number\nimportance=2\nno equals sign here\n"
		if err := os.WriteFile(filepath.Join(dir, "meta.txt"), []byte(garbage), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := store.GetByID(ctx, "damaged")
		if err != nil {
			t.Fatalf("expected damaged note to still load, got %v", err)
		}
		if got.ScheduledAtUTCMs != 0 {
			t.Errorf("garbled schedule should default to 0, got %d", got.ScheduledAtUTCMs)
		}
		if got.Importance != 2 {
			t.Errorf("parseable fields should survive, importance = %d", got.Importance)
		}
	})
}

func TestRemoveByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes the Directory", func(t *testing.T) {
		store, root, _ := setupStore(t)
		stored := mustUpsert(t, store, core.Note{Title: "gone"})

		if err := store.RemoveByID(ctx, stored.ID); err != nil {
			t.Fatalf("RemoveByID failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, stored.ID)); !os.IsNotExist(err) {
			t.Error("note directory still exists")
		}
	})

	t.Run("Idempotent on Missing", func(t *testing.T) {
		store, _, _ := setupStore(t)
		if err := store.RemoveByID(ctx, "never-existed"); err != nil {
			t.Errorf("expected success, got %v", err)
		}
		if err := store.RemoveByID(ctx, "never-existed"); err != nil {
			t.Errorf("second delete should also succeed, got %v", err)
		}
	})
}

func TestListDue(t *testing.T) {
	ctx := context.Background()

	t.Run("Filters Sorts and Limits", func(t *testing.T) {
		store, _, _ := setupStore(t)

		late := mustUpsert(t, store, core.Note{Title: "late", ScheduledAtUTCMs: 3000})
		early := mustUpsert(t, store, core.Note{Title: "early", ScheduledAtUTCMs: 1000})
		mustUpsert(t, store, core.Note{Title: "future", ScheduledAtUTCMs: 9000})
		mustUpsert(t, store, core.Note{Title: "unscheduled"})
		fired := mustUpsert(t, store, core.Note{Title: "fired", ScheduledAtUTCMs: 2000})
		if err := store.MarkFired(ctx, fired.ID, 2500); err != nil {
			t.Fatal(err)
		}

		due, err := store.ListDue(ctx, 5000, 50)
		if err != nil {
			t.Fatalf("ListDue failed: %v", err)
		}
		if len(due) != 2 {
			t.Fatalf("expected 2 due notes, got %d", len(due))
		}
		if due[0].ID != early.ID || due[1].ID != late.ID {
			t.Errorf("wrong order: %s, %s", due[0].Title, due[1].Title)
		}

		limited, err := store.ListDue(ctx, 5000, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(limited) != 1 || limited[0].ID != early.ID {
			t.Errorf("limit should keep the earliest note, got %+v", limited)
		}
	})

	t.Run("Skips Unreadable Directories", func(t *testing.T) {
		store, root, _ := setupStore(t)
		mustUpsert(t, store, core.Note{Title: "good", ScheduledAtUTCMs: 1000})
		if err := os.MkdirAll(filepath.Join(root, "junk"), 0755); err != nil {
			t.Fatal(err)
		}

		due, err := store.ListDue(ctx, 5000, 50)
		if err != nil {
			t.Fatalf("scan should not fail on junk: %v", err)
		}
		if len(due) != 1 {
			t.Errorf("expected the one good note, got %d", len(due))
		}
	})
}

func TestListForDate(t *testing.T) {
	ctx := context.Background()

	t.Run("Local Date Boundary", func(t *testing.T) {
		store, _, _ := setupStore(t)

		// 2024-03-15T23:30Z is already March 16 in UTC+3.
		at := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
		n := mustUpsert(t, store, core.Note{Title: "boundary", ScheduledAtUTCMs: core.UnixMs(at)})

		day16 := time.Date(2024, 3, 16, 0, 0, 0, 0, testZone)
		notes, err := store.ListForDate(ctx, day16)
		if err != nil {
			t.Fatal(err)
		}
		if len(notes) != 1 || notes[0].ID != n.ID {
			t.Fatalf("expected note on the 16th local, got %+v", notes)
		}

		day15 := time.Date(2024, 3, 15, 0, 0, 0, 0, testZone)
		notes, err = store.ListForDate(ctx, day15)
		if err != nil {
			t.Fatal(err)
		}
		if len(notes) != 0 {
			t.Errorf("note must not appear on the 15th local, got %d", len(notes))
		}
	})

	t.Run("Sorted Ascending", func(t *testing.T) {
		store, _, _ := setupStore(t)

		day := time.Date(2024, 3, 20, 0, 0, 0, 0, testZone)
		evening := mustUpsert(t, store, core.Note{
			Title:            "evening",
			ScheduledAtUTCMs: core.UnixMs(time.Date(2024, 3, 20, 19, 0, 0, 0, testZone)),
		})
		morning := mustUpsert(t, store, core.Note{
			Title:            "morning",
			ScheduledAtUTCMs: core.UnixMs(time.Date(2024, 3, 20, 8, 0, 0, 0, testZone)),
		})
		mustUpsert(t, store, core.Note{Title: "unscheduled"})

		notes, err := store.ListForDate(ctx, day)
		if err != nil {
			t.Fatal(err)
		}
		if len(notes) != 2 || notes[0].ID != morning.ID || notes[1].ID != evening.ID {
			t.Errorf("wrong result: %+v", notes)
		}
	})
}

func TestMonthMeta(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts Importance and Preview", func(t *testing.T) {
		store, _, _ := setupStore(t)

		day10 := func(hour int) int64 {
			return core.UnixMs(time.Date(2024, 3, 10, hour, 30, 0, 0, testZone))
		}
		mustUpsert(t, store, core.Note{Title: "lunch", ScheduledAtUTCMs: day10(13), Importance: 0})
		mustUpsert(t, store, core.Note{Title: "doctor", ScheduledAtUTCMs: day10(9), Importance: 1})
		mustUpsert(t, store, core.Note{Title: "deadline", ScheduledAtUTCMs: day10(17), Importance: 2})
		mustUpsert(t, store, core.Note{
			Title:            "walk",
			ScheduledAtUTCMs: core.UnixMs(time.Date(2024, 3, 11, 7, 0, 0, 0, testZone)),
		})

		meta, err := store.MonthMeta(ctx, 2024, time.March)
		if err != nil {
			t.Fatalf("MonthMeta failed: %v", err)
		}

		d10 := meta[10]
		if d10.Count != 3 || d10.MaxImportance != 2 {
			t.Errorf("day 10: count=%d maxImportance=%d", d10.Count, d10.MaxImportance)
		}
		if d10.Preview != "09:30 doctor" {
			t.Errorf("day 10 preview = %q, want earliest note's time+title", d10.Preview)
		}

		d11 := meta[11]
		if d11.Count != 1 || d11.MaxImportance != 0 {
			t.Errorf("day 11: count=%d maxImportance=%d", d11.Count, d11.MaxImportance)
		}

		for day := 1; day < len(meta); day++ {
			if day == 10 || day == 11 {
				continue
			}
			if meta[day].Count != 0 || meta[day].Preview != "" {
				t.Errorf("day %d should be empty, got %+v", day, meta[day])
			}
		}
	})

	t.Run("Preview Truncation and Untitled", func(t *testing.T) {
		store, _, _ := setupStore(t)

		long := "a very long appointment title that will not fit"
		mustUpsert(t, store, core.Note{
			Title:            long,
			ScheduledAtUTCMs: core.UnixMs(time.Date(2024, 4, 2, 10, 0, 0, 0, testZone)),
		})
		mustUpsert(t, store, core.Note{
			ScheduledAtUTCMs: core.UnixMs(time.Date(2024, 4, 3, 11, 15, 0, 0, testZone)),
		})

		meta, err := store.MonthMeta(ctx, 2024, time.April)
		if err != nil {
			t.Fatal(err)
		}
		if want := "10:00 " + long[:22] + "…"; meta[2].Preview != want {
			t.Errorf("day 2 preview = %q, want %q", meta[2].Preview, want)
		}
		if meta[3].Preview != "11:15 (untitled)" {
			t.Errorf("day 3 preview = %q", meta[3].Preview)
		}
	})
}

func TestMarkFired(t *testing.T) {
	ctx := context.Background()

	t.Run("Claims the Note", func(t *testing.T) {
		store, _, _ := setupStore(t)
		n := mustUpsert(t, store, core.Note{Title: "due", ScheduledAtUTCMs: 1000})

		if err := store.MarkFired(ctx, n.ID, 1234); err != nil {
			t.Fatalf("MarkFired failed: %v", err)
		}

		got, err := store.GetByID(ctx, n.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !got.HasFired || got.FiredAtUTCMs != 1234 {
			t.Errorf("fired state not persisted: %+v", got)
		}

		due, err := store.ListDue(ctx, 5000, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(due) != 0 {
			t.Error("fired note must not be due again")
		}
	})

	t.Run("Missing Note Fails", func(t *testing.T) {
		store, _, _ := setupStore(t)
		if err := store.MarkFired(ctx, "ghost", 1); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMarkDismissed(t *testing.T) {
	ctx := context.Background()

	store, _, _ := setupStore(t)
	n := mustUpsert(t, store, core.Note{Title: "ack", ScheduledAtUTCMs: 1000})

	if err := store.MarkDismissed(ctx, n.ID, 4321); err != nil {
		t.Fatalf("MarkDismissed failed: %v", err)
	}

	got, err := store.GetByID(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Dismissed || got.DismissedAtUTCMs != 4321 {
		t.Errorf("dismissed state not persisted: %+v", got)
	}

	if err := store.MarkDismissed(ctx, "ghost", 1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()

	t.Run("Clears Fired and Dismissed", func(t *testing.T) {
		store, _, _ := setupStore(t)
		n := mustUpsert(t, store, core.Note{Title: "again", ScheduledAtUTCMs: 1000})
		if err := store.MarkFired(ctx, n.ID, 1500); err != nil {
			t.Fatal(err)
		}
		if err := store.MarkDismissed(ctx, n.ID, 1600); err != nil {
			t.Fatal(err)
		}

		got, err := store.Reschedule(ctx, n.ID, 9000)
		if err != nil {
			t.Fatalf("Reschedule failed: %v", err)
		}
		if got.ScheduledAtUTCMs != 9000 {
			t.Errorf("ScheduledAtUTCMs = %d, want 9000", got.ScheduledAtUTCMs)
		}
		if got.HasFired || got.FiredAtUTCMs != 0 {
			t.Errorf("fired state not cleared: %+v", got)
		}
		if got.Dismissed || got.DismissedAtUTCMs != 0 {
			t.Errorf("dismissed state not cleared: %+v", got)
		}

		due, err := store.ListDue(ctx, 10000, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(due) != 1 || due[0].ID != n.ID {
			t.Errorf("rescheduled note should be due again, got %+v", due)
		}
	})

	t.Run("Keeps Intervening Edits", func(t *testing.T) {
		store, _, _ := setupStore(t)
		n := mustUpsert(t, store, core.Note{Title: "v1", ScheduledAtUTCMs: 1000})

		// An edit landing between the claim and the reschedule must
		// survive: the reschedule reads the current record, not a
		// caller-held snapshot.
		n.Title = "v2"
		mustUpsert(t, store, n)

		got, err := store.Reschedule(ctx, n.ID, 9000)
		if err != nil {
			t.Fatal(err)
		}
		if got.Title != "v2" {
			t.Errorf("reschedule reverted a concurrent edit: title = %q", got.Title)
		}
	})

	t.Run("Missing Note Fails", func(t *testing.T) {
		store, _, _ := setupStore(t)
		if _, err := store.Reschedule(ctx, "ghost", 1); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
