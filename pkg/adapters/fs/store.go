// Package fs implements the filesystem note store.
//
// Each note is an independent directory named by its id, holding a small
// key=value metadata file, the title, and at most one content payload file.
// Keeping records physically separate means a partial write to one note can
// never corrupt a sibling, and clearing one note's content never touches
// another's.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

const (
	metaFile  = "meta.txt"
	titleFile = "title.txt"

	// previewTitleRunes is the character budget for a calendar cell
	// preview before the title is cut and an ellipsis appended.
	previewTitleRunes = 22

	untitledPreview = "(untitled)"
)

// contentModes enumerates every payload format the store knows a file name
// for. Upsert deletes the files of all modes the note does not carry.
var contentModes = []core.ContentMode{core.ModeRichText, core.ModeHTML, core.ModeMarkdown}

// Config holds the configuration for the filesystem store.
type Config struct {
	// Path is the notes root directory. It is fixed at construction:
	// the store never discovers a global per-user location on its own.
	Path string

	// MustExist makes Initialize fail when the root is missing instead
	// of creating it.
	MustExist bool

	// Location is the timezone used to interpret calendar queries.
	// Defaults to time.Local.
	Location *time.Location

	// Clock supplies the timestamps stamped on writes. Defaults to the
	// system clock.
	Clock core.Clock

	Logger *slog.Logger
}

// Store implements core.Store on top of a directory tree.
//
// All queries are full scans of the root; see core.Store for why that is
// acceptable here. A single mutex serializes every read-modify-write
// sequence, which is sufficient at a personal tool's write rate.
type Store struct {
	Path   string
	config Config
	clock  core.Clock
	loc    *time.Location

	mu sync.Mutex

	stateMu       sync.RWMutex
	watcherActive bool
	lastScanCount int
	lastScan      *time.Time
}

// NewStore creates a filesystem-backed note store rooted at config.Path.
func NewStore(config Config) *Store {
	clock := config.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}
	loc := config.Location
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		Path:   config.Path,
		config: config,
		clock:  clock,
		loc:    loc,
	}
}

// Initialize prepares the notes root directory.
func (s *Store) Initialize(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("notes root does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat notes root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("notes root is not a directory: %s", s.Path)
		}
		return nil
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create notes root: %w", err)
	}
	return nil
}

func (s *Store) noteDir(id string) string {
	return filepath.Join(s.Path, id)
}

// Upsert persists the note. Writes are best-effort across the note's files:
// a failure partway through leaves earlier files updated and later ones not.
// Each individual file is still written atomically.
func (s *Store) Upsert(ctx context.Context, n core.Note) (core.Note, error) {
	if ctx.Err() != nil {
		return core.Note{}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(n)
}

func (s *Store) put(n core.Note) (core.Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	now := core.UnixMs(s.clock.Now())
	if n.CreatedAtUTCMs == 0 {
		n.CreatedAtUTCMs = now
	}
	n.UpdatedAtUTCMs = now

	dir := s.noteDir(n.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return core.Note{}, fmt.Errorf("failed to create note directory: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(dir, titleFile), []byte(n.Title), 0644); err != nil {
		return core.Note{}, fmt.Errorf("failed to write title: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, metaFile), encodeMeta(metaFromNote(n)), 0644); err != nil {
		return core.Note{}, fmt.Errorf("failed to write metadata: %w", err)
	}

	// Exactly one payload file may remain: the active mode's, and only
	// when it has content. Anything else is removed so a cleared or
	// switched format can never resurface on a later read.
	for _, mode := range contentModes {
		path := filepath.Join(dir, mode.FileName())
		if mode == n.Content.Mode && n.Content.Body != "" {
			if err := writeFileAtomic(path, []byte(n.Content.Body), 0644); err != nil {
				return core.Note{}, fmt.Errorf("failed to write content: %w", err)
			}
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return core.Note{}, fmt.Errorf("failed to clear content: %w", err)
		}
	}

	if s.logger() != nil {
		s.logger().Debug("note written", "id", n.ID, "scheduled_at", n.ScheduledAtUTCMs)
	}
	return n, nil
}

// GetByID loads a single note. A missing or unreadable record is
// core.ErrNotFound; damaged metadata values decode to their defaults.
func (s *Store) GetByID(ctx context.Context, id string) (core.Note, error) {
	if ctx.Err() != nil {
		return core.Note{}, ctx.Err()
	}
	return s.read(id)
}

func (s *Store) read(id string) (core.Note, error) {
	if id == "" {
		return core.Note{}, core.ErrNotFound
	}
	dir := s.noteDir(id)

	metaData, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		// Missing meta means missing note, whatever else the
		// directory holds.
		return core.Note{}, core.ErrNotFound
	}

	n := core.Note{ID: id}
	decodeMeta(metaData).apply(&n)

	if title, err := os.ReadFile(filepath.Join(dir, titleFile)); err == nil {
		n.Title = string(title)
	}
	if body, err := os.ReadFile(filepath.Join(dir, n.Content.Mode.FileName())); err == nil {
		n.Content.Body = string(body)
	}
	return n, nil
}

// RemoveByID deletes the note's directory recursively. Removing a note that
// does not exist succeeds.
func (s *Store) RemoveByID(ctx context.Context, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(s.noteDir(id)); err != nil {
		return fmt.Errorf("failed to remove note %s: %w", id, err)
	}
	return nil
}

// scan walks every note directory under the root and loads each note.
// Directories that fail to load are skipped; the scan never fails because
// of one bad record.
func (s *Store) scan(ctx context.Context) ([]core.Note, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notes root: %w", err)
	}

	var notes []core.Note
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		n, err := s.read(entry.Name())
		if err != nil {
			if s.logger() != nil {
				s.logger().Debug("skipping unreadable note directory", "id", entry.Name(), "error", err)
			}
			continue
		}
		notes = append(notes, n)
	}

	s.recordScan(len(notes))
	return notes, nil
}

// ListForDate returns the notes falling on the given calendar date in the
// store's location, ascending by schedule time.
func (s *Store) ListForDate(ctx context.Context, localDate time.Time) ([]core.Note, error) {
	notes, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	var out []core.Note
	for _, n := range notes {
		if !n.Scheduled() {
			continue
		}
		if core.SameLocalDate(core.FromUnixMs(n.ScheduledAtUTCMs), localDate, s.loc) {
			out = append(out, n)
		}
	}
	sortBySchedule(out)
	return out, nil
}

// MonthMeta aggregates the notes of one local month per day of month.
func (s *Store) MonthMeta(ctx context.Context, year int, month time.Month) ([core.MonthDays]core.DayMeta, error) {
	var meta [core.MonthDays]core.DayMeta

	notes, err := s.scan(ctx)
	if err != nil {
		return meta, err
	}

	// Earliest schedule per day, for the preview.
	var earliest [core.MonthDays]int64

	for _, n := range notes {
		if !n.Scheduled() {
			continue
		}
		local := core.FromUnixMs(n.ScheduledAtUTCMs).In(s.loc)
		if local.Year() != year || local.Month() != month {
			continue
		}
		day := local.Day()
		if day < 1 || day >= core.MonthDays {
			continue
		}

		d := &meta[day]
		d.Count++
		if n.Importance > d.MaxImportance {
			d.MaxImportance = n.Importance
		}
		if earliest[day] == 0 || n.ScheduledAtUTCMs < earliest[day] {
			earliest[day] = n.ScheduledAtUTCMs
			d.Preview = previewFor(local, n.Title)
		}
	}
	return meta, nil
}

func previewFor(local time.Time, title string) string {
	if title == "" {
		title = untitledPreview
	}
	if runes := []rune(title); len(runes) > previewTitleRunes {
		title = string(runes[:previewTitleRunes]) + "…"
	}
	return local.Format("15:04") + " " + title
}

// ListDue returns the unfired notes whose schedule has passed, oldest
// first, at most limit of them. A non-positive limit means no truncation.
func (s *Store) ListDue(ctx context.Context, nowUTCMs int64, limit int) ([]core.Note, error) {
	notes, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	var out []core.Note
	for _, n := range notes {
		if n.HasFired || !n.Scheduled() {
			continue
		}
		if n.ScheduledAtUTCMs <= nowUTCMs {
			out = append(out, n)
		}
	}
	sortBySchedule(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkFired claims the note for the current reminder cycle. The whole
// read-modify-write runs under the store mutex so a concurrent upsert
// cannot be lost.
func (s *Store) MarkFired(ctx context.Context, id string, firedAtUTCMs int64) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.read(id)
	if err != nil {
		return err
	}
	n.HasFired = true
	n.FiredAtUTCMs = firedAtUTCMs
	_, err = s.put(n)
	return err
}

// Reschedule re-arms the note at a new instant and clears its fired and
// dismissed state. Like MarkFired, the whole read-modify-write holds the
// store mutex so a concurrent upsert cannot be lost.
func (s *Store) Reschedule(ctx context.Context, id string, scheduledAtUTCMs int64) (core.Note, error) {
	if ctx.Err() != nil {
		return core.Note{}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.read(id)
	if err != nil {
		return core.Note{}, err
	}
	n.ScheduledAtUTCMs = scheduledAtUTCMs
	n.HasFired = false
	n.FiredAtUTCMs = 0
	n.Dismissed = false
	n.DismissedAtUTCMs = 0
	return s.put(n)
}

// MarkDismissed records the user's acknowledgment of a fired note.
func (s *Store) MarkDismissed(ctx context.Context, id string, dismissedAtUTCMs int64) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.read(id)
	if err != nil {
		return err
	}
	n.Dismissed = true
	n.DismissedAtUTCMs = dismissedAtUTCMs
	_, err = s.put(n)
	return err
}

func (s *Store) logger() *slog.Logger {
	return s.config.Logger
}

func sortBySchedule(notes []core.Note) {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ScheduledAtUTCMs < notes[j].ScheduledAtUTCMs
	})
}

var _ core.Store = (*Store)(nil)
