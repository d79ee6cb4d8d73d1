package core

// ContentMode selects which payload format a note carries.
// The numeric values are part of the on-disk format and must not change.
type ContentMode int

const (
	ModeRichText ContentMode = 0
	ModeHTML     ContentMode = 1
	ModeMarkdown ContentMode = 2
)

// FileName returns the content file name used for this mode inside a note
// directory. Unknown modes map to the rich-text file.
func (m ContentMode) FileName() string {
	switch m {
	case ModeHTML:
		return "content.html"
	case ModeMarkdown:
		return "content.md"
	default:
		return "content.rtf"
	}
}

// ContentModeOf maps a stored numeric value to a mode. Out-of-range values
// degrade to rich text so a damaged record keeps a coherent payload slot
// across read-modify-write cycles.
func ContentModeOf(v int) ContentMode {
	switch m := ContentMode(v); m {
	case ModeRichText, ModeHTML, ModeMarkdown:
		return m
	}
	return ModeRichText
}

// Content is the note payload: a format tag plus a single body.
// Modeling the payload as a tagged union (rather than three parallel blobs)
// makes "more than one format populated" unrepresentable.
type Content struct {
	Mode ContentMode
	Body string
}

// Importance levels, ascending by urgency.
const (
	ImportanceNormal    = 0
	ImportanceImportant = 1
	ImportanceUrgent    = 2
)

// Note is the central entity of the domain: a single user-scheduled
// reminder record. Callers pass and receive notes by value; the store owns
// the on-disk representation exclusively.
type Note struct {
	ID    string
	Title string

	// ScheduledAtUTCMs is the absolute reminder instant in Unix epoch
	// milliseconds. Zero means unscheduled: the note is never returned by
	// due or calendar queries.
	ScheduledAtUTCMs int64
	Importance       int // 0..2

	Content Content

	// Presentation hints for the notification popup. Not consulted by the
	// store or the engine.
	AutoHideEnabled bool
	AutoHideSeconds int

	HasFired     bool
	FiredAtUTCMs int64

	Dismissed        bool
	DismissedAtUTCMs int64

	CreatedAtUTCMs int64
	UpdatedAtUTCMs int64
}

// Scheduled reports whether the note has a reminder instant at all.
func (n Note) Scheduled() bool {
	return n.ScheduledAtUTCMs != 0
}

// DayMeta is the per-calendar-day aggregate consumed by the calendar view:
// how many notes fall on the day, the highest importance among them, and a
// one-line preview of the earliest one (e.g. "09:30 Dentist").
type DayMeta struct {
	Count         int
	MaxImportance int
	Preview       string
}

// MonthDays is the size of a month aggregate array: index 1..31 maps to the
// day of month, index 0 is unused.
const MonthDays = 32
