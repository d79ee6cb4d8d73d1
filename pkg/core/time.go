package core

import "time"

// UnixMs converts an instant to Unix epoch milliseconds, the unit used for
// every persisted timestamp.
func UnixMs(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMs converts epoch milliseconds back to a time.Time in UTC.
func FromUnixMs(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// SameLocalDate reports whether two instants fall on the same calendar date
// when observed in loc.
func SameLocalDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
