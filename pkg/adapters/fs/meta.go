package fs

import (
	"strconv"
	"strings"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

// metaRecord is the explicit schema of meta.txt. Every field has a
// documented zero default; decoding never fails, it substitutes defaults for
// missing or garbled values so that a damaged record degrades instead of
// aborting the read.
//
// The key order in encode is fixed: it is part of the on-disk format.
type metaRecord struct {
	ScheduledAtUTCMs int64
	Importance       int
	ContentMode      int
	AutoHideEnabled  bool
	AutoHideSeconds  int
	FiredAtUTCMs     int64 // 0 = not fired
	DismissedAtUTCMs int64 // 0 = not dismissed
	CreatedAtUTCMs   int64
	UpdatedAtUTCMs   int64
}

func metaFromNote(n core.Note) metaRecord {
	rec := metaRecord{
		ScheduledAtUTCMs: n.ScheduledAtUTCMs,
		Importance:       n.Importance,
		ContentMode:      int(n.Content.Mode),
		AutoHideEnabled:  n.AutoHideEnabled,
		AutoHideSeconds:  n.AutoHideSeconds,
		CreatedAtUTCMs:   n.CreatedAtUTCMs,
		UpdatedAtUTCMs:   n.UpdatedAtUTCMs,
	}
	if n.HasFired {
		rec.FiredAtUTCMs = n.FiredAtUTCMs
	}
	if n.Dismissed {
		rec.DismissedAtUTCMs = n.DismissedAtUTCMs
	}
	return rec
}

// apply copies the record onto a note. The fired/dismissed flags are derived
// from their timestamps: a zero timestamp means the state was never entered.
// An out-of-range content mode degrades to rich text here, before any write
// path can act on the raw value.
func (r metaRecord) apply(n *core.Note) {
	n.ScheduledAtUTCMs = r.ScheduledAtUTCMs
	n.Importance = r.Importance
	n.Content.Mode = core.ContentModeOf(r.ContentMode)
	n.AutoHideEnabled = r.AutoHideEnabled
	n.AutoHideSeconds = r.AutoHideSeconds
	if r.FiredAtUTCMs != 0 {
		n.HasFired = true
		n.FiredAtUTCMs = r.FiredAtUTCMs
	}
	if r.DismissedAtUTCMs != 0 {
		n.Dismissed = true
		n.DismissedAtUTCMs = r.DismissedAtUTCMs
	}
	n.CreatedAtUTCMs = r.CreatedAtUTCMs
	n.UpdatedAtUTCMs = r.UpdatedAtUTCMs
}

func encodeMeta(rec metaRecord) []byte {
	var b strings.Builder
	writeKV := func(key string, v int64) {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('\n')
	}
	writeKV("scheduledAtUtcMs", rec.ScheduledAtUTCMs)
	writeKV("importance", int64(rec.Importance))
	writeKV("contentMode", int64(rec.ContentMode))
	writeKV("autoHideEnabled", boolToInt(rec.AutoHideEnabled))
	writeKV("autoHideSeconds", int64(rec.AutoHideSeconds))
	writeKV("firedAtUtcMs", rec.FiredAtUTCMs)
	writeKV("dismissedAtUtcMs", rec.DismissedAtUTCMs)
	writeKV("createdAtUtcMs", rec.CreatedAtUTCMs)
	writeKV("updatedAtUtcMs", rec.UpdatedAtUTCMs)
	return []byte(b.String())
}

// decodeMeta parses key=value lines into a record. Lines without '=',
// unknown keys and unparseable numbers are ignored, leaving the zero
// default in place.
func decodeMeta(data []byte) metaRecord {
	kv := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		kv[key] = val
	}

	getI64 := func(key string) int64 {
		v, err := strconv.ParseInt(kv[key], 10, 64)
		if err != nil {
			return 0
		}
		return v
	}

	return metaRecord{
		ScheduledAtUTCMs: getI64("scheduledAtUtcMs"),
		Importance:       int(getI64("importance")),
		ContentMode:      int(getI64("contentMode")),
		AutoHideEnabled:  getI64("autoHideEnabled") != 0,
		AutoHideSeconds:  int(getI64("autoHideSeconds")),
		FiredAtUTCMs:     getI64("firedAtUtcMs"),
		DismissedAtUTCMs: getI64("dismissedAtUtcMs"),
		CreatedAtUTCMs:   getI64("createdAtUtcMs"),
		UpdatedAtUTCMs:   getI64("updatedAtUtcMs"),
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
