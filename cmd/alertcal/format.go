package main

import (
	"time"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

// formatInstant renders an epoch-ms timestamp in local time, or "-" for the
// zero value (unscheduled / never happened).
func formatInstant(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return core.FromUnixMs(ms).In(time.Local).Format("2006-01-02 15:04:05")
}

func importanceLabel(importance int) string {
	switch importance {
	case core.ImportanceUrgent:
		return "urgent"
	case core.ImportanceImportant:
		return "important"
	default:
		return "normal"
	}
}
