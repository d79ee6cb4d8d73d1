// Package alertcalendar is the composition root for the AlertCalendar
// reminder components.
//
// It connects the core domain (notes, the reminder state machine) with the
// filesystem persistence adapter using a hexagonal layout.
//
// The two components:
//
//   - **Note Store** (pkg/adapters/fs): one directory per note holding a
//     key=value metadata file, the title, and at most one content payload.
//     Durable, scan-based, defensive about damaged records.
//   - **Reminder Engine** (pkg/engine): a fixed-interval poller that claims
//     due notes (MarkFired) strictly before handing them to the host's
//     notifier, giving an at-most-once-fire guarantee per reminder cycle.
//
// Usage:
//
//	svc, err := alertcalendar.New("./notes",
//		alertcalendar.WithLogger(logger),
//		alertcalendar.WithNotifier(engine.NotifierFunc(show)),
//	)
//
//	n, err := svc.Upsert(ctx, core.Note{
//		Title:            "Dentist",
//		ScheduledAtUTCMs: core.UnixMs(at),
//	})
//
//	err = svc.StartReminders(ctx)
package alertcalendar
