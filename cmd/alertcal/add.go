package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

var (
	addAt         string
	addImportance int
	addMarkdown   string
	addHTML       string
	addRTF        string
	addAutoHide   int
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a scheduled note",
	Long: `Add creates a note and schedules its reminder. The --at instant is
interpreted in local time; omit it for an unscheduled note that never fires.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		n := core.Note{
			Title:      args[0],
			Importance: addImportance,
		}

		if addAt != "" {
			at, err := parseLocalTime(addAt)
			if err != nil {
				fatal("invalid --at value", err)
			}
			n.ScheduledAtUTCMs = core.UnixMs(at)
		}

		switch {
		case addMarkdown != "":
			n.Content = core.Content{Mode: core.ModeMarkdown, Body: addMarkdown}
		case addHTML != "":
			n.Content = core.Content{Mode: core.ModeHTML, Body: addHTML}
		case addRTF != "":
			n.Content = core.Content{Mode: core.ModeRichText, Body: addRTF}
		}

		if addAutoHide > 0 {
			n.AutoHideEnabled = true
			n.AutoHideSeconds = addAutoHide
		}

		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		stored, err := service.Upsert(context.Background(), n)
		if err != nil {
			fatal("failed to save note", err)
		}

		fmt.Println(stored.ID)
	},
}

// parseLocalTime accepts RFC3339 or the friendlier "2006-01-02 15:04" form
// in the local timezone.
func parseLocalTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", s, time.Local)
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addAt, "at", "", "Reminder time (RFC3339 or \"YYYY-MM-DD HH:MM\" local)")
	addCmd.Flags().IntVar(&addImportance, "importance", 0, "Importance: 0 normal, 1 important, 2 urgent")
	addCmd.Flags().StringVar(&addMarkdown, "md", "", "Markdown content")
	addCmd.Flags().StringVar(&addHTML, "html", "", "HTML content")
	addCmd.Flags().StringVar(&addRTF, "rtf", "", "Rich-text content")
	addCmd.Flags().IntVar(&addAutoHide, "auto-hide", 0, "Auto-hide the popup after this many seconds")
}
