package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes on a calendar date",
	Long:  `List prints the notes scheduled on a local calendar date (today by default), earliest first.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		day := time.Now()
		if listDate != "" {
			parsed, err := time.ParseInLocation("2006-01-02", listDate, time.Local)
			if err != nil {
				fatal("invalid --date value", err)
			}
			day = parsed
		}

		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		notes, err := service.ListForDate(context.Background(), day)
		if err != nil {
			fatal("failed to list notes", err)
		}

		if len(notes) == 0 {
			fmt.Printf("No notes on %s.\n", day.Format("2006-01-02"))
			return
		}
		for _, n := range notes {
			fmt.Printf("%s  %-9s  %s  %s\n", formatInstant(n.ScheduledAtUTCMs), importanceLabel(n.Importance), n.ID, n.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listDate, "date", "", "Date to list (YYYY-MM-DD, local; default today)")
}
