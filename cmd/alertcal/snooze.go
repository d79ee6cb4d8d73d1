package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var snoozeMinutes int

var snoozeCmd = &cobra.Command{
	Use:   "snooze [id]",
	Short: "Push a note's reminder into the future",
	Long: `Snooze reschedules a note N minutes from now and clears its fired and
dismissed marks, so it fires again when the new time passes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		n, err := service.Snooze(context.Background(), args[0], snoozeMinutes)
		if err != nil {
			fatal("failed to snooze note", err)
		}

		fmt.Printf("Snoozed %s until %s\n", n.ID, formatInstant(n.ScheduledAtUTCMs))
	},
}

func init() {
	rootCmd.AddCommand(snoozeCmd)
	snoozeCmd.Flags().IntVar(&snoozeMinutes, "minutes", 5, "Minutes to snooze")
}
