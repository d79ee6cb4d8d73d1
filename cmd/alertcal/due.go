package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

var dueLimit int

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List notes whose reminder time has passed",
	Long:  `Due prints the notes that are due right now and have not fired yet, oldest first.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		now := core.UnixMs(time.Now())
		notes, err := service.ListDue(context.Background(), now, dueLimit)
		if err != nil {
			fatal("failed to list due notes", err)
		}

		if len(notes) == 0 {
			fmt.Println("Nothing due.")
			return
		}
		for _, n := range notes {
			fmt.Printf("%s  %-9s  %s  %s\n", formatInstant(n.ScheduledAtUTCMs), importanceLabel(n.Importance), n.ID, n.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)
	dueCmd.Flags().IntVar(&dueLimit, "limit", 20, "Maximum notes to list")
}
