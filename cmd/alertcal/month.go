package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var monthCmd = &cobra.Command{
	Use:   "month [year] [month]",
	Short: "Show the per-day calendar summary for a month",
	Long: `Month prints one line per day that has notes: the note count, the highest
importance of the day, and a preview of the earliest note.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("invalid year", err)
		}
		monthNum, err := strconv.Atoi(args[1])
		if err != nil || monthNum < 1 || monthNum > 12 {
			fatal("invalid month", fmt.Errorf("%q is not a month number", args[1]))
		}

		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		meta, err := service.MonthMeta(context.Background(), year, time.Month(monthNum))
		if err != nil {
			fatal("failed to aggregate month", err)
		}

		any := false
		for day := 1; day < len(meta); day++ {
			d := meta[day]
			if d.Count == 0 {
				continue
			}
			any = true
			fmt.Printf("%04d-%02d-%02d  %2d note(s)  %-9s  %s\n", year, monthNum, day, d.Count, importanceLabel(d.MaxImportance), d.Preview)
		}
		if !any {
			fmt.Printf("No notes in %04d-%02d.\n", year, monthNum)
		}
	},
}

func init() {
	rootCmd.AddCommand(monthCmd)
}
