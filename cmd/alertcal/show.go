package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Long:  `Show prints a note's fields, or the full record as JSON with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		n, err := service.GetByID(context.Background(), args[0])
		if err != nil {
			fatal("failed to read note", err)
		}

		if showJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(n); err != nil {
				fatal("failed to encode note", err)
			}
			return
		}

		fmt.Printf("id:         %s\n", n.ID)
		fmt.Printf("title:      %s\n", n.Title)
		fmt.Printf("scheduled:  %s\n", formatInstant(n.ScheduledAtUTCMs))
		fmt.Printf("importance: %d\n", n.Importance)
		fmt.Printf("fired:      %v (%s)\n", n.HasFired, formatInstant(n.FiredAtUTCMs))
		fmt.Printf("dismissed:  %v (%s)\n", n.Dismissed, formatInstant(n.DismissedAtUTCMs))
		if n.Content.Body != "" {
			fmt.Printf("content (%s):\n%s\n", n.Content.Mode.FileName(), n.Content.Body)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
