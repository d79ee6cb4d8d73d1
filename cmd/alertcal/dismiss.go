package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var dismissCmd = &cobra.Command{
	Use:   "dismiss [id]",
	Short: "Acknowledge a fired note",
	Long: `Dismiss marks a note as acknowledged. It stops appearing in due queries
until a snooze re-arms it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		if err := service.Dismiss(context.Background(), args[0]); err != nil {
			fatal("failed to dismiss note", err)
		}

		fmt.Printf("Dismissed %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(dismissCmd)
}
