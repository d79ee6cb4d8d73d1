package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a note permanently",
	Long:  `Rm removes the note's storage directory. Deleting a nonexistent note is not an error.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, err := openService()
		if err != nil {
			fatal("failed to open notes root", err)
		}

		if err := service.RemoveByID(context.Background(), args[0]); err != nil {
			fatal("failed to delete note", err)
		}

		fmt.Printf("Deleted %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
