package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	alertcalendar "github.com/hvkeyn/AlertCalendar"
)

var (
	rootDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "alertcal",
	Short: "A durable note store and reminder engine for scheduled notes",
	Long: `AlertCalendar keeps scheduled notes as plain files, one directory per note,
and fires reminders when their time passes. Notes survive restarts, support
snoozing and dismissal, and are never delivered twice in one cycle.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Notes root directory (default: per-user data dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// notesRoot resolves the notes root: the --root flag, the ALERTCAL_ROOT
// environment variable, or a per-user config directory.
func notesRoot() string {
	if rootDir != "" {
		return rootDir
	}
	if env := os.Getenv("ALERTCAL_ROOT"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "notes"
	}
	return filepath.Join(dir, "AlertCalendar", "notes")
}

func openService(opts ...alertcalendar.Option) (*alertcalendar.Service, error) {
	opts = append([]alertcalendar.Option{
		alertcalendar.WithAutoInit(true),
		alertcalendar.WithLogger(slog.Default()),
	}, opts...)
	return alertcalendar.New(notesRoot(), opts...)
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
