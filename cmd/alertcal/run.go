package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	alertcalendar "github.com/hvkeyn/AlertCalendar"
	"github.com/hvkeyn/AlertCalendar/pkg/core"
	"github.com/hvkeyn/AlertCalendar/pkg/engine"
	"github.com/hvkeyn/AlertCalendar/pkg/settings"
)

var (
	runSettingsPath string
	runWatch        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reminder poller in the foreground",
	Long: `Run polls the note store and prints every reminder that fires, with the
alert sound chosen by the settings file. Ctrl-C stops it.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settingsPath := runSettingsPath
		if settingsPath == "" {
			settingsPath = filepath.Join(filepath.Dir(notesRoot()), "settings.yaml")
		}
		cfg, err := settings.Load(settingsPath)
		if err != nil {
			fatal("failed to load settings", err)
		}

		notifier := engine.NotifierFunc(func(ctx context.Context, n core.Note) {
			fmt.Printf("[%s] REMINDER %s  %s", formatInstant(n.FiredAtUTCMs), importanceLabel(n.Importance), n.Title)
			if sound := cfg.SoundFor(n.Importance); sound != "" {
				fmt.Printf("  (sound: %s)", sound)
			}
			fmt.Printf("  [id %s]\n", n.ID)
		})

		service, err := openService(
			alertcalendar.WithNotifier(notifier),
			alertcalendar.WithPollInterval(cfg.PollInterval.Std()),
		)
		if err != nil {
			fatal("failed to open notes root", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := service.StartReminders(ctx); err != nil {
			fatal("failed to start reminder engine", err)
		}

		if runWatch {
			events, err := service.Watch(ctx, "*")
			if err != nil {
				fatal("failed to watch notes root", err)
			}
			go func() {
				for e := range events {
					fmt.Printf("[watch] %s\n", e)
				}
			}()
		}

		fmt.Printf("Watching %s every %s. Ctrl-C to stop.\n", notesRoot(), cfg.PollInterval.Std())
		<-ctx.Done()

		if err := service.StopReminders(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runSettingsPath, "settings", "", "Settings file (default: settings.yaml next to the notes root)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Also print note change events")
}
